package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/session"
)

// Middleware applies the guard to incoming requests. A loading session
// answers 503 so the caller retries instead of acting on an undetermined
// session; redirects are served as 302.
func (g *Guard) Middleware(s *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := s.State()
			d := g.Evaluate(c.Request().URL.Path, st.Authenticated, st.Loading)
			switch d.Action {
			case Wait:
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session is still loading")
			case Redirect:
				return c.Redirect(http.StatusFound, d.Target)
			}
			return next(c)
		}
	}
}
