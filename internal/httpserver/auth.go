package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AuthHTTP struct {
	Session *session.Store
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		l.Warn("login_error", "status", 400, "reason", "missing credentials")
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	res := h.Session.Login(ctx, req.Email, req.Password)
	if !res.Success {
		l.Warn("login_error", "status", 401, "reason", res.Message)
		return echo.NewHTTPError(http.StatusUnauthorized, res.Message)
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, map[string]any{"data": map[string]any{"user": h.Session.State().User}})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		l.Warn("register_error", "status", 400, "reason", "missing credentials")
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	res := h.Session.Register(ctx, api.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if !res.Success {
		l.Warn("register_error", "status", 401, "reason", res.Message)
		return echo.NewHTTPError(http.StatusUnauthorized, res.Message)
	}

	l.Info("register_success")
	return c.JSON(http.StatusCreated, map[string]any{"data": map[string]any{"user": h.Session.State().User}})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	h.Session.Logout(ctx)

	l.Info("logout_success")
	return c.NoContent(http.StatusNoContent)
}

// SessionState reports the current session without touching the backend.
func (h *AuthHTTP) SessionState(c echo.Context) error {
	st := h.Session.State()
	return c.JSON(http.StatusOK, map[string]any{"data": map[string]any{
		"authenticated": st.Authenticated,
		"loading":       st.Loading,
		"user":          st.User,
	}})
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")

	st := h.Session.State()
	if !st.Authenticated {
		l.Warn("profile_error", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": st.User})
}
