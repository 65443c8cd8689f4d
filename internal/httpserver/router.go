package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/session"
)

type Deps struct {
	Auth     *AuthHTTP
	Products *ProductsHTTP
	Cart     *CartHTTP
	Session  *session.Store
	Guard    *guard.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	guardMW := d.Guard.Middleware(d.Session)

	// Logout and session introspection bypass the guard: both must stay
	// reachable whatever state the session is in.
	e.POST("/auth/logout", d.Auth.Logout)
	e.GET("/auth/session", d.Auth.SessionState)

	auth := e.Group("/auth", guardMW)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/register", d.Auth.Register)

	products := e.Group("/products", guardMW)
	products.GET("", d.Products.GetProducts)
	products.GET("/:id", d.Products.GetProduct)

	cart := e.Group("/cart", guardMW)
	cart.GET("", d.Cart.GetCart)
	cart.POST("/items", d.Cart.AddItem)
	cart.PATCH("/items/:id", d.Cart.UpdateQuantity)
	cart.DELETE("/items/:id", d.Cart.RemoveItem)
	cart.DELETE("", d.Cart.ClearCart)

	e.GET("/profile", d.Auth.Profile, guardMW)
}
