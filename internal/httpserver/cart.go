package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CartHTTP struct {
	Cart *cart.Store
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cartView())
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ID == "" {
		l.Warn("add_item_error", "status", 400, "reason", "missing product id")
		return echo.NewHTTPError(http.StatusBadRequest, "product id required")
	}

	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	h.Cart.Add(ctx, cart.Item{ID: req.ID, Name: req.Name, Price: req.Price, Image: req.Image}, qty)

	l.Info("add_item_success", "product_id", req.ID, "quantity", qty)
	return c.JSON(http.StatusCreated, h.cartView())
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	id := c.Param("id")
	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	h.Cart.UpdateQuantity(ctx, id, req.Quantity)

	return c.JSON(http.StatusOK, h.cartView())
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	h.Cart.Remove(ctx, c.Param("id"))

	return c.JSON(http.StatusOK, h.cartView())
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	h.Cart.Clear(ctx)

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) cartView() map[string]any {
	lines := h.Cart.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return map[string]any{"data": map[string]any{
		"items":      lines,
		"totalItems": h.Cart.TotalItems(),
		"totalPrice": h.Cart.TotalPrice(),
	}}
}
