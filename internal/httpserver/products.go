package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/util"
)

type ProductsHTTP struct {
	Client *api.Client
}

func (h *ProductsHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.list")

	filter, err := parseFilter(c)
	if err != nil {
		l.Warn("get_products_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	products, pagination, err := h.Client.ListProducts(ctx, filter)
	if err != nil {
		l.Error("get_products_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "cannot fetch products")
	}

	l.Info("get_products_success", "count", len(products))
	return c.JSON(http.StatusOK, map[string]any{"data": map[string]any{
		"products":   products,
		"pagination": pagination,
	}})
}

func (h *ProductsHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.get")

	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product id required")
	}

	product, err := h.Client.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			l.Warn("get_product_error", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_error", "status", 502, "id", id, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "cannot fetch product")
	}

	return c.JSON(http.StatusOK, map[string]any{"data": product})
}

func parseFilter(c echo.Context) (api.ProductFilter, error) {
	filter := api.ProductFilter{
		Featured: util.ParseBool(c.QueryParam("featured")),
		MinPrice: util.ParseFloat(c.QueryParam("minPrice")),
		MaxPrice: util.ParseFloat(c.QueryParam("maxPrice")),
		Page:     util.ParseIntDefault(c.QueryParam("page"), api.DefaultPage),
		Limit:    util.ParseIntDefault(c.QueryParam("limit"), api.DefaultLimit),
	}

	if raw := c.QueryParam("category"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filter.Categories = append(filter.Categories, part)
			}
		}
	}

	switch sort := api.SortOrder(c.QueryParam("sort")); sort {
	case "", api.SortPriceAsc, api.SortPriceDesc, api.SortRating, api.SortNewest:
		filter.Sort = sort
	default:
		return api.ProductFilter{}, errors.New("unknown sort order")
	}

	return filter, nil
}
