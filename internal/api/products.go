package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
)

type SortOrder string

const (
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
	SortNewest    SortOrder = "newest"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// ProductFilter is translated verbatim into backend query parameters; the
// backend owns filtering and ordering, the client never caches results.
type ProductFilter struct {
	Categories []string
	Featured   *bool
	MinPrice   *float64
	MaxPrice   *float64
	Sort       SortOrder
	Page       int
	Limit      int
}

func (f ProductFilter) query() url.Values {
	q := url.Values{}
	if len(f.Categories) > 0 {
		q.Set("category", strings.Join(f.Categories, ","))
	}
	if f.Featured != nil {
		q.Set("featured", strconv.FormatBool(*f.Featured))
	}
	if f.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Sort != "" {
		q.Set("sort", string(f.Sort))
	}
	page := f.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := f.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

type productListPayload struct {
	Data struct {
		Products   []models.Product  `json:"products"`
		Pagination models.Pagination `json:"pagination"`
	} `json:"data"`
}

type productPayload struct {
	Data models.Product `json:"data"`
}

// ListProducts fetches one page of the catalog under the given filter.
func (c *Client) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, *models.Pagination, error) {
	var payload productListPayload
	if err := c.do(ctx, http.MethodGet, "/products", filter.query(), nil, &payload); err != nil {
		return nil, nil, err
	}
	return payload.Data.Products, &payload.Data.Pagination, nil
}

// GetProduct fetches a single product. A missing id surfaces as ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var payload productPayload
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &payload); err != nil {
		return nil, err
	}
	return &payload.Data, nil
}
