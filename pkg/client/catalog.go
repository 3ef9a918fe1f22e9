package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopdesk/shopdesk/pkg/domain"
)

// envelope is the { "data": ... } wrapper the API puts around resources.
type envelope[T any] struct {
	Data T `json:"data"`
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + url.PathEscape(strconv.FormatInt(id, 10))
}

// --- Product methods ---

// ListProducts fetches the product catalogue.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var resp envelope[[]domain.Product]
	if err := c.get(ctx, "/products", &resp); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return resp.Data, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var resp envelope[*domain.Product]
	if err := c.get(ctx, idPath("/products", id), &resp); err != nil {
		return nil, fmt.Errorf("client.GetProduct: %w", err)
	}
	return resp.Data, nil
}

// CreateProduct creates a product.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var resp envelope[*domain.Product]
	if err := c.post(ctx, "/products", in, &resp); err != nil {
		return nil, fmt.Errorf("client.CreateProduct: %w", err)
	}
	return resp.Data, nil
}

// UpdateProduct replaces a product's editable fields.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	var resp envelope[*domain.Product]
	if err := c.doRequest(ctx, http.MethodPut, idPath("/products", id), in, &resp); err != nil {
		return nil, fmt.Errorf("client.UpdateProduct: %w", err)
	}
	return resp.Data, nil
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, idPath("/products", id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteProduct: %w", err)
	}
	return nil
}

// --- Category methods ---

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var resp envelope[[]domain.Category]
	if err := c.get(ctx, "/categories", &resp); err != nil {
		return nil, fmt.Errorf("client.ListCategories: %w", err)
	}
	return resp.Data, nil
}

// GetCategory fetches a single category by ID.
func (c *Client) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var resp envelope[*domain.Category]
	if err := c.get(ctx, idPath("/categories", id), &resp); err != nil {
		return nil, fmt.Errorf("client.GetCategory: %w", err)
	}
	return resp.Data, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	var resp envelope[*domain.Category]
	if err := c.post(ctx, "/categories", in, &resp); err != nil {
		return nil, fmt.Errorf("client.CreateCategory: %w", err)
	}
	return resp.Data, nil
}

// UpdateCategory replaces a category's editable fields.
func (c *Client) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	var resp envelope[*domain.Category]
	if err := c.doRequest(ctx, http.MethodPut, idPath("/categories", id), in, &resp); err != nil {
		return nil, fmt.Errorf("client.UpdateCategory: %w", err)
	}
	return resp.Data, nil
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, idPath("/categories", id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteCategory: %w", err)
	}
	return nil
}
