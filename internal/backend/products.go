package backend

import (
	"context"
	"fmt"
	"net/url"

	"marketspace/internal/models"
)

// FetchProducts lists other users' active ads. params carries either the
// free-text `query` or the structured filter parameters (`is_new`,
// `accept_trade`, repeated `payment_methods`), never both.
func (c *Client) FetchProducts(ctx context.Context, token string, params url.Values) ([]models.Product, error) {
	var products []models.Product

	req := c.request(token).SetContext(ctx).SetResult(&products)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}

	resp, err := req.Get("/products")
	if err := wrap(resp, err, "fetch products"); err != nil {
		return nil, err
	}

	return products, nil
}

// FetchOwnProducts lists every ad owned by the caller, active or not.
func (c *Client) FetchOwnProducts(ctx context.Context, token string) ([]models.Product, error) {
	var products []models.Product

	resp, err := c.request(token).
		SetContext(ctx).
		SetResult(&products).
		Get("/users/products")
	if err := wrap(resp, err, "fetch own products"); err != nil {
		return nil, err
	}

	return products, nil
}

// FetchProduct retrieves a single ad with its images and owner summary.
func (c *Client) FetchProduct(ctx context.Context, token, productID string) (*models.Product, error) {
	var product models.Product

	resp, err := c.request(token).
		SetContext(ctx).
		SetResult(&product).
		Get("/products/" + url.PathEscape(productID))
	if err := wrap(resp, err, fmt.Sprintf("fetch product %s", productID)); err != nil {
		return nil, err
	}

	return &product, nil
}

// CreateProduct creates the base ad record and returns it with the ID the
// backend assigned. Images are uploaded separately.
func (c *Client) CreateProduct(ctx context.Context, token string, input ProductInput) (*models.Product, error) {
	var product models.Product

	resp, err := c.request(token).
		SetContext(ctx).
		SetBody(input).
		SetResult(&product).
		Post("/products")
	if err := wrap(resp, err, "create product"); err != nil {
		return nil, err
	}

	return &product, nil
}

// UpdateProduct replaces the ad's base fields.
func (c *Client) UpdateProduct(ctx context.Context, token, productID string, input ProductInput) error {
	resp, err := c.request(token).
		SetContext(ctx).
		SetBody(input).
		Put("/products/" + url.PathEscape(productID))
	return wrap(resp, err, fmt.Sprintf("update product %s", productID))
}

// SetProductActive issues the partial update that flips only is_active.
func (c *Client) SetProductActive(ctx context.Context, token, productID string, active bool) error {
	resp, err := c.request(token).
		SetContext(ctx).
		SetBody(map[string]bool{"is_active": active}).
		Patch("/products/" + url.PathEscape(productID))
	return wrap(resp, err, fmt.Sprintf("set product %s active=%t", productID, active))
}

// DeleteProduct removes the ad. The backend cascades its images.
func (c *Client) DeleteProduct(ctx context.Context, token, productID string) error {
	resp, err := c.request(token).
		SetContext(ctx).
		Delete("/products/" + url.PathEscape(productID))
	return wrap(resp, err, fmt.Sprintf("delete product %s", productID))
}
