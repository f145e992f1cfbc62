package upstream

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Confidence90/merchant-maple/internal/models"
)

// Vendor dashboard payloads pass through unparsed; the gateway's job is
// gating, not reshaping analytics.
func (c *Client) VendorDashboard(ctx context.Context, accessToken string) (json.RawMessage, error) {
	var stats json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/users/vendor/dashboard/", accessToken, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) VendorOrders(ctx context.Context, accessToken string) (*models.VendorOrders, error) {
	var orders models.VendorOrders
	if err := c.do(ctx, http.MethodGet, "/api/users/vendor/orders/", accessToken, nil, &orders); err != nil {
		return nil, err
	}
	return &orders, nil
}

func (c *Client) VendorProducts(ctx context.Context, accessToken string) (*models.VendorProducts, error) {
	var products models.VendorProducts
	if err := c.do(ctx, http.MethodGet, "/api/users/vendor/products/", accessToken, nil, &products); err != nil {
		return nil, err
	}
	return &products, nil
}

func (c *Client) VendorReviews(ctx context.Context, accessToken string) (*models.VendorReviews, error) {
	var reviews models.VendorReviews
	if err := c.do(ctx, http.MethodGet, "/api/users/vendor/reviews/", accessToken, nil, &reviews); err != nil {
		return nil, err
	}
	return &reviews, nil
}
