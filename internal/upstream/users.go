package upstream

import (
	"context"
	"net/http"

	"github.com/Confidence90/merchant-maple/internal/models"
)

// LoginResult is the marketplace login payload: a token pair plus a thin
// identity. The full user record (seller profile included) comes from Me.
type LoginResult struct {
	Access   string        `json:"access"`
	Refresh  string        `json:"refresh"`
	ID       models.FlexID `json:"id"`
	Email    string        `json:"email"`
	FullName string        `json:"full_name"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/users/login/", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SocialLogin exchanges a provider token (Google id_token, GitHub access
// token) for marketplace credentials.
func (c *Client) SocialLogin(ctx context.Context, provider, providerToken string) (*LoginResult, error) {
	var body map[string]string
	switch provider {
	case "google":
		body = map[string]string{"id_token": providerToken}
	default:
		body = map[string]string{"access_token": providerToken}
	}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/users/"+provider+"/login/", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me is the whoami endpoint. A 401 here is the signal that the access
// token has expired.
func (c *Client) Me(ctx context.Context, accessToken string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me/", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh trades the refresh token for a new access token. The refresh
// token itself is not rotated by the marketplace.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh": refreshToken}
	var result struct {
		Access string `json:"access"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/token/refresh/", "", body, &result); err != nil {
		return "", err
	}
	return result.Access, nil
}

// Logout is best effort; the caller clears local state regardless.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/api/users/logout/", accessToken, nil, nil)
}

func (c *Client) CheckListingPermission(ctx context.Context, accessToken string) (*models.VendorPermission, error) {
	var permission models.VendorPermission
	if err := c.do(ctx, http.MethodGet, "/api/users/check-listing-permission/", accessToken, nil, &permission); err != nil {
		return nil, err
	}
	return &permission, nil
}
