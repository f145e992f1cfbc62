package dto

import "github.com/Confidence90/merchant-maple/internal/models"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
	// "user" (default) or "vendor"
	Scope string `json:"scope,omitempty"`
}

type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *models.User `json:"user,omitempty"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ConsentURLResponse struct {
	URL string `json:"url"`
}

type ExchangeCodeRequest struct {
	Code     string `json:"code"`
	Remember bool   `json:"remember"`
	Scope    string `json:"scope,omitempty"`
}

// VendorDeniedResponse surfaces the evaluator's verdict when a vendor
// login or gated request is refused.
type VendorDeniedResponse struct {
	Error      string `json:"error"`
	RedirectTo string `json:"redirect_to,omitempty"`
}
