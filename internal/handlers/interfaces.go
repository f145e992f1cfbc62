package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/Confidence90/merchant-maple/internal/models"
	"github.com/Confidence90/merchant-maple/internal/services"
	"github.com/Confidence90/merchant-maple/internal/session"
	"github.com/Confidence90/merchant-maple/internal/upstream"
	"github.com/google/uuid"
)

// ResolverInterface defines the methods handlers use from session.Resolver
type ResolverInterface interface {
	Resolve(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) session.Resolution
	Login(ctx context.Context, email, password string, remember bool, scope credstore.Scope) (*session.LoginOutcome, error)
	LoginWithTokens(ctx context.Context, result *upstream.LoginResult, remember bool, scope credstore.Scope) (*session.LoginOutcome, error)
	Logout(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) error
	CachedUser(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) (*models.User, error)
	AccessToken(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) (string, error)
}

// JWTServiceInterface defines the methods handlers use from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(sessionID uuid.UUID, scope credstore.Scope) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (*services.Claims, error)
	RefreshExpiry() time.Duration
}

// UpstreamInterface defines the marketplace calls proxied by handlers
type UpstreamInterface interface {
	SocialLogin(ctx context.Context, provider, providerToken string) (*upstream.LoginResult, error)
	CheckListingPermission(ctx context.Context, accessToken string) (*models.VendorPermission, error)
	VendorDashboard(ctx context.Context, accessToken string) (json.RawMessage, error)
	VendorOrders(ctx context.Context, accessToken string) (*models.VendorOrders, error)
	VendorProducts(ctx context.Context, accessToken string) (*models.VendorProducts, error)
	VendorReviews(ctx context.Context, accessToken string) (*models.VendorReviews, error)
	Discussions(ctx context.Context, accessToken string) ([]models.Discussion, error)
	Discussion(ctx context.Context, accessToken string, id int64) (*models.Discussion, error)
	SendMessage(ctx context.Context, accessToken string, req upstream.SendMessageRequest) (json.RawMessage, error)
}
