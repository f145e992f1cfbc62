package testutil

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
	"github.com/stretchr/testify/mock"
)

// MockUpstream mocks the marketplace client. It covers both the
// resolver's slice (Login/Me/Refresh/Logout) and the proxy handlers'.
type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) Login(ctx context.Context, email, password string) (*upstream.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.LoginResult), args.Error(1)
}

func (m *MockUpstream) SocialLogin(ctx context.Context, provider, providerToken string) (*upstream.LoginResult, error) {
	args := m.Called(ctx, provider, providerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.LoginResult), args.Error(1)
}

func (m *MockUpstream) Me(ctx context.Context, accessToken string) (*models.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUpstream) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockUpstream) Logout(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockUpstream) CheckListingPermission(ctx context.Context, accessToken string) (*models.VendorPermission, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorPermission), args.Error(1)
}

func (m *MockUpstream) VendorDashboard(ctx context.Context, accessToken string) (json.RawMessage, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockUpstream) VendorOrders(ctx context.Context, accessToken string) (*models.VendorOrders, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorOrders), args.Error(1)
}

func (m *MockUpstream) VendorProducts(ctx context.Context, accessToken string) (*models.VendorProducts, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorProducts), args.Error(1)
}

func (m *MockUpstream) VendorReviews(ctx context.Context, accessToken string) (*models.VendorReviews, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorReviews), args.Error(1)
}

func (m *MockUpstream) Discussions(ctx context.Context, accessToken string) ([]models.Discussion, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Discussion), args.Error(1)
}

func (m *MockUpstream) Discussion(ctx context.Context, accessToken string, id int64) (*models.Discussion, error) {
	args := m.Called(ctx, accessToken, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Discussion), args.Error(1)
}

func (m *MockUpstream) SendMessage(ctx context.Context, accessToken string, req upstream.SendMessageRequest) (json.RawMessage, error) {
	args := m.Called(ctx, accessToken, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockResolver mocks session.Resolver for handler tests
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) session.Resolution {
	args := m.Called(ctx, sessionID, scope)
	return args.Get(0).(session.Resolution)
}

func (m *MockResolver) Login(ctx context.Context, email, password string, remember bool, scope credstore.Scope) (*session.LoginOutcome, error) {
	args := m.Called(ctx, email, password, remember, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.LoginOutcome), args.Error(1)
}

func (m *MockResolver) LoginWithTokens(ctx context.Context, result *upstream.LoginResult, remember bool, scope credstore.Scope) (*session.LoginOutcome, error) {
	args := m.Called(ctx, result, remember, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.LoginOutcome), args.Error(1)
}

func (m *MockResolver) Logout(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) error {
	args := m.Called(ctx, sessionID, scope)
	return args.Error(0)
}

func (m *MockResolver) CachedUser(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) (*models.User, error) {
	args := m.Called(ctx, sessionID, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockResolver) AccessToken(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) (string, error) {
	args := m.Called(ctx, sessionID, scope)
	return args.String(0), args.Error(1)
}

// MockJWTService mocks the gateway token service
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(sessionID uuid.UUID, scope credstore.Scope) (*services.TokenPair, error) {
	args := m.Called(sessionID, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (*services.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Claims), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}
