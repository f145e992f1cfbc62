package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/Confidence90/merchant-maple/internal/models"
	"github.com/Confidence90/merchant-maple/internal/upstream"
	"github.com/Confidence90/merchant-maple/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupVendorTest(t *testing.T) (*testutil.MockResolver, *testutil.MockUpstream, *VendorHandler, uuid.UUID) {
	t.Helper()
	mockResolver := new(testutil.MockResolver)
	mockAPI := new(testutil.MockUpstream)
	return mockResolver, mockAPI, NewVendorHandler(mockResolver, mockAPI), uuid.New()
}

func vendorApp(handler *VendorHandler, sessionID uuid.UUID) http.Handler {
	app := drift.New()
	app.Use(withSession(sessionID, credstore.ScopeVendor))
	app.Get("/vendor/dashboard", handler.Dashboard)
	app.Get("/vendor/orders", handler.Orders)
	app.Get("/vendor/products", handler.Products)
	app.Get("/vendor/reviews", handler.Reviews)
	app.Get("/check-listing-permission", handler.CheckListingPermission)
	return app
}

func TestVendorHandler_Dashboard(t *testing.T) {
	mockResolver, mockAPI, handler, sessionID := setupVendorTest(t)

	payload := json.RawMessage(`{"total_sales": 1200}`)
	mockResolver.On("AccessToken", mock.Anything, sessionID, credstore.ScopeVendor).Return("vendor-access", nil)
	mockAPI.On("VendorDashboard", mock.Anything, "vendor-access").Return(payload, nil)

	app := vendorApp(handler, sessionID)
	req := httptest.NewRequest(http.MethodGet, "/vendor/dashboard", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_sales")
}

func TestVendorHandler_Dashboard_SessionExpired(t *testing.T) {
	mockResolver, mockAPI, handler, sessionID := setupVendorTest(t)

	mockResolver.On("AccessToken", mock.Anything, sessionID, credstore.ScopeVendor).Return("", nil)

	app := vendorApp(handler, sessionID)
	req := httptest.NewRequest(http.MethodGet, "/vendor/dashboard", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockAPI.AssertNotCalled(t, "VendorDashboard", mock.Anything, mock.Anything)
}

func TestVendorHandler_Orders_UpstreamUnreachable(t *testing.T) {
	mockResolver, mockAPI, handler, sessionID := setupVendorTest(t)

	mockResolver.On("AccessToken", mock.Anything, sessionID, credstore.ScopeVendor).Return("vendor-access", nil)
	mockAPI.On("VendorOrders", mock.Anything, "vendor-access").Return(nil, errors.New("dial tcp: connection refused"))

	app := vendorApp(handler, sessionID)
	req := httptest.NewRequest(http.MethodGet, "/vendor/orders", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "retry")
}

func TestVendorHandler_Products_UpstreamServerError(t *testing.T) {
	mockResolver, mockAPI, handler, sessionID := setupVendorTest(t)

	mockResolver.On("AccessToken", mock.Anything, sessionID, credstore.ScopeVendor).Return("vendor-access", nil)
	mockAPI.On("VendorProducts", mock.Anything, "vendor-access").Return(nil, &upstream.StatusError{StatusCode: 500})

	app := vendorApp(handler, sessionID)
	req := httptest.NewRequest(http.MethodGet, "/vendor/products", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestVendorHandler_Reviews(t *testing.T) {
	mockResolver, mockAPI, handler, sessionID := setupVendorTest(t)

	mockResolver.On("AccessToken", mock.Anything, sessionID, credstore.ScopeVendor).Return("vendor-access", nil)
	mockAPI.On("VendorReviews", mock.Anything, "vendor-access").Return(&models.VendorReviews{}, nil)

	app := vendorApp(handler, sessionID)
	req := httptest.NewRequest(http.MethodGet, "/vendor/reviews", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVendorHandler_CheckListingPermission(t *testing.T) {
	mockResolver, mockAPI, handler, sessionID := setupVendorTest(t)

	permission := &models.VendorPermission{
		CanCreateListings: false,
		UserRole:          "buyer",
		IsSeller:          false,
		Reasons:           []string{"seller account required"},
		NextActions:       []string{"register as a seller"},
	}
	// The permission check runs under whatever scope the session carries,
	// vendor in this app's case.
	mockResolver.On("AccessToken", mock.Anything, sessionID, credstore.ScopeVendor).Return("vendor-access", nil)
	mockAPI.On("CheckListingPermission", mock.Anything, "vendor-access").Return(permission, nil)

	app := vendorApp(handler, sessionID)
	req := httptest.NewRequest(http.MethodGet, "/check-listing-permission", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	// A refusal is a structured 200, not an error.
	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.VendorPermission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.CanCreateListings)
	assert.Equal(t, []string{"seller account required"}, response.Reasons)
}

func TestVendorHandler_NoSessionIdentity(t *testing.T) {
	_, _, handler, _ := setupVendorTest(t)

	app := drift.New()
	app.Get("/vendor/dashboard", handler.Dashboard)

	req := httptest.NewRequest(http.MethodGet, "/vendor/dashboard", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
