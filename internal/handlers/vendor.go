package handlers

import (
	"errors"
	"net/http"

	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/Confidence90/merchant-maple/internal/middleware"
	"github.com/Confidence90/merchant-maple/internal/upstream"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// VendorHandler proxies vendor-area data. Routes run behind RequireVendor,
// so by the time a request lands here the evaluator has approved the
// seller for this request.
type VendorHandler struct {
	resolver ResolverInterface
	api      UpstreamInterface
}

func NewVendorHandler(resolver ResolverInterface, api UpstreamInterface) *VendorHandler {
	return &VendorHandler{resolver: resolver, api: api}
}

func (h *VendorHandler) token(c *drift.Context, scope credstore.Scope) (string, bool) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return "", false
	}

	token, err := h.resolver.AccessToken(c.Request.Context(), sessionID, scope)
	if err != nil {
		c.InternalServerError("failed to read session")
		return "", false
	}
	if token == "" {
		c.Unauthorized("session expired")
		return "", false
	}
	return token, true
}

func respondUpstreamError(c *drift.Context, err error) {
	if errors.Is(err, upstream.ErrUnauthorized) {
		c.Unauthorized("session expired")
		return
	}
	if upstream.IsTransport(err) {
		_ = c.JSON(http.StatusServiceUnavailable, map[string]any{
			"error": "marketplace unreachable",
			"retry": true,
		})
		return
	}
	c.InternalServerError("marketplace request failed")
}

// CheckListingPermission sits behind the generic gate: buyers asking
// whether they may sell get a structured refusal, not a 403.
func (h *VendorHandler) CheckListingPermission(c *drift.Context) {
	token, ok := h.token(c, middleware.GetScope(c))
	if !ok {
		return
	}

	permission, err := h.api.CheckListingPermission(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, permission)
}

func (h *VendorHandler) Dashboard(c *drift.Context) {
	token, ok := h.token(c, credstore.ScopeVendor)
	if !ok {
		return
	}

	stats, err := h.api.VendorDashboard(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, stats)
}

func (h *VendorHandler) Orders(c *drift.Context) {
	token, ok := h.token(c, credstore.ScopeVendor)
	if !ok {
		return
	}

	orders, err := h.api.VendorOrders(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, orders)
}

func (h *VendorHandler) Products(c *drift.Context) {
	token, ok := h.token(c, credstore.ScopeVendor)
	if !ok {
		return
	}

	products, err := h.api.VendorProducts(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, products)
}

func (h *VendorHandler) Reviews(c *drift.Context) {
	token, ok := h.token(c, credstore.ScopeVendor)
	if !ok {
		return
	}

	reviews, err := h.api.VendorReviews(c.Request.Context(), token)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, reviews)
}
