package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Confidence90/merchant-maple/internal/config"
	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/Confidence90/merchant-maple/internal/middleware"
	"github.com/Confidence90/merchant-maple/internal/oauth"
	"github.com/Confidence90/merchant-maple/internal/session"
	"github.com/Confidence90/merchant-maple/internal/upstream"
	"github.com/Confidence90/merchant-maple/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	cfg        *config.Config
	resolver   ResolverInterface
	jwtService JWTServiceInterface
	api        UpstreamInterface
	providers  map[string]oauth.Provider
	states     sync.Map
	authCodes  sync.Map
}

type stateData struct {
	expiresAt time.Time
}

type authCodeData struct {
	result    *upstream.LoginResult
	expiresAt time.Time
}

func NewAuthHandler(
	cfg *config.Config,
	resolver ResolverInterface,
	jwtService JWTServiceInterface,
	api UpstreamInterface,
) *AuthHandler {
	h := &AuthHandler{
		cfg:        cfg,
		resolver:   resolver,
		jwtService: jwtService,
		api:        api,
		providers:  make(map[string]oauth.Provider),
	}

	if cfg.Google.ClientID != "" {
		h.providers["google"] = oauth.NewGoogleProvider(cfg.Google)
	}
	if cfg.GitHub.ClientID != "" {
		h.providers["github"] = oauth.NewGitHubProvider(cfg.GitHub)
	}

	go h.cleanupStates()

	return h
}

func (h *AuthHandler) cleanupStates() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		now := time.Now()
		h.states.Range(func(key, value interface{}) bool {
			if sd, ok := value.(stateData); ok && now.After(sd.expiresAt) {
				h.states.Delete(key)
			}
			return true
		})
		h.authCodes.Range(func(key, value interface{}) bool {
			if acd, ok := value.(authCodeData); ok && now.After(acd.expiresAt) {
				h.authCodes.Delete(key)
			}
			return true
		})
	}
}

func parseScope(s string) (credstore.Scope, bool) {
	switch s {
	case "", "user":
		return credstore.ScopeUser, true
	case "vendor":
		return credstore.ScopeVendor, true
	default:
		return "", false
	}
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		c.BadRequest("email and password are required")
		return
	}

	scope, ok := parseScope(req.Scope)
	if !ok {
		c.BadRequest("unknown scope: " + req.Scope)
		return
	}

	outcome, err := h.resolver.Login(c.Request.Context(), req.Email, req.Password, req.Remember, scope)
	if err != nil {
		if err == session.ErrInvalidCredentials {
			c.Unauthorized("invalid email or password")
			return
		}
		if upstream.IsTransport(err) {
			_ = c.JSON(http.StatusServiceUnavailable, map[string]any{
				"error": "authentication service unreachable",
				"retry": true,
			})
			return
		}
		c.InternalServerError("login failed")
		return
	}

	if outcome.VendorStatus != nil && !outcome.VendorStatus.Valid {
		_ = c.JSON(http.StatusForbidden, dto.VendorDeniedResponse{
			Error:      outcome.VendorStatus.Message,
			RedirectTo: outcome.VendorStatus.RedirectTo,
		})
		return
	}

	h.respondWithTokens(c, outcome, scope)
}

func (h *AuthHandler) respondWithTokens(c *drift.Context, outcome *session.LoginOutcome, scope credstore.Scope) {
	pair, err := h.jwtService.GenerateTokenPair(outcome.SessionID, scope)
	if err != nil {
		c.InternalServerError("failed to generate session tokens")
		return
	}

	_ = c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         outcome.User,
	})
}

// RefreshToken rotates the gateway token pair. The upstream tokens in the
// credential store are untouched; their refresh happens inside Resolve.
func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	// The session must still hold upstream credentials; a logged-out
	// session cannot be revived with an old gateway token.
	accessToken, err := h.resolver.AccessToken(c.Request.Context(), claims.SessionID, claims.Scope)
	if err != nil {
		c.InternalServerError("failed to check session")
		return
	}
	if accessToken == "" {
		c.Unauthorized("session expired")
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(claims.SessionID, claims.Scope)
	if err != nil {
		c.InternalServerError("failed to generate session tokens")
		return
	}

	_ = c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *drift.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.resolver.Logout(c.Request.Context(), sessionID, middleware.GetScope(c)); err != nil {
		c.InternalServerError("failed to log out")
		return
	}

	_ = c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) GetConsentURL(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		c.BadRequest("unsupported provider: " + provider)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	h.states.Store(state, stateData{expiresAt: time.Now().Add(10 * time.Minute)})

	_ = c.JSON(http.StatusOK, dto.ConsentURLResponse{
		URL: p.GetConsentURL(state),
	})
}

func (h *AuthHandler) Callback(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		h.redirectWithError(c, "unsupported provider")
		return
	}

	state := c.QueryParam("state")
	if state == "" {
		h.redirectWithError(c, "missing state parameter")
		return
	}

	sd, ok := h.states.LoadAndDelete(state)
	if !ok {
		h.redirectWithError(c, "invalid or expired state")
		return
	}

	sdTyped, ok := sd.(stateData)
	if !ok || time.Now().After(sdTyped.expiresAt) {
		h.redirectWithError(c, "state expired")
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		h.redirectWithError(c, "missing authorization code")
		return
	}

	ctx := c.Request.Context()

	credential, err := p.ExchangeCode(ctx, code)
	if err != nil {
		h.redirectWithError(c, "failed to exchange code: "+err.Error())
		return
	}

	result, err := h.api.SocialLogin(ctx, credential.Provider, credential.Token)
	if err != nil {
		h.redirectWithError(c, "marketplace sign-in failed")
		return
	}

	authCode, err := oauth.GenerateState()
	if err != nil {
		h.redirectWithError(c, "failed to generate auth code")
		return
	}

	h.authCodes.Store(authCode, authCodeData{
		result:    result,
		expiresAt: time.Now().Add(30 * time.Second),
	})

	redirectURL := fmt.Sprintf("%s/auth/callback?code=%s",
		h.cfg.FrontendBaseURL,
		url.QueryEscape(authCode),
	)

	h.renderCallbackPage(c, redirectURL, "")
}

// ExchangeCode turns a one-shot auth code from the OAuth callback into a
// gateway session, same tier and scope rules as password login.
func (h *AuthHandler) ExchangeCode(c *drift.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Code == "" {
		c.BadRequest("code is required")
		return
	}

	scope, ok := parseScope(req.Scope)
	if !ok {
		c.BadRequest("unknown scope: " + req.Scope)
		return
	}

	acd, ok := h.authCodes.LoadAndDelete(req.Code)
	if !ok {
		c.Unauthorized("invalid or expired code")
		return
	}

	codeData, ok := acd.(authCodeData)
	if !ok || time.Now().After(codeData.expiresAt) {
		c.Unauthorized("code expired")
		return
	}

	outcome, err := h.resolver.LoginWithTokens(c.Request.Context(), codeData.result, req.Remember, scope)
	if err != nil {
		c.InternalServerError("failed to establish session")
		return
	}

	if outcome.VendorStatus != nil && !outcome.VendorStatus.Valid {
		_ = c.JSON(http.StatusForbidden, dto.VendorDeniedResponse{
			Error:      outcome.VendorStatus.Message,
			RedirectTo: outcome.VendorStatus.RedirectTo,
		})
		return
	}

	h.respondWithTokens(c, outcome, scope)
}

func (h *AuthHandler) redirectWithError(c *drift.Context, errMsg string) {
	redirectURL := fmt.Sprintf("%s/auth/callback?error=%s",
		h.cfg.FrontendBaseURL,
		url.QueryEscape(errMsg),
	)
	h.renderCallbackPage(c, redirectURL, errMsg)
}

func (h *AuthHandler) renderCallbackPage(c *drift.Context, target, errMsg string) {
	heading := "Signed in"
	subtitle := "Taking you back to the dashboard..."
	statusCode := http.StatusOK

	if errMsg != "" {
		heading = "Sign-in failed"
		subtitle = errMsg
		statusCode = http.StatusBadRequest
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s</title>
</head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding-top: 80px;">
    <h1>%s</h1>
    <p>%s</p>
    <p>You can close this window if nothing happens.</p>
    <script>window.location.href = %q;</script>
</body>
</html>`, heading, heading, subtitle, target)

	_ = c.HTML(statusCode, html)
}
