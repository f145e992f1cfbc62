package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Confidence90/merchant-maple/internal/credstore"
	"github.com/Confidence90/merchant-maple/internal/models"
	"github.com/Confidence90/merchant-maple/internal/upstream"
	"github.com/Confidence90/merchant-maple/internal/vendor"
	"github.com/google/uuid"
)

// State is the tagged resolution outcome. A transport failure is kept
// apart from a rejected credential so gates can offer retry instead of
// always redirecting to login.
type State string

const (
	// StateAuthenticated: upstream confirmed the session; User is set.
	StateAuthenticated State = "authenticated"
	// StateUnauthenticated: no credentials, or credentials definitively
	// rejected (both tiers are cleared by the time this is returned).
	StateUnauthenticated State = "unauthenticated"
	// StateDenied: authenticated but the vendor evaluator refused access;
	// VendorStatus carries the reason and redirect.
	StateDenied State = "denied"
	// StateUnreachable: the upstream never gave a verdict. Credentials
	// are left in place.
	StateUnreachable State = "unreachable"
)

type Resolution struct {
	State        State
	User         *models.User
	VendorStatus *vendor.Status
	Err          error
}

// Upstream is the slice of the marketplace client the resolver needs.
type Upstream interface {
	Login(ctx context.Context, email, password string) (*upstream.LoginResult, error)
	Me(ctx context.Context, accessToken string) (*models.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, accessToken string) error
}

// Recorder keeps session bookkeeping rows for the cleanup sweep.
type Recorder interface {
	Record(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope, remember bool, expiresAt time.Time) error
	Forget(ctx context.Context, sessionID uuid.UUID) error
}

type Resolver struct {
	store      *credstore.Store
	api        Upstream
	events     *Events
	recorder   Recorder
	sessionTTL time.Duration
}

func NewResolver(store *credstore.Store, api Upstream, events *Events, recorder Recorder, sessionTTL time.Duration) *Resolver {
	return &Resolver{
		store:      store,
		api:        api,
		events:     events,
		recorder:   recorder,
		sessionTTL: sessionTTL,
	}
}

// Resolve answers "is there a valid session, and who is it" with one
// upstream round-trip on the happy path. On a 401 it attempts exactly one
// refresh-and-retry before declaring the session dead.
func (r *Resolver) Resolve(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) Resolution {
	creds, _, err := r.store.Read(ctx, sessionID, scope)
	if err != nil {
		return Resolution{State: StateUnreachable, Err: fmt.Errorf("credential store read failed: %w", err)}
	}
	if creds == nil || creds.AccessToken == "" {
		return Resolution{State: StateUnauthenticated}
	}

	user, err := r.api.Me(ctx, creds.AccessToken)
	if err == nil {
		return r.classify(ctx, sessionID, scope, user)
	}

	if upstream.IsTransport(err) {
		return Resolution{State: StateUnreachable, Err: err}
	}
	if !errors.Is(err, upstream.ErrUnauthorized) {
		// Upstream answered with a server error; no verdict on the
		// credentials, so keep them.
		return Resolution{State: StateUnreachable, Err: err}
	}

	// Expired access token: one refresh, one retry, then give up.
	if creds.RefreshToken == "" {
		return r.invalidate(ctx, sessionID, scope)
	}

	newAccess, err := r.api.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		if upstream.IsTransport(err) {
			return Resolution{State: StateUnreachable, Err: err}
		}
		return r.invalidate(ctx, sessionID, scope)
	}

	if err := r.store.ReplaceAccessToken(ctx, sessionID, scope, newAccess); err != nil {
		return Resolution{State: StateUnreachable, Err: fmt.Errorf("failed to persist refreshed token: %w", err)}
	}
	r.events.Broadcast(EventRefresh, sessionID, scope)

	user, err = r.api.Me(ctx, newAccess)
	if err != nil {
		if upstream.IsTransport(err) {
			return Resolution{State: StateUnreachable, Err: err}
		}
		return r.invalidate(ctx, sessionID, scope)
	}

	return r.classify(ctx, sessionID, scope, user)
}

// classify finishes a successful whoami: vendor-scoped sessions also pass
// the status evaluator, and an invalid vendor is logged out on the spot,
// the reason surfaced to the caller.
func (r *Resolver) classify(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope, user *models.User) Resolution {
	if scope != credstore.ScopeVendor {
		return Resolution{State: StateAuthenticated, User: user}
	}

	status := vendor.EvaluateStatus(user)
	if status.Valid {
		return Resolution{State: StateAuthenticated, User: user, VendorStatus: &status}
	}

	if err := r.clear(ctx, sessionID, scope); err != nil {
		log.Printf("failed to clear invalid vendor session %s: %v", sessionID, err)
	}
	return Resolution{State: StateDenied, User: user, VendorStatus: &status}
}

// invalidate is the terminal failure path: both tiers cleared, in-memory
// state reset, auth change broadcast. No navigation happens here.
func (r *Resolver) invalidate(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) Resolution {
	if err := r.clear(ctx, sessionID, scope); err != nil {
		log.Printf("failed to clear session %s: %v", sessionID, err)
	}
	return Resolution{State: StateUnauthenticated}
}

func (r *Resolver) clear(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) error {
	err := r.store.Clear(ctx, sessionID)
	if r.recorder != nil {
		if ferr := r.recorder.Forget(ctx, sessionID); ferr != nil && err == nil {
			err = ferr
		}
	}
	r.events.Broadcast(EventLogout, sessionID, scope)
	return err
}

// LoginOutcome reports either a created session or the vendor status that
// blocked one.
type LoginOutcome struct {
	SessionID    uuid.UUID
	User         *models.User
	VendorStatus *vendor.Status
}

var ErrInvalidCredentials = errors.New("invalid email or password")

// Login authenticates against the marketplace and creates a gateway
// session in the tier chosen by remember. Vendor-scoped logins must pass
// the status evaluator first; a refused vendor gets the evaluator's
// verdict back and no session.
func (r *Resolver) Login(ctx context.Context, email, password string, remember bool, scope credstore.Scope) (*LoginOutcome, error) {
	result, err := r.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return r.establish(ctx, result, remember, scope)
}

// LoginWithTokens finishes a social login: the upstream token pair was
// already obtained by the OAuth callback path.
func (r *Resolver) LoginWithTokens(ctx context.Context, result *upstream.LoginResult, remember bool, scope credstore.Scope) (*LoginOutcome, error) {
	return r.establish(ctx, result, remember, scope)
}

func (r *Resolver) establish(ctx context.Context, result *upstream.LoginResult, remember bool, scope credstore.Scope) (*LoginOutcome, error) {
	// Fetch the full record up front; the login payload alone has no
	// seller profile to evaluate.
	user, err := r.api.Me(ctx, result.Access)
	if err != nil {
		// A vendor login needs the seller profile for the evaluator. The
		// thin login identity carries no profile, so a server blip here
		// must surface as a failure, not as "not a seller".
		if scope == credstore.ScopeVendor && !errors.Is(err, upstream.ErrUnauthorized) {
			return nil, fmt.Errorf("could not load seller profile: %w", err)
		}
		user = &models.User{
			ID:       result.ID,
			Email:    result.Email,
			FullName: result.FullName,
		}
	}

	if scope == credstore.ScopeVendor {
		status := vendor.EvaluateStatus(user)
		if !status.Valid {
			return &LoginOutcome{User: user, VendorStatus: &status}, nil
		}
	}

	sessionID := uuid.New()
	tier := credstore.TierEphemeral
	if remember {
		tier = credstore.TierDurable
	}

	creds := credstore.Credentials{
		AccessToken:  result.Access,
		RefreshToken: result.Refresh,
		User:         user,
	}
	if err := r.store.Write(ctx, sessionID, tier, scope, creds); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	if r.recorder != nil {
		expiresAt := time.Now().Add(r.sessionTTL)
		if err := r.recorder.Record(ctx, sessionID, scope, remember, expiresAt); err != nil {
			log.Printf("failed to record session %s: %v", sessionID, err)
		}
	}

	r.events.Broadcast(EventLogin, sessionID, scope)
	return &LoginOutcome{SessionID: sessionID, User: user}, nil
}

// Logout tells the marketplace best-effort, then clears both tiers and
// broadcasts the change. Upstream failures are logged and ignored.
func (r *Resolver) Logout(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) error {
	creds, _, err := r.store.Read(ctx, sessionID, scope)
	if err == nil && creds != nil && creds.AccessToken != "" {
		if err := r.api.Logout(ctx, creds.AccessToken); err != nil {
			log.Printf("upstream logout failed for session %s: %v", sessionID, err)
		}
	}
	return r.clear(ctx, sessionID, scope)
}

// CachedUser returns the stored user record without an upstream
// round-trip. Messaging identity reconciliation reads this.
func (r *Resolver) CachedUser(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) (*models.User, error) {
	creds, _, err := r.store.Read(ctx, sessionID, scope)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, nil
	}
	return creds.User, nil
}

// AccessToken exposes the upstream bearer token for proxy handlers.
func (r *Resolver) AccessToken(ctx context.Context, sessionID uuid.UUID, scope credstore.Scope) (string, error) {
	creds, _, err := r.store.Read(ctx, sessionID, scope)
	if err != nil {
		return "", err
	}
	if creds == nil {
		return "", nil
	}
	return creds.AccessToken, nil
}
