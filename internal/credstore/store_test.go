package credstore

import (
	"context"
	"testing"

	"github.com/Confidence90/merchant-maple/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*Store, *MemoryKV, *MemoryKV) {
	durable := NewMemoryKV()
	ephemeral := NewMemoryKV()
	return New(durable, ephemeral), durable, ephemeral
}

func testCredentials() Credentials {
	return Credentials{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &models.User{ID: models.NewFlexID(2), Email: "user@example.com"},
	}
}

func TestStoreWriteTargetsSingleTier(t *testing.T) {
	ctx := context.Background()
	store, durable, ephemeral := newTestStore()
	sessionID := uuid.New()

	require.NoError(t, store.Write(ctx, sessionID, TierDurable, ScopeUser, testCredentials()))

	_, ok, err := durable.Get(ctx, sessionID, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = ephemeral.Get(ctx, sessionID, KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok, "ephemeral tier must stay untouched on a durable write")
}

func TestStoreReadPrefersDurableTier(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()
	sessionID := uuid.New()

	durableCreds := testCredentials()
	ephemeralCreds := testCredentials()
	ephemeralCreds.AccessToken = "access-ephemeral"

	require.NoError(t, store.Write(ctx, sessionID, TierDurable, ScopeUser, durableCreds))
	require.NoError(t, store.Write(ctx, sessionID, TierEphemeral, ScopeUser, ephemeralCreds))

	creds, tier, err := store.Read(ctx, sessionID, ScopeUser)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, TierDurable, tier)
	assert.Equal(t, "access-1", creds.AccessToken)
}

func TestStoreReadFallsBackToEphemeral(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()
	sessionID := uuid.New()

	require.NoError(t, store.Write(ctx, sessionID, TierEphemeral, ScopeUser, testCredentials()))

	creds, tier, err := store.Read(ctx, sessionID, ScopeUser)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, TierEphemeral, tier)
	assert.Equal(t, "refresh-1", creds.RefreshToken)
	require.NotNil(t, creds.User)
	assert.Equal(t, "user@example.com", creds.User.Email)
}

func TestStoreReadEmptyStore(t *testing.T) {
	store, _, _ := newTestStore()

	creds, tier, err := store.Read(context.Background(), uuid.New(), ScopeUser)
	require.NoError(t, err)
	assert.Nil(t, creds)
	assert.Equal(t, Tier(""), tier)
}

func TestStoreReadMissingAccessTokenMeansAbsent(t *testing.T) {
	ctx := context.Background()
	store, durable, _ := newTestStore()
	sessionID := uuid.New()

	// A refresh token without an access token is not a usable session.
	require.NoError(t, durable.Set(ctx, sessionID, KeyRefreshToken, "refresh-only"))

	creds, _, err := store.Read(ctx, sessionID, ScopeUser)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestStoreReadToleratesCorruptCachedUser(t *testing.T) {
	ctx := context.Background()
	store, durable, _ := newTestStore()
	sessionID := uuid.New()

	require.NoError(t, durable.Set(ctx, sessionID, KeyAccessToken, "access-1"))
	require.NoError(t, durable.Set(ctx, sessionID, KeyRefreshToken, "refresh-1"))
	require.NoError(t, durable.Set(ctx, sessionID, KeyUser, "{not json"))

	creds, _, err := store.Read(ctx, sessionID, ScopeUser)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "access-1", creds.AccessToken)
	assert.Nil(t, creds.User)
}

func TestStoreScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()
	sessionID := uuid.New()

	userCreds := testCredentials()
	vendorCreds := testCredentials()
	vendorCreds.AccessToken = "vendor-access"

	require.NoError(t, store.Write(ctx, sessionID, TierDurable, ScopeUser, userCreds))
	require.NoError(t, store.Write(ctx, sessionID, TierDurable, ScopeVendor, vendorCreds))

	got, _, err := store.Read(ctx, sessionID, ScopeUser)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "access-1", got.AccessToken)

	got, _, err = store.Read(ctx, sessionID, ScopeVendor)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "vendor-access", got.AccessToken)
}

func TestStoreReplaceAccessToken(t *testing.T) {
	ctx := context.Background()
	store, _, ephemeral := newTestStore()
	sessionID := uuid.New()

	require.NoError(t, store.Write(ctx, sessionID, TierEphemeral, ScopeUser, testCredentials()))
	require.NoError(t, store.ReplaceAccessToken(ctx, sessionID, ScopeUser, "access-2"))

	// The new token lands in the tier that holds the session.
	value, ok, err := ephemeral.Get(ctx, sessionID, KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "access-2", value)

	// The refresh token and cached user survive the swap.
	creds, _, err := store.Read(ctx, sessionID, ScopeUser)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "refresh-1", creds.RefreshToken)
	require.NotNil(t, creds.User)
}

func TestStoreReplaceAccessTokenUnknownSession(t *testing.T) {
	store, _, _ := newTestStore()
	err := store.ReplaceAccessToken(context.Background(), uuid.New(), ScopeUser, "access-2")
	assert.Error(t, err)
}

func TestStoreClearPurgesBothTiersAndBothScopes(t *testing.T) {
	ctx := context.Background()
	store, durable, ephemeral := newTestStore()
	sessionID := uuid.New()

	require.NoError(t, store.Write(ctx, sessionID, TierDurable, ScopeUser, testCredentials()))
	require.NoError(t, store.Write(ctx, sessionID, TierEphemeral, ScopeVendor, testCredentials()))

	require.NoError(t, store.Clear(ctx, sessionID))

	for _, scope := range []Scope{ScopeUser, ScopeVendor} {
		creds, _, err := store.Read(ctx, sessionID, scope)
		require.NoError(t, err)
		assert.Nil(t, creds, "scope %q must be empty after clear", scope)
	}

	for _, key := range AllKeys() {
		for name, kv := range map[string]KV{"durable": durable, "ephemeral": ephemeral} {
			_, ok, err := kv.Get(ctx, sessionID, key)
			require.NoError(t, err)
			assert.False(t, ok, "key %q must be gone from %s tier", key, name)
		}
	}
}

func TestStoreClearLeavesOtherSessionsAlone(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()
	first := uuid.New()
	second := uuid.New()

	require.NoError(t, store.Write(ctx, first, TierDurable, ScopeUser, testCredentials()))
	require.NoError(t, store.Write(ctx, second, TierDurable, ScopeUser, testCredentials()))

	require.NoError(t, store.Clear(ctx, first))

	creds, _, err := store.Read(ctx, second, ScopeUser)
	require.NoError(t, err)
	assert.NotNil(t, creds)
}

func TestAllKeysCoversBothScopes(t *testing.T) {
	keys := AllKeys()
	assert.Len(t, keys, 6)
	assert.Contains(t, keys, "access_token")
	assert.Contains(t, keys, "refresh_token")
	assert.Contains(t, keys, "user")
	assert.Contains(t, keys, "vendor_access_token")
	assert.Contains(t, keys, "vendor_refresh_token")
	assert.Contains(t, keys, "vendor_user")
}
