package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 5*time.Second), server
}

func TestClientMe(t *testing.T) {
	var gotAuth, gotPath string
	client, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "2", "email": "user@example.com", "is_seller": true}`))
	})
	defer server.Close()

	user, err := client.Me(context.Background(), "access-1")

	require.NoError(t, err)
	assert.Equal(t, "Bearer access-1", gotAuth)
	assert.Equal(t, "/api/users/me/", gotPath)
	assert.Equal(t, "user@example.com", user.Email)
	assert.True(t, user.IsSeller)

	// Upstream sent the id as a string; it still normalizes.
	id, ok := user.ID.Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)
}

func TestClientMeUnauthorized(t *testing.T) {
	client, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer server.Close()

	_, err := client.Me(context.Background(), "expired")

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, IsTransport(err))
}

func TestClientServerError(t *testing.T) {
	client, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream maintenance"))
	})
	defer server.Close()

	_, err := client.Me(context.Background(), "access-1")

	require.Error(t, err)
	assert.False(t, IsTransport(err))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream maintenance", statusErr.Body)
}

func TestClientConnectionRefusedIsTransport(t *testing.T) {
	client, server := testClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Me(context.Background(), "access-1")

	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestClientContextCancellation(t *testing.T) {
	client, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	})
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Me(ctx, "access-1")

	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestClientLogin(t *testing.T) {
	client, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/login/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access": "a1", "refresh": "r1", "id": 2, "email": "user@example.com"}`))
	})
	defer server.Close()

	result, err := client.Login(context.Background(), "user@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "a1", result.Access)
	assert.Equal(t, "r1", result.Refresh)
	assert.Equal(t, "user@example.com", result.Email)
}

func TestClientSocialLoginPayloadShape(t *testing.T) {
	tests := []struct {
		provider string
		wantKey  string
	}{
		{provider: "google", wantKey: "id_token"},
		{provider: "github", wantKey: "access_token"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			client, server := testClient(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/users/"+tt.provider+"/login/", r.URL.Path)

				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "provider-token", body[tt.wantKey])

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"access": "a1", "refresh": "r1"}`))
			})
			defer server.Close()

			result, err := client.SocialLogin(context.Background(), tt.provider, "provider-token")
			require.NoError(t, err)
			assert.Equal(t, "a1", result.Access)
		})
	}
}

func TestClientRefresh(t *testing.T) {
	client, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/token/refresh/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "r1", body["refresh"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access": "a2"}`))
	})
	defer server.Close()

	access, err := client.Refresh(context.Background(), "r1")

	require.NoError(t, err)
	assert.Equal(t, "a2", access)
}

func TestClientDiscussions(t *testing.T) {
	client, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/discussion/discussions/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [
			{"id": 1, "title": "Order question"},
			{"id": "2", "title": "Shipping"}
		]}`))
	})
	defer server.Close()

	discussions, err := client.Discussions(context.Background(), "access-1")

	require.NoError(t, err)
	require.Len(t, discussions, 2)
	assert.Equal(t, "Order question", discussions[0].Title)
	id, ok := discussions[1].ID.Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)
}

func TestClientDiscussionByID(t *testing.T) {
	client, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/discussion/discussions/7/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "messages": [{"id": 1, "content": "hi", "sender": {"id": "2"}}]}`))
	})
	defer server.Close()

	discussion, err := client.Discussion(context.Background(), "access-1", 7)

	require.NoError(t, err)
	require.Len(t, discussion.Messages, 1)
	require.NotNil(t, discussion.Messages[0].Sender)
}

func TestClientVendorDashboardPassthrough(t *testing.T) {
	payload := `{"total_sales": 1200, "orders_this_week": [1, 2, 3]}`
	client, server := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/vendor/dashboard/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	})
	defer server.Close()

	stats, err := client.VendorDashboard(context.Background(), "access-1")

	require.NoError(t, err)
	assert.JSONEq(t, payload, string(stats))
}
