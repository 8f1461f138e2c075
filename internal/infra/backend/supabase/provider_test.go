package supabase

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yougotthis/config"
	domainerrors "yougotthis/internal/domain/errors"
	"yougotthis/internal/domain/service"
)

const tokenResponseBody = `{
	"access_token": "user-token",
	"token_type": "bearer",
	"expires_in": 3600,
	"refresh_token": "refresh-token",
	"user": {"id": "8d54c1f0-20cc-45a1-9a91-5ad8f981f53d", "email": "user@example.com"}
}`

func newTestProvider(t *testing.T, handler http.Handler) (*Provider, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.SupabaseConfig{URL: server.URL, AnonKey: "anon-key"}
	provider, err := NewProvider(cfg, slog.Default())
	require.NoError(t, err)

	return provider, server
}

func writeEmptyRows(w http.ResponseWriter) {
	w.Header().Set("Content-Range", "*/0")
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`[]`))
}

func TestLogin_MissingCredentialsSkipsBackend(t *testing.T) {
	calls := 0
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	_, err := provider.Login(context.Background(), service.LoginInput{Email: "user@example.com"})
	assert.ErrorIs(t, err, domainerrors.ErrMissingCredentials)
	assert.Zero(t, calls)
}

func TestLogin_BindsSessionToRowRequests(t *testing.T) {
	var rowAuth []string
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/token"):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(tokenResponseBody))
		case strings.HasSuffix(r.URL.Path, "/logout"):
			w.WriteHeader(http.StatusNoContent)
		case strings.Contains(r.URL.Path, "/rest/v1/"):
			rowAuth = append(rowAuth, r.Header.Get("Authorization"))
			writeEmptyRows(w)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()

	_, err := provider.WorkoutHistory(ctx, "user-1")
	require.NoError(t, err)

	session, err := provider.Login(ctx, service.LoginInput{Email: "user@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "user-token", session.Token)
	assert.Equal(t, "8d54c1f0-20cc-45a1-9a91-5ad8f981f53d", session.UserID)

	_, err = provider.WorkoutHistory(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, provider.Logout(ctx))

	_, err = provider.WorkoutHistory(ctx, "user-1")
	require.NoError(t, err)

	require.Len(t, rowAuth, 3)
	// Anon role before login, the user's token while the session lives,
	// anon role again after logout.
	assert.NotEqual(t, "Bearer user-token", rowAuth[0])
	assert.Equal(t, "Bearer user-token", rowAuth[1])
	assert.Equal(t, "Bearer anon-key", rowAuth[2])
}

func TestLogin_TerminatesExistingSessionFirst(t *testing.T) {
	var authCalls []string
	provider, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/token"):
			authCalls = append(authCalls, "token")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(tokenResponseBody))
		case strings.HasSuffix(r.URL.Path, "/logout"):
			authCalls = append(authCalls, "logout")
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()
	input := service.LoginInput{Email: "user@example.com", Password: "secret123"}

	_, err := provider.Login(ctx, input)
	require.NoError(t, err)

	_, err = provider.Login(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, []string{"token", "logout", "token"}, authCalls)
}
