package oauth2

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testClientID     = "client-id"
	testClientSecret = "client-secret"
	testCode         = "auth-code"
	testAccessToken  = "access-token"
)

func newTestServer(t *testing.T, userInfo map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != testCode {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": testAccessToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testAccessToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userInfo)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestProvider(t *testing.T, server *httptest.Server) *IdentityProvider {
	t.Helper()
	p, err := NewIdentityProvider(Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURL:  "http://localhost/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  server.URL + "/auth",
			TokenURL: server.URL + "/token",
		},
		UserInfoURL: server.URL + "/userinfo",
	})
	require.NoError(t, err)
	return p
}

func TestNewIdentityProviderRequiresFields(t *testing.T) {
	_, err := NewIdentityProvider(Config{ClientID: "id", RedirectURL: "http://x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clientSecret")
}

func TestAuthCodeURL(t *testing.T) {
	server := newTestServer(t, nil)
	p := newTestProvider(t, server)

	raw := p.AuthCodeURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/auth", u.Path)
	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, testClientID, u.Query().Get("client_id"))
	assert.Equal(t, "openid profile email", u.Query().Get("scope"))
}

func TestExchangeToken(t *testing.T) {
	server := newTestServer(t, map[string]any{
		"sub":     "1234567890",
		"email":   "student@example.com",
		"name":    "Study Student",
		"picture": "https://example.com/p.png",
	})
	p := newTestProvider(t, server)

	userInfo, err := p.ExchangeToken(context.Background(), testCode)
	require.NoError(t, err)
	assert.Equal(t, &UserInfo{
		Sub:     "1234567890",
		Email:   "student@example.com",
		Name:    "Study Student",
		Picture: "https://example.com/p.png",
	}, userInfo)

	_, err = p.ExchangeToken(context.Background(), "wrong-code")
	require.Error(t, err)

	_, err = p.ExchangeToken(context.Background(), "")
	require.Error(t, err)
}

func TestExchangeTokenWithoutSubject(t *testing.T) {
	server := newTestServer(t, map[string]any{"email": "a@b.c"})
	p := newTestProvider(t, server)

	_, err := p.ExchangeToken(context.Background(), testCode)
	require.Error(t, err)
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	require.NoError(t, err)
	b, err := GenerateState()
	require.NoError(t, err)
	assert.Len(t, a, 22)
	assert.NotEqual(t, a, b)
}
