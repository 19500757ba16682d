// Package oauth2 implements Google sign-in over the authorization code flow.
package oauth2

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// UserInfo is the subset of the OpenID userinfo response StudyBuddy keeps.
type UserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Config holds the Google OAuth client registration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint and UserInfoURL default to Google's.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

type IdentityProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewIdentityProvider(config Config) (*IdentityProvider, error) {
	for _, field := range []struct{ name, value string }{
		{"clientId", config.ClientID},
		{"clientSecret", config.ClientSecret},
		{"redirectUrl", config.RedirectURL},
	} {
		if field.value == "" {
			return nil, errors.Errorf(`the field "%s" is empty but required`, field.name)
		}
	}

	endpoint := config.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	userInfoURL := config.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = googleUserInfoURL
	}

	return &IdentityProvider{
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
	}, nil
}

// GenerateState returns a random URL-safe value for the state parameter.
func GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "failed to generate oauth state")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// AuthCodeURL returns the consent page URL the browser is redirected to.
func (p *IdentityProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// ExchangeToken trades the authorization code for a token and fetches the user's profile.
func (p *IdentityProvider) ExchangeToken(ctx context.Context, code string) (*UserInfo, error) {
	if code == "" {
		return nil, errors.New("authorization code is empty")
	}
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange access token")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build user info request")
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user info")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read user info response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info endpoint returned %d: %s", resp.StatusCode, body)
	}

	userInfo := &UserInfo{}
	if err := json.Unmarshal(body, userInfo); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal user info")
	}
	if userInfo.Sub == "" {
		return nil, errors.New("user info has no subject")
	}
	return userInfo, nil
}
