// Package oauth implements the secondary sign-in path against external
// identity providers. Only the provider's subject id and email are consumed;
// display names live in profiles.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cyfrhq/cyfr-api/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

type UserInfo struct {
	ID       string
	Email    string
	Provider string
}

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*UserInfo, error)
	Name() string
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// provider is a table-driven Provider: each supported upstream differs only
// in its oauth2 endpoint, scopes, userinfo URL and response shape.
type provider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
	parse       func([]byte) (*UserInfo, error)
}

func (p *provider) Name() string {
	return p.name
}

func (p *provider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *provider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s api returned status %d", p.name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info: %w", err)
	}

	return p.parse(body)
}

func NewGoogleProvider(cfg config.OAuthConfig) Provider {
	return &provider{
		name: "google",
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		parse: func(data []byte) (*UserInfo, error) {
			var u struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			}
			if err := json.Unmarshal(data, &u); err != nil {
				return nil, fmt.Errorf("failed to decode user info: %w", err)
			}
			return &UserInfo{ID: u.ID, Email: u.Email, Provider: "google"}, nil
		},
	}
}

func NewGitHubProvider(cfg config.OAuthConfig) Provider {
	return &provider{
		name: "github",
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		userInfoURL: "https://api.github.com/user",
		parse: func(data []byte) (*UserInfo, error) {
			var u struct {
				ID    int    `json:"id"`
				Email string `json:"email"`
			}
			if err := json.Unmarshal(data, &u); err != nil {
				return nil, fmt.Errorf("failed to decode user info: %w", err)
			}
			return &UserInfo{ID: fmt.Sprintf("%d", u.ID), Email: u.Email, Provider: "github"}, nil
		},
	}
}
