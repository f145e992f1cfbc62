package oauth

import (
	"context"
	"fmt"

	"github.com/Confidence90/merchant-maple/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

type GitHubProvider struct {
	config *oauth2.Config
}

func NewGitHubProvider(cfg config.OAuthConfig) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *GitHubProvider) Name() string {
	return "github"
}

func (p *GitHubProvider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode returns the GitHub access token the marketplace's GitHub
// login endpoint consumes.
func (p *GitHubProvider) ExchangeCode(ctx context.Context, code string) (*Credential, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("github token response carries no access token")
	}

	return &Credential{Provider: "github", Token: token.AccessToken}, nil
}
