package managers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/moghtech/komodo-core/internal/domain"

	"github.com/google/go-github/v57/github"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xanzy/go-gitlab"
	"golang.org/x/oauth2"
)

const (
	gitProviderGitHub = "github"
	gitProviderGitLab = "gitlab"
)

type gitAccountTester struct {
	resolver     domain.CredentialResolver
	githubAPIURL string
	gitlabAPIURL string
	logger       zerolog.Logger
}

type GitAccountTesterDependencies struct {
	Resolver domain.CredentialResolver

	// Override the API endpoints derived from the provider domain.
	GitHubAPIURL string
	GitLabAPIURL string

	Logger *zerolog.Logger
}

func NewGitAccountTester(deps GitAccountTesterDependencies) domain.GitAccountTester {
	logger := log.Logger
	if deps.Logger != nil {
		logger = *deps.Logger
	}

	return &gitAccountTester{
		resolver:     deps.Resolver,
		githubAPIURL: deps.GitHubAPIURL,
		gitlabAPIURL: deps.GitLabAPIURL,
		logger:       logger,
	}
}

// TestGitAccount resolves the token for the account and authenticates with
// the provider's API using it.
func (t *gitAccountTester) TestGitAccount(ctx context.Context, providerDomain, accountUsername string) (domain.GitAccountTestResult, error) {
	provider, err := gitProviderKind(providerDomain)
	if err != nil {
		return domain.GitAccountTestResult{}, err
	}

	https := true
	token, found, err := t.resolver.GitToken(ctx, providerDomain, accountUsername, func(h bool) {
		https = h
	})
	if err != nil {
		return domain.GitAccountTestResult{}, err
	}

	if !found {
		return domain.GitAccountTestResult{}, fmt.Errorf("no token for %s on %s: %w", accountUsername, providerDomain, domain.ErrNotFound)
	}

	var login string
	switch provider {
	case gitProviderGitHub:
		login, err = t.githubLogin(ctx, token)
	case gitProviderGitLab:
		login, err = t.gitlabLogin(ctx, providerDomain, https, token)
	}
	if err != nil {
		return domain.GitAccountTestResult{}, err
	}

	t.logger.Info().
		Str("provider", providerDomain).
		Str("account", accountUsername).
		Str("login", login).
		Msg("Git account authenticated")

	return domain.GitAccountTestResult{
		Provider: provider,
		Login:    login,
	}, nil
}

func gitProviderKind(providerDomain string) (string, error) {
	switch {
	case providerDomain == "github.com":
		return gitProviderGitHub, nil
	case strings.Contains(providerDomain, "gitlab"):
		return gitProviderGitLab, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, providerDomain)
	}
}

func (t *gitAccountTester) githubLogin(ctx context.Context, token string) (string, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if t.githubAPIURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(t.githubAPIURL, "/") + "/")
		if err != nil {
			return "", fmt.Errorf("invalid GitHub API url: %w", err)
		}
		client.BaseURL = baseURL
	}

	user, response, err := client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to authenticate with GitHub: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned status %d", response.StatusCode)
	}

	return user.GetLogin(), nil
}

func (t *gitAccountTester) gitlabLogin(ctx context.Context, providerDomain string, https bool, token string) (string, error) {
	baseURL := t.gitlabAPIURL
	if baseURL == "" {
		scheme := "https"
		if !https {
			scheme = "http"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, providerDomain)
	}

	client, err := gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return "", fmt.Errorf("failed to create GitLab client: %w", err)
	}

	user, response, err := client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to authenticate with GitLab: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitLab API returned status %d", response.StatusCode)
	}

	return user.Username, nil
}
