package managers

import (
	"context"
	"fmt"

	"github.com/moghtech/komodo-core/internal/config"
	"github.com/moghtech/komodo-core/internal/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type credentialResolver struct {
	gitAccounts      domain.GitAccountStore
	registryAccounts domain.RegistryAccountStore
	config           *config.CoreConfig
	logger           zerolog.Logger
}

type CredentialResolverDependencies struct {
	GitAccounts      domain.GitAccountStore
	RegistryAccounts domain.RegistryAccountStore
	Config           *config.CoreConfig
	Logger           *zerolog.Logger
}

func NewCredentialResolver(deps CredentialResolverDependencies) domain.CredentialResolver {
	logger := log.Logger
	if deps.Logger != nil {
		logger = *deps.Logger
	}

	return &credentialResolver{
		gitAccounts:      deps.GitAccounts,
		registryAccounts: deps.RegistryAccounts,
		config:           deps.Config,
		logger:           logger,
	}
}

// GitToken checks the database for the account first, then the core config.
// onHTTPS receives the transport hint of whichever source matched the
// provider, and is not called when nothing matched.
func (r *credentialResolver) GitToken(ctx context.Context, providerDomain, accountUsername string, onHTTPS func(https bool)) (string, bool, error) {
	if providerDomain == "" || accountUsername == "" {
		return "", false, nil
	}

	if onHTTPS == nil {
		onHTTPS = func(bool) {}
	}

	account, err := r.gitAccounts.FindGitAccount(ctx, providerDomain, accountUsername)
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to query db for git provider accounts: %w", domain.ErrStoreUnavailable, err)
	}

	if account != nil {
		onHTTPS(account.HTTPS)
		return account.Token, true, nil
	}

	for _, provider := range r.config.GitProviders {
		if provider.Domain != providerDomain {
			continue
		}

		onHTTPS(provider.UseHTTPS())

		token, found := findAccountToken(provider.Accounts, accountUsername)
		return token, found, nil
	}

	return "", false, nil
}

// RegistryToken checks the database for the account first, then the core
// config.
func (r *credentialResolver) RegistryToken(ctx context.Context, providerDomain, accountUsername string) (string, bool, error) {
	if providerDomain == "" || accountUsername == "" {
		return "", false, nil
	}

	account, err := r.registryAccounts.FindRegistryAccount(ctx, providerDomain, accountUsername)
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to query db for docker registry accounts: %w", domain.ErrStoreUnavailable, err)
	}

	if account != nil {
		return account.Token, true, nil
	}

	for _, registry := range r.config.DockerRegistries {
		if registry.Domain != providerDomain {
			continue
		}

		token, found := findAccountToken(registry.Accounts, accountUsername)
		return token, found, nil
	}

	return "", false, nil
}

func (r *credentialResolver) RepoGitToken(ctx context.Context, repo *domain.Repo) (string, bool, error) {
	return r.sourceGitToken(ctx, &repo.Config.GitSource)
}

// BuildGitToken resolves the token for the build's source. When the build is
// linked to a repo, the repo's source is used and updated instead.
func (r *credentialResolver) BuildGitToken(ctx context.Context, build *domain.Build, repo *domain.Repo) (string, bool, error) {
	if repo != nil {
		return r.sourceGitToken(ctx, &repo.Config.GitSource)
	}
	return r.sourceGitToken(ctx, &build.Config.GitSource)
}

// StackGitToken resolves the token for the stack's source. When the stack is
// linked to a repo, the repo's source is used and updated instead.
func (r *credentialResolver) StackGitToken(ctx context.Context, stack *domain.Stack, repo *domain.Repo) (string, bool, error) {
	if repo != nil {
		return r.sourceGitToken(ctx, &repo.Config.GitSource)
	}
	return r.sourceGitToken(ctx, &stack.Config.GitSource)
}

func (r *credentialResolver) sourceGitToken(ctx context.Context, source *domain.GitSource) (string, bool, error) {
	token, found, err := r.GitToken(ctx, source.GitProvider, source.GitAccount, func(https bool) {
		source.GitHTTPS = https
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to get git token, stopping run | %s | %s: %w", source.GitProvider, source.GitAccount, err)
	}

	r.logger.Debug().
		Str("repo", source.RepoLink()).
		Str("account", source.GitAccount).
		Bool("token_found", found).
		Msg("Resolved git token")

	return token, found, nil
}

func findAccountToken(accounts []config.ProviderAccount, username string) (string, bool) {
	for _, account := range accounts {
		if account.Username == username {
			return account.Token, true
		}
	}
	return "", false
}
