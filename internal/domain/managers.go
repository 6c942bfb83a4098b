package domain

import (
	"context"

	"github.com/moghtech/komodo-core/pkg/periphery"
)

// CredentialResolver looks up git and registry tokens in the database first
// and the core config second. Only database errors are returned; a missing
// token is reported through the found flag.
type CredentialResolver interface {
	GitToken(ctx context.Context, providerDomain, accountUsername string, onHTTPS func(https bool)) (token string, found bool, err error)
	RegistryToken(ctx context.Context, providerDomain, accountUsername string) (token string, found bool, err error)
	RepoGitToken(ctx context.Context, repo *Repo) (token string, found bool, err error)
	BuildGitToken(ctx context.Context, build *Build, repo *Repo) (token string, found bool, err error)
	StackGitToken(ctx context.Context, stack *Stack, repo *Repo) (token string, found bool, err error)
}

type PeripheryClientFactory interface {
	Client(server *Server) (*periphery.Client, error)
}

type PermissionManager interface {
	CreatePermission(ctx context.Context, user *User, target ResourceTargeter, level PermissionLevel, specific SpecificPermissions)
}

type ServerStateChecker interface {
	State(ctx context.Context, server *Server) ServerState
}

type GitAccountTestResult struct {
	Provider string `json:"provider"`
	Login    string `json:"login"`
}

type GitAccountTester interface {
	TestGitAccount(ctx context.Context, providerDomain, accountUsername string) (GitAccountTestResult, error)
}
