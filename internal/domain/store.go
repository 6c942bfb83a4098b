package domain

import "context"

// Find methods return nil and no error when nothing matches.

type GitAccountStore interface {
	FindGitAccount(ctx context.Context, domain, username string) (*GitAccount, error)
}

type RegistryAccountStore interface {
	FindRegistryAccount(ctx context.Context, domain, username string) (*RegistryAccount, error)
}

type PermissionStore interface {
	InsertPermission(ctx context.Context, permission Permission) (string, error)
}

type ServerStore interface {
	GetServer(ctx context.Context, idOrName string) (*Server, error)
	ListServers(ctx context.Context) ([]Server, error)
	UpdateServerConfig(ctx context.Context, id string, partial map[string]any) error
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*User, error)
}
