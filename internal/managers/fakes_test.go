package managers

import (
	"context"
	"sync"

	"github.com/moghtech/komodo-core/internal/domain"
)

type accountKey struct {
	domain   string
	username string
}

type fakeGitAccountStore struct {
	accounts map[accountKey]domain.GitAccount
	err      error
	calls    int
}

func (s *fakeGitAccountStore) FindGitAccount(ctx context.Context, providerDomain, username string) (*domain.GitAccount, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	account, ok := s.accounts[accountKey{providerDomain, username}]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

type fakeRegistryAccountStore struct {
	accounts map[accountKey]domain.RegistryAccount
	err      error
	calls    int
}

func (s *fakeRegistryAccountStore) FindRegistryAccount(ctx context.Context, providerDomain, username string) (*domain.RegistryAccount, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	account, ok := s.accounts[accountKey{providerDomain, username}]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

type fakePermissionStore struct {
	mu       sync.Mutex
	inserted []domain.Permission
	err      error
}

func (s *fakePermissionStore) InsertPermission(ctx context.Context, permission domain.Permission) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inserted = append(s.inserted, permission)
	if s.err != nil {
		return "", s.err
	}
	return "perm-1", nil
}

// httpsSink records every transport hint it receives.
type httpsSink struct {
	values []bool
}

func (s *httpsSink) set(https bool) {
	s.values = append(s.values, https)
}

type fakeServerStore struct {
	servers []domain.Server
	err     error
}

func (s *fakeServerStore) GetServer(ctx context.Context, idOrName string) (*domain.Server, error) {
	for i := range s.servers {
		if s.servers[i].ID == idOrName || s.servers[i].Name == idOrName {
			return &s.servers[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeServerStore) ListServers(ctx context.Context) ([]domain.Server, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.servers, nil
}

func (s *fakeServerStore) UpdateServerConfig(ctx context.Context, id string, partial map[string]any) error {
	return nil
}

// stateByEnabled reports ok for enabled servers and disabled otherwise.
type stateByEnabled struct {
	mu     sync.Mutex
	checks int
}

func (c *stateByEnabled) State(ctx context.Context, server *domain.Server) domain.ServerState {
	c.mu.Lock()
	c.checks++
	c.mu.Unlock()

	if !server.Config.Enabled {
		return domain.ServerStateDisabled
	}
	return domain.ServerStateOk
}
