package managers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moghtech/komodo-core/internal/domain"
	"github.com/moghtech/komodo-core/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monitorServers() []domain.Server {
	enabled := domain.DefaultServerConfig()
	enabled.Enabled = true

	return []domain.Server{
		{ID: "srv1", Name: "alpha", Config: enabled},
		{ID: "srv2", Name: "beta", Config: domain.DefaultServerConfig()},
	}
}

func TestServerMonitor_Refresh(t *testing.T) {
	ctx := context.Background()
	checkedAt := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	cache := memory.NewStatusCache()
	checker := &stateByEnabled{}

	monitor := NewServerMonitor(ServerMonitorDependencies{
		Servers:      &fakeServerStore{servers: monitorServers()},
		StateChecker: checker,
		Cache:        cache,
		Concurrency:  1,
		Now:          func() time.Time { return checkedAt },
	})

	require.NoError(t, monitor.Refresh(ctx))

	statuses, err := cache.ListStatuses(ctx)
	require.NoError(t, err)

	assert.Equal(t, []domain.ServerStatus{
		{ServerID: "srv1", Name: "alpha", State: domain.ServerStateOk, CheckedAt: checkedAt},
		{ServerID: "srv2", Name: "beta", State: domain.ServerStateDisabled, CheckedAt: checkedAt},
	}, statuses)
	assert.Equal(t, 2, checker.checks)
}

func TestServerMonitor_RefreshListError(t *testing.T) {
	monitor := NewServerMonitor(ServerMonitorDependencies{
		Servers:      &fakeServerStore{err: errors.New("mongo down")},
		StateChecker: &stateByEnabled{},
		Cache:        memory.NewStatusCache(),
	})

	err := monitor.Refresh(context.Background())
	assert.ErrorContains(t, err, "mongo down")
}

func TestServerMonitor_Start(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		monitor := NewServerMonitor(ServerMonitorDependencies{
			Servers:      &fakeServerStore{servers: monitorServers()},
			StateChecker: &stateByEnabled{},
			Cache:        memory.NewStatusCache(),
			Schedule:     "not a schedule",
		})

		assert.Error(t, monitor.Start(context.Background()))
	})

	t.Run("refreshes immediately", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cache := memory.NewStatusCache()
		monitor := NewServerMonitor(ServerMonitorDependencies{
			Servers:      &fakeServerStore{servers: monitorServers()},
			StateChecker: &stateByEnabled{},
			Cache:        cache,
			Schedule:     "@every 1h",
		})

		require.NoError(t, monitor.Start(ctx))

		statuses, err := cache.ListStatuses(ctx)
		require.NoError(t, err)
		assert.Len(t, statuses, 2)
	})
}
