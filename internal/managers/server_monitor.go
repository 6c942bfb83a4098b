package managers

import (
	"context"
	"fmt"
	"time"

	"github.com/moghtech/komodo-core/internal/domain"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMonitoringSchedule = "@every 15s"
	defaultMonitorConcurrency = 10
)

type serverMonitor struct {
	servers      domain.ServerStore
	stateChecker domain.ServerStateChecker
	cache        domain.ServerStatusCache
	schedule     string
	concurrency  int
	now          func() time.Time
	logger       zerolog.Logger
}

type ServerMonitorDependencies struct {
	Servers      domain.ServerStore
	StateChecker domain.ServerStateChecker
	Cache        domain.ServerStatusCache

	// Cron spec, defaults to DefaultMonitoringSchedule.
	Schedule string

	// Maximum number of servers checked at once.
	Concurrency int

	Now    func() time.Time
	Logger *zerolog.Logger
}

func NewServerMonitor(deps ServerMonitorDependencies) domain.ServerMonitor {
	logger := log.Logger
	if deps.Logger != nil {
		logger = *deps.Logger
	}

	schedule := deps.Schedule
	if schedule == "" {
		schedule = DefaultMonitoringSchedule
	}

	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = defaultMonitorConcurrency
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &serverMonitor{
		servers:      deps.Servers,
		stateChecker: deps.StateChecker,
		cache:        deps.Cache,
		schedule:     schedule,
		concurrency:  concurrency,
		now:          now,
		logger:       logger,
	}
}

// Refresh checks every server and caches the results. A failing cache write
// is logged and does not stop the other checks.
func (m *serverMonitor) Refresh(ctx context.Context) error {
	servers, err := m.servers.ListServers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list servers: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i := range servers {
		server := &servers[i]

		g.Go(func() error {
			status := domain.ServerStatus{
				ServerID:  server.ID,
				Name:      server.Name,
				State:     m.stateChecker.State(ctx, server),
				CheckedAt: m.now().UTC(),
			}

			if err := m.cache.SetStatus(ctx, status); err != nil {
				m.logger.Error().Err(err).Str("server_id", server.ID).Msg("Failed to cache server status")
			}

			return nil
		})
	}

	// Checks never fail; the group only bounds concurrency.
	g.Wait()

	m.logger.Debug().Int("servers", len(servers)).Msg("Refreshed server states")

	return nil
}

// Start runs a first refresh immediately, then on the schedule until ctx is
// done.
func (m *serverMonitor) Start(ctx context.Context) error {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(m.schedule, func() {
		if err := m.Refresh(ctx); err != nil {
			m.logger.Error().Err(err).Msg("Server state refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid monitoring schedule %q: %w", m.schedule, err)
	}

	if err := m.Refresh(ctx); err != nil {
		m.logger.Error().Err(err).Msg("Server state refresh failed")
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		<-scheduler.Stop().Done()
		m.logger.Debug().Msg("Server monitor stopped")
	}()

	return nil
}
