package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/moghtech/komodo-core/internal/controllers"
	"github.com/moghtech/komodo-core/internal/domain"
	"github.com/moghtech/komodo-core/internal/managers"
	"github.com/moghtech/komodo-core/internal/server"
	"github.com/moghtech/komodo-core/internal/store/memory"
	redisstore "github.com/moghtech/komodo-core/internal/store/redis"
	"github.com/moghtech/komodo-core/internal/version"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewStartCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the core service",
		Long:  `Connect to the database, ensure its indexes and serve the operational HTTP endpoints until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(opts)
		},
	}

	return cmd
}

func runStart(opts *rootOptions) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().Str("version", version.GetVersion()).Msg("Starting komodo core")

	store, closeStore, err := opts.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	clientFactory := managers.NewPeripheryClientFactory(managers.PeripheryClientFactoryDependencies{
		Config: opts.config,
	})

	stateChecker := managers.NewServerStateChecker(managers.ServerStateCheckerDependencies{
		ClientFactory: clientFactory,
	})

	statusCache, closeCache, err := opts.statusCache(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	monitor := managers.NewServerMonitor(managers.ServerMonitorDependencies{
		Servers:      store,
		StateChecker: stateChecker,
		Cache:        statusCache,
		Schedule:     opts.config.MonitoringInterval,
	})

	if err := monitor.Start(ctx); err != nil {
		return err
	}

	serverController := controllers.NewServerController(controllers.ServerControllerDependencies{
		Servers:      store,
		StateChecker: stateChecker,
		StatusCache:  statusCache,
	})

	app := server.NewHTTPServer(server.HTTPServerDependencies{
		ServerController: serverController,
	})

	address := fmt.Sprintf(":%d", opts.config.Port)

	log.Info().
		Str("address", address).
		Str("host", opts.config.Host).
		Msg("Core HTTP server listening")

	if err := app.Listen(address, fiber.ListenConfig{
		GracefulContext:       ctx,
		DisableStartupMessage: true,
	}); err != nil {
		return fmt.Errorf("http server failed: %w", err)
	}

	log.Info().Msg("Komodo core stopped")
	return nil
}

// statusCache uses redis when an address is configured and process memory
// otherwise.
func (o *rootOptions) statusCache(ctx context.Context) (domain.ServerStatusCache, func(), error) {
	if o.config.Redis.Address == "" {
		log.Info().Msg("No redis configured, caching server states in memory")
		return memory.NewStatusCache(), func() {}, nil
	}

	client, err := redisstore.Connect(ctx, o.config.Redis)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}

	log.Info().Str("address", o.config.Redis.Address).Msg("Caching server states in redis")

	return redisstore.NewStatusCache(client, o.config.Redis.KeyPrefix), closeFn, nil
}
