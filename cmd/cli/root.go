package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/moghtech/komodo-core/internal/config"
	"github.com/moghtech/komodo-core/internal/store/mongodb"
	"github.com/moghtech/komodo-core/internal/version"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootOptions carries the global flags and the config loaded before any
// subcommand runs.
type rootOptions struct {
	configPath string
	debug      bool

	config *config.CoreConfig
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "komodo",
		Short: "Komodo Core CLI",
		Long: `Komodo Core manages servers running the periphery agent, the git and
registry accounts used to reach them, and the permissions on every resource.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the core config file")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewStartCommand(opts))
	rootCmd.AddCommand(NewAccountsCommand(opts))
	rootCmd.AddCommand(NewServersCommand(opts))
	rootCmd.AddCommand(NewPermissionsCommand(opts))
	rootCmd.AddCommand(NewPasskeyCommand(opts))
	rootCmd.AddCommand(NewConfigCommand(opts))

	return rootCmd
}

func (o *rootOptions) load() error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}

	configureLogging(cfg.Logging, o.debug)
	o.config = cfg

	return nil
}

func configureLogging(cfg config.LoggingConfig, debug bool) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	if !cfg.Pretty {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// openStore connects to the configured database. The returned close func
// disconnects the client.
func (o *rootOptions) openStore(ctx context.Context) (*mongodb.Store, func(), error) {
	client, database, err := mongodb.Connect(ctx, o.config.Mongo)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to disconnect from mongo")
		}
	}

	return mongodb.New(database), closeFn, nil
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
