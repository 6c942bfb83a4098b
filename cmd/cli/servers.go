package cli

import (
	"fmt"
	"strconv"

	"github.com/moghtech/komodo-core/internal/managers"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewServersCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Inspect and configure servers",
	}

	cmd.AddCommand(newServerStateCommand(opts))
	cmd.AddCommand(newServerSetTimeoutCommand(opts))

	return cmd
}

func newServerStateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "state <id|name>",
		Short: "Check whether a server's periphery agent is reachable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, closeStore, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			server, err := store.GetServer(ctx, args[0])
			if err != nil {
				return err
			}

			checker := managers.NewServerStateChecker(managers.ServerStateCheckerDependencies{
				ClientFactory: managers.NewPeripheryClientFactory(managers.PeripheryClientFactoryDependencies{
					Config: opts.config,
				}),
			})

			fmt.Printf("%s (%s): %s\n", server.Name, server.ID, checker.State(ctx, server))
			return nil
		},
	}
}

func newServerSetTimeoutCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-timeout <id|name> <seconds>",
		Short: "Set the periphery request timeout for a server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			seconds, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || seconds < 0 {
				return fmt.Errorf("invalid timeout %q, expected a non negative number of seconds", args[1])
			}

			store, closeStore, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			server, err := store.GetServer(ctx, args[0])
			if err != nil {
				return err
			}

			if err := store.UpdateServerConfig(ctx, server.ID, map[string]any{
				"timeout_seconds": seconds,
			}); err != nil {
				return err
			}

			log.Info().
				Str("server_id", server.ID).
				Int64("timeout_seconds", seconds).
				Msg("Updated server timeout")

			return nil
		},
	}
}
