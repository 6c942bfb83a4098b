package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/moghtech/komodo-core/internal/domain"
	"github.com/moghtech/komodo-core/internal/managers"

	"github.com/spf13/cobra"
)

type accountFlags struct {
	domain   string
	username string
}

func (f *accountFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.domain, "domain", "", "Provider domain, e.g. github.com")
	cmd.Flags().StringVar(&f.username, "username", "", "Account username")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("username")
}

func NewAccountsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect git and registry accounts",
	}

	cmd.AddCommand(newGitTokenCommand(opts))
	cmd.AddCommand(newRegistryTokenCommand(opts))
	cmd.AddCommand(newVerifyAccountCommand(opts))

	return cmd
}

func newGitTokenCommand(opts *rootOptions) *cobra.Command {
	var flags accountFlags

	cmd := &cobra.Command{
		Use:   "git-token",
		Short: "Resolve the token for a git account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			resolver, closeStore, err := opts.credentialResolver(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			https := true
			token, found, err := resolver.GitToken(ctx, flags.domain, flags.username, func(h bool) { https = h })
			if err != nil {
				return err
			}

			if !found {
				fmt.Printf("No git token found for %s on %s\n", flags.username, flags.domain)
				return nil
			}

			fmt.Printf("Git token for %s on %s: %s\n", flags.username, flags.domain, maskToken(token))
			fmt.Printf("   Clone over https: %t\n", https)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newRegistryTokenCommand(opts *rootOptions) *cobra.Command {
	var flags accountFlags

	cmd := &cobra.Command{
		Use:   "registry-token",
		Short: "Resolve the token for a docker registry account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			resolver, closeStore, err := opts.credentialResolver(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			token, found, err := resolver.RegistryToken(ctx, flags.domain, flags.username)
			if err != nil {
				return err
			}

			if !found {
				fmt.Printf("No registry token found for %s on %s\n", flags.username, flags.domain)
				return nil
			}

			fmt.Printf("Registry token for %s on %s: %s\n", flags.username, flags.domain, maskToken(token))
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newVerifyAccountCommand(opts *rootOptions) *cobra.Command {
	var flags accountFlags

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Authenticate against the git provider with the resolved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			resolver, closeStore, err := opts.credentialResolver(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			tester := managers.NewGitAccountTester(managers.GitAccountTesterDependencies{
				Resolver: resolver,
			})

			result, err := tester.TestGitAccount(ctx, flags.domain, flags.username)
			if err != nil {
				return err
			}

			fmt.Printf("Authenticated with %s as %s\n", result.Provider, result.Login)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func (o *rootOptions) credentialResolver(ctx context.Context) (domain.CredentialResolver, func(), error) {
	store, closeStore, err := o.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	resolver := managers.NewCredentialResolver(managers.CredentialResolverDependencies{
		GitAccounts:      store,
		RegistryAccounts: store,
		Config:           o.config,
	})

	return resolver, closeStore, nil
}

// maskToken keeps a short prefix so operators can tell tokens apart.
func maskToken(token string) string {
	const visible = 4
	if len(token) <= visible {
		return strings.Repeat("*", len(token))
	}
	return token[:visible] + strings.Repeat("*", len(token)-visible)
}
