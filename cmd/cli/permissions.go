package cli

import (
	"fmt"
	"strings"

	"github.com/moghtech/komodo-core/internal/domain"
	"github.com/moghtech/komodo-core/internal/managers"

	"github.com/spf13/cobra"
)

func NewPermissionsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Manage resource permissions",
	}

	cmd.AddCommand(newGrantPermissionCommand(opts))

	return cmd
}

func newGrantPermissionCommand(opts *rootOptions) *cobra.Command {
	var (
		userID   string
		target   string
		level    string
		specific []string
	)

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant a user a permission level on a resource",
		Long: `Grant a user a permission level on a resource. Admin users already have
full access, so nothing is stored for them.`,
		Example: `  komodo permissions grant --user alice --target Server:66f2c0e1 --level Execute --specific Logs,Terminal`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			resourceTarget, err := domain.ParseResourceTarget(target)
			if err != nil {
				return err
			}

			permissionLevel, err := domain.ParsePermissionLevel(level)
			if err != nil {
				return err
			}

			specificPermissions, err := parseSpecificPermissions(specific)
			if err != nil {
				return err
			}

			store, closeStore, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			user, err := store.GetUser(ctx, userID)
			if err != nil {
				return err
			}

			permissionManager := managers.NewPermissionManager(managers.PermissionManagerDependencies{
				Permissions: store,
			})

			permissionManager.CreatePermission(ctx, user, resourceTarget, permissionLevel, specificPermissions)

			if user.Admin {
				fmt.Printf("%s is an admin, no permission stored\n", user.Username)
				return nil
			}

			fmt.Printf("Requested %s on %s for %s\n", permissionLevel, resourceTarget, user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id or username")
	cmd.Flags().StringVar(&target, "target", "", "Resource target as Kind:id")
	cmd.Flags().StringVar(&level, "level", string(domain.PermissionLevelRead), "Permission level (None, Read, Execute, Write)")
	cmd.Flags().StringSliceVar(&specific, "specific", nil, "Specific permissions (Terminal, Attach, Inspect, Logs, Processes)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func parseSpecificPermissions(values []string) (domain.SpecificPermissions, error) {
	set := domain.NewSpecificPermissions()
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		specific, err := domain.ParseSpecificPermission(value)
		if err != nil {
			return nil, err
		}
		set = set.Add(specific)
	}
	return set, nil
}
