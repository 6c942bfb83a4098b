package cli

import (
	"fmt"

	"github.com/moghtech/komodo-core/internal/helpers"

	"github.com/spf13/cobra"
)

const defaultPasskeyLength = 40

func NewPasskeyCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passkey",
		Short: "Passkey utilities",
	}

	var length int

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random alphanumeric passkey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if length <= 0 {
				return fmt.Errorf("length must be positive, got %d", length)
			}

			fmt.Println(helpers.RandomString(length))
			return nil
		},
	}

	generateCmd.Flags().IntVar(&length, "length", defaultPasskeyLength, "Number of characters")

	cmd.AddCommand(generateCmd)

	return cmd
}
