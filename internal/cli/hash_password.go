package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// NewHashPasswordCommand creates the hash-password command, used to seed
// identities by hand.
func NewHashPasswordCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:          "hash-password <password>...",
		Short:        "Print bcrypt hashes for passwords",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, pass := range args {
				hashed, err := bcrypt.GenerateFromPassword([]byte(pass), cost)
				if err != nil {
					return fmt.Errorf("hash password: %w", err)
				}
				if len(args) == 1 {
					fmt.Fprintln(cmd.OutOrStdout(), string(hashed))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", pass, hashed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}
