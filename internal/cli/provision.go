package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/roster"
)

// NewProvisionCommand creates the provision command.
func NewProvisionCommand(rootOpts *RootOptions) *cobra.Command {
	var rosterPath string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Purge and recreate employee accounts from a roster",
		Long: `Remove every employee whose name or username matches the roster's purge
patterns, then create each roster employee whose username is still free.

Without --roster the file named by ROSTER_FILE is used.

Example:
  hrapi provision --roster configs/roster.example.yaml`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), rootOpts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var r *models.Roster
			if rosterPath != "" {
				if r, err = roster.Load(rosterPath); err != nil {
					return err
				}
			}

			res, err := a.users.Provision(cmd.Context(), r)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "path to a roster YAML file")

	return cmd
}
