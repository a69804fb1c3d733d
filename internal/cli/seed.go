package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bibler-backend/internal/platform/clock"
	"bibler-backend/internal/seed"
)

func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with test data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer conn.Close()

			wrote, err := seed.Run(cmd.Context(), conn, cfg.DB.Driver, clock.Real{})
			if err != nil {
				return err
			}
			if wrote {
				fmt.Fprintln(cmd.OutOrStdout(), "seeded")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "database not empty, nothing seeded")
			}
			return nil
		},
	}
}
