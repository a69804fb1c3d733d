package cli

import (
	"log"

	"github.com/spf13/cobra"
)

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer conn.Close()
			log.Println("[INFO] schema up to date")
			return nil
		},
	}
}
