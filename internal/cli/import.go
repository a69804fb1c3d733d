package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bibler-backend/internal/transfer"
)

func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "import <books|users> <file.csv>",
		Short:     "Import books or users from a CSV file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"books", "users"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			_, conn, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer conn.Close()

			svc := transfer.NewService(conn)
			var load func(context.Context, io.Reader) (int, error)
			switch args[0] {
			case "books":
				load = svc.ImportBooks
			case "users":
				load = svc.ImportBorrowers
			default:
				return fmt.Errorf("unknown import target %q (books|users)", args[0])
			}
			n, err := load(cmd.Context(), transfer.Decode(raw))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s\n", n, args[0])
			return nil
		},
	}
}
