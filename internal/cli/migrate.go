package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := opts.openDatabase()
			if err != nil {
				return err
			}
			defer closeDatabase(gdb)

			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date: %s\n", opts.databasePath)
			return nil
		},
	}
}
