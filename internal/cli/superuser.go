package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blogblog/internal/db"
	"github.com/spf13/cobra"
)

func newCreateSuperuserCommand(opts *rootOptions) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a superuser account if it does not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 未显式传入时回退到 SUPER_ROOT_* 配置
			if strings.TrimSpace(username) == "" {
				username = opts.cfg.SuperRootUserName
			}
			if strings.TrimSpace(email) == "" {
				email = opts.cfg.SuperRootEmail
			}
			if password == "" {
				password = opts.cfg.SuperRootPassword
			}
			if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
				return errors.New("username and password are required")
			}

			gdb, err := opts.openDatabase()
			if err != nil {
				return err
			}
			defer closeDatabase(gdb)

			created, err := db.EnsureSuperuser(gdb, username, email, password)
			if err != nil {
				return fmt.Errorf("create superuser: %w", err)
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "user %q already exists, nothing to do\n", strings.TrimSpace(username))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "superuser %q created\n", strings.TrimSpace(username))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "superuser username (default SUPER_ROOT_USER_NAME)")
	cmd.Flags().StringVar(&email, "email", "", "superuser email (default SUPER_ROOT_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "superuser password (default SUPER_ROOT_PASSWORD)")
	return cmd
}
