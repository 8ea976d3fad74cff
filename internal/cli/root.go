// Package cli implements the blogctl maintenance commands.
package cli

import (
	"fmt"
	"io"

	"github.com/blogblog/internal/config"
	"github.com/blogblog/internal/db"
	"github.com/blogblog/internal/logging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type rootOptions struct {
	databasePath string
	cfg          config.AppConfig
}

// NewRootCommand builds the blogctl command tree.
func NewRootCommand(cfg config.AppConfig) *cobra.Command {
	opts := &rootOptions{cfg: cfg}

	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Maintenance commands for the blog service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(cmd.ErrOrStderr(), opts.cfg.LogLevel, opts.cfg.IsDevelopment())
		},
	}
	root.PersistentFlags().StringVar(&opts.databasePath, "database", cfg.DatabasePath, "sqlite database path")

	root.AddCommand(newMigrateCommand(opts))
	root.AddCommand(newCreateSuperuserCommand(opts))
	root.AddCommand(newSeedCommand(opts))
	return root
}

// Execute runs the command tree with the given arguments.
func Execute(cfg config.AppConfig, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand(cfg)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

// openDatabase 打开数据库并执行自动迁移。
func (o *rootOptions) openDatabase() (*gorm.DB, error) {
	gdb, err := db.Open(o.databasePath, logger.Default.LogMode(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return gdb, nil
}

func closeDatabase(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
