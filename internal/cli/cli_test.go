package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blogblog/internal/config"
	"github.com/blogblog/internal/db"
	"gorm.io/gorm/logger"
)

func runCLI(t *testing.T, cfg config.AppConfig, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(cfg, args, &stdout, &stderr)
	return stdout.String(), err
}

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	return config.AppConfig{
		DatabasePath: filepath.Join(t.TempDir(), "data", "blog.db"),
		LogLevel:     "error",
		Env:          "test",
	}
}

func TestMigrateCreatesDatabase(t *testing.T) {
	cfg := testConfig(t)

	out, err := runCLI(t, cfg, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "schema up to date") {
		t.Fatalf("unexpected output %q", out)
	}

	gdb, err := db.Open(cfg.DatabasePath, logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("open migrated db: %v", err)
	}
	defer closeDatabase(gdb)
	for _, table := range []string{"users", "authors", "contents", "comments"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}
}

func TestCreateSuperuser(t *testing.T) {
	cfg := testConfig(t)

	out, err := runCLI(t, cfg, "createsuperuser", "--username", "root", "--email", "Root@Example.com", "--password", "root-password")
	if err != nil {
		t.Fatalf("createsuperuser: %v", err)
	}
	if !strings.Contains(out, `superuser "root" created`) {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = runCLI(t, cfg, "createsuperuser", "--username", "root", "--password", "other-password")
	if err != nil {
		t.Fatalf("second createsuperuser: %v", err)
	}
	if !strings.Contains(out, "already exists") {
		t.Fatalf("expected idempotent run, got %q", out)
	}

	gdb, err := db.Open(cfg.DatabasePath, logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer closeDatabase(gdb)

	var user db.User
	if err := gdb.Where("username = ?", "root").First(&user).Error; err != nil {
		t.Fatalf("load superuser: %v", err)
	}
	if !user.IsSuperuser || !user.IsActive || user.Email != "root@example.com" {
		t.Fatalf("unexpected superuser: %+v", user)
	}
	if !user.CheckPassword("root-password") {
		t.Fatalf("second run must not change the password")
	}
}

func TestCreateSuperuserFallsBackToConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.SuperRootUserName = "boss"
	cfg.SuperRootPassword = "boss-password"

	if _, err := runCLI(t, cfg, "createsuperuser"); err != nil {
		t.Fatalf("createsuperuser from config: %v", err)
	}

	cfg.SuperRootUserName = ""
	cfg.SuperRootPassword = ""
	if _, err := runCLI(t, cfg, "createsuperuser"); err == nil {
		t.Fatalf("expected error without credentials")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	cfg := testConfig(t)

	out, err := runCLI(t, cfg, "seed")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "seeded 4 content items") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = runCLI(t, cfg, "seed")
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if !strings.Contains(out, "skipping") {
		t.Fatalf("expected skip on second run, got %q", out)
	}

	gdb, err := db.Open(cfg.DatabasePath, logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer closeDatabase(gdb)

	created, err := seed(context.Background(), gdb)
	if err != nil || created != 0 {
		t.Fatalf("direct seed on populated db: created=%d err=%v", created, err)
	}

	var published int64
	gdb.Model(&db.Content{}).Where("is_published = ?", true).Count(&published)
	if published != 3 {
		t.Fatalf("expected 3 published items, got %d", published)
	}
}
