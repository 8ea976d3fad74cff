package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string `env:"LISTEN_ADDR" envDefault:":8080"`
	DatabasePath  string `env:"DATABASE_PATH" envDefault:"blogblog.db"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"blogblog-dev-secret"`
	GinMode       string `env:"GIN_MODE" envDefault:"release"`
	Env           string `env:"APP_ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// PostCooldown is the minimum interval between two posts by a non-superuser.
	PostCooldown time.Duration `env:"POST_COOLDOWN" envDefault:"10m"`
	FeedPageSize int           `env:"FEED_PAGE_SIZE" envDefault:"20"`

	SlugReplacement  string `env:"SLUG_REPLACEMENT"`
	SlugDisambiguate bool   `env:"SLUG_DISAMBIGUATE" envDefault:"false"`

	CSRFTrustedOrigins []string `env:"CSRF_TRUSTED_ORIGINS" envSeparator:","`

	SuperRootUserName string `env:"SUPER_ROOT_USER_NAME"`
	SuperRootEmail    string `env:"SUPER_ROOT_EMAIL"`
	SuperRootPassword string `env:"SUPER_ROOT_PASSWORD"`
}

// IsDevelopment reports whether the service runs with development defaults.
func (c AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load 从 .env 与环境变量读取应用配置，并为缺失项提供默认值。
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.DatabasePath = strings.TrimSpace(cfg.DatabasePath)
	cfg.SuperRootUserName = strings.TrimSpace(cfg.SuperRootUserName)
	cfg.SuperRootEmail = strings.TrimSpace(cfg.SuperRootEmail)

	if cfg.PostCooldown < 0 {
		return AppConfig{}, errors.New("POST_COOLDOWN must not be negative")
	}
	if cfg.FeedPageSize <= 0 {
		return AppConfig{}, fmt.Errorf("FEED_PAGE_SIZE must be positive, got %d", cfg.FeedPageSize)
	}

	return cfg, nil
}
