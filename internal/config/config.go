package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultVerifyToken is used when WHATSAPP_VERIFY_TOKEN is not set.
const DefaultVerifyToken = "your_verify_token_here"

// Config holds the process configuration read from the environment.
type Config struct {
	ManagedURL   string
	ManagedKey   string
	ProbeTimeout time.Duration
	AutoMigrate  bool

	VerifyToken string
	Port        string

	MessagesFile string
	UsersFile    string
	MenuFile     string

	GinMode string
	Debug   bool
}

// LoadEnvFile loads a .env file into the environment if there is one.
func LoadEnvFile(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		lgr.Printf("[INFO] no .env file found or error loading, relying on environment variables")
	}
}

// Load reads the configuration from environment variables, applying
// defaults for everything optional.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// the managed backend keeps accepting the older SUPABASE_* names
	if err := v.BindEnv("managed_url", "MANAGED_DB_URL", "SUPABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind managed url: %w", err)
	}
	if err := v.BindEnv("managed_key", "MANAGED_DB_KEY", "SUPABASE_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind managed key: %w", err)
	}

	v.SetDefault("port", "5000")
	v.SetDefault("whatsapp_verify_token", DefaultVerifyToken)
	v.SetDefault("data_dir", "data")
	v.SetDefault("managed_probe_timeout", 5*time.Second)
	v.SetDefault("managed_auto_migrate", false)
	v.SetDefault("gin_mode", "release")
	v.SetDefault("debug", false)

	dataDir := v.GetString("data_dir")
	v.SetDefault("messages_file", filepath.Join(dataDir, "whatsapp_messages.json"))
	v.SetDefault("users_file", filepath.Join(dataDir, "users.json"))
	v.SetDefault("menu_file", filepath.Join(dataDir, "menu.json"))

	cfg := &Config{
		ManagedURL:   strings.TrimSpace(v.GetString("managed_url")),
		ManagedKey:   strings.TrimSpace(v.GetString("managed_key")),
		ProbeTimeout: v.GetDuration("managed_probe_timeout"),
		AutoMigrate:  v.GetBool("managed_auto_migrate"),
		VerifyToken:  v.GetString("whatsapp_verify_token"),
		Port:         v.GetString("port"),
		MessagesFile: v.GetString("messages_file"),
		UsersFile:    v.GetString("users_file"),
		MenuFile:     v.GetString("menu_file"),
		GinMode:      v.GetString("gin_mode"),
		Debug:        v.GetBool("debug"),
	}

	if cfg.ProbeTimeout <= 0 {
		return nil, fmt.Errorf("MANAGED_PROBE_TIMEOUT must be positive, got %s", cfg.ProbeTimeout)
	}
	if cfg.VerifyToken == "" {
		cfg.VerifyToken = DefaultVerifyToken
	}
	return cfg, nil
}

// ManagedConfigured reports whether both managed backend credentials are set.
func (c *Config) ManagedConfigured() bool {
	return c.ManagedURL != "" && c.ManagedKey != ""
}
