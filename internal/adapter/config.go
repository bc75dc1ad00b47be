package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Collection CollectionConfig `mapstructure:"collection"`
	Store      StoreConfig      `mapstructure:"store"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// CollectionConfig describes the music collection on disk
type CollectionConfig struct {
	Root     string        `mapstructure:"root"`
	Watch    bool          `mapstructure:"watch"`    // Rescan when files change
	Debounce time.Duration `mapstructure:"debounce"` // Quiet period before a watch-triggered rescan
	Workers  int           `mapstructure:"workers"`  // Tag readers; 0 = one per CPU
}

// StoreConfig selects the backing record store
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "bolt", "sqlite", or "memory"
	Path    string `mapstructure:"path"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Listen          string        `mapstructure:"listen"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"` // Empty logs to stderr
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Collection: CollectionConfig{
			Root:     filepath.Join(home, "Music"),
			Watch:    false,
			Debounce: 5 * time.Second,
			Workers:  0,
		},
		Store: StoreConfig{
			Backend: "bolt",
			Path:    filepath.Join(defaultDataPath(), "avalon.db"),
		},
		Server: ServerConfig{
			Listen:          "127.0.0.1:8000",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			File:  "",
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "avalon")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "avalon")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "avalon")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "avalon")
	}
}

// LoadConfig loads configuration from file and environment. An empty
// configFile searches the default locations; a missing file there is fine.
// Environment variables override file values, e.g. AVALON_SERVER_LISTEN.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	v.SetEnvPrefix("AVALON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Collection.Root = ExpandPath(cfg.Collection.Root)
	cfg.Store.Path = ExpandPath(cfg.Store.Path)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("collection.root", cfg.Collection.Root)
	v.SetDefault("collection.watch", cfg.Collection.Watch)
	v.SetDefault("collection.debounce", cfg.Collection.Debounce)
	v.SetDefault("collection.workers", cfg.Collection.Workers)

	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.path", cfg.Store.Path)

	v.SetDefault("server.listen", cfg.Server.Listen)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
