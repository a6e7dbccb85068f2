package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SettingsBackendPostgres  = "postgres"
	SettingsBackendFirestore = "firestore"
)

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	GinMode     string

	RedisAddr        string
	RedisDB          int
	SettingsCacheTTL time.Duration

	SettingsBackend   string
	FirebaseProjectID string
}

// configFile mirrors the optional YAML file named by CONFIG_FILE.
type configFile struct {
	Server struct {
		Port    string `yaml:"port"`
		GinMode string `yaml:"gin_mode"`
	} `yaml:"server"`
	Database struct {
		Host        string `yaml:"host"`
		Port        string `yaml:"port"`
		User        string `yaml:"user"`
		Password    string `yaml:"password"`
		Name        string `yaml:"name"`
		SSLMode     string `yaml:"sslmode"`
		AutoMigrate *bool  `yaml:"auto_migrate"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		DB       *int   `yaml:"db"`
		CacheTTL string `yaml:"settings_cache_ttl"`
	} `yaml:"redis"`
	Settings struct {
		Backend           string `yaml:"backend"`
		FirebaseProjectID string `yaml:"firebase_project_id"`
	} `yaml:"settings"`
}

// Load resolves configuration in priority order: defaults, then the YAML
// file named by CONFIG_FILE, then environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             "8080",
		DBHost:           "localhost",
		DBPort:           "5432",
		DBUser:           "esim",
		DBPassword:       "esim_secret",
		DBName:           "esim",
		DBSSLMode:        "disable",
		GinMode:          "debug",
		SettingsCacheTTL: 60 * time.Second,
		SettingsBackend:  SettingsBackendPostgres,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.AutoMigrate = getEnv("AUTO_MIGRATE", strconv.FormatBool(cfg.AutoMigrate)) == "true"
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.SettingsBackend = getEnv("SETTINGS_BACKEND", cfg.SettingsBackend)
	cfg.FirebaseProjectID = getEnv("FIREBASE_PROJECT_ID", cfg.FirebaseProjectID)

	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}
	if v, ok := os.LookupEnv("SETTINGS_CACHE_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse SETTINGS_CACHE_TTL: %w", err)
		}
		cfg.SettingsCacheTTL = ttl
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&c.Port, f.Server.Port)
	setString(&c.GinMode, f.Server.GinMode)
	setString(&c.DBHost, f.Database.Host)
	setString(&c.DBPort, f.Database.Port)
	setString(&c.DBUser, f.Database.User)
	setString(&c.DBPassword, f.Database.Password)
	setString(&c.DBName, f.Database.Name)
	setString(&c.DBSSLMode, f.Database.SSLMode)
	if f.Database.AutoMigrate != nil {
		c.AutoMigrate = *f.Database.AutoMigrate
	}
	setString(&c.RedisAddr, f.Redis.Addr)
	if f.Redis.DB != nil {
		c.RedisDB = *f.Redis.DB
	}
	if f.Redis.CacheTTL != "" {
		ttl, err := time.ParseDuration(f.Redis.CacheTTL)
		if err != nil {
			return fmt.Errorf("parse redis.settings_cache_ttl: %w", err)
		}
		c.SettingsCacheTTL = ttl
	}
	setString(&c.SettingsBackend, f.Settings.Backend)
	setString(&c.FirebaseProjectID, f.Settings.FirebaseProjectID)
	return nil
}

func (c *Config) validate() error {
	switch c.SettingsBackend {
	case SettingsBackendPostgres:
	case SettingsBackendFirestore:
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore settings backend")
		}
	default:
		return fmt.Errorf("unknown settings backend %q", c.SettingsBackend)
	}
	if c.SettingsCacheTTL <= 0 {
		return fmt.Errorf("settings cache ttl must be positive, got %s", c.SettingsCacheTTL)
	}
	return nil
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
