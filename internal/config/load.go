package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. BLOKMAP_DATABASE_URL for database.url.
const EnvPrefix = "BLOKMAP"

// DefaultJWTSecretFile is the mounted secret consulted before the environment.
const DefaultJWTSecretFile = "/run/secrets/jwt-secret-key"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory, if present, is loaded into the
// process environment first without overriding variables that are already set.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := resolveJWTSecret(&cfg.Auth); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.metrics_enabled", true)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_secret_file", DefaultJWTSecretFile)
	v.SetDefault("auth.jwt_algorithm", "HS256")
	v.SetDefault("auth.token_lifetime_minutes", 30)
	v.SetDefault("auth.cookie_name", "access_token")
	v.SetDefault("auth.cookie_secure", true)
	v.SetDefault("auth.password_hasher", "argon2id")
	v.SetDefault("auth.bcrypt_cost", 10)
}

// resolveJWTSecret reads the signing secret from the mounted secret file when
// it exists. The file wins over any value from the environment.
func resolveJWTSecret(cfg *AuthConfig) error {
	if cfg.JWTSecretFile == "" {
		return nil
	}

	raw, err := os.ReadFile(cfg.JWTSecretFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read jwt secret file: %w", err)
	}

	cfg.JWTSecret = strings.TrimSpace(string(raw))
	return nil
}
