package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port           int    `mapstructure:"port"            validate:"required,gt=0,lt=65536"`
	LogLevel       string `mapstructure:"log_level"       validate:"required,oneof=debug info warn error"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	// AutoMigrate applies pending migrations before the server starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and session settings.
type AuthConfig struct {
	// JWTSecret is resolved from JWTSecretFile when that file exists,
	// otherwise from the environment.
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	JWTSecretFile        string `mapstructure:"jwt_secret_file"`
	JWTAlgorithm         string `mapstructure:"jwt_algorithm"          validate:"required,oneof=HS256 HS384 HS512"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	CookieName           string `mapstructure:"cookie_name"            validate:"required"`
	CookieSecure         bool   `mapstructure:"cookie_secure"`
	PasswordHasher       string `mapstructure:"password_hasher"        validate:"required,oneof=argon2id bcrypt"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}
