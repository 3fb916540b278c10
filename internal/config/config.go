package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Cart      CartConfig      `yaml:"cart"`
	Pricing   PricingConfig   `yaml:"pricing"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	AI        AIConfig        `yaml:"ai"`
	JWT       JWTConfig       `yaml:"jwt"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// HealthPort serves the gRPC health service; 0 disables it.
	HealthPort      int `yaml:"health_port"`
	ShutdownSeconds int `yaml:"shutdown_timeout_seconds"`
	// RunScheduler starts the cron scheduler inside the API process.
	RunScheduler bool `yaml:"run_scheduler"`
	// WebsocketOrigins lists browser origins allowed on /api/v1/ws. Empty
	// allows any origin.
	WebsocketOrigins []string `yaml:"websocket_origins"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	// AutoMigrate applies the embedded schema at startup.
	AutoMigrate bool `yaml:"auto_migrate"`
}

// RedisConfig is used by the listing cache and the redis cart store.
// An empty Addr disables redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// ListingTTLSeconds is how long cached listings live.
	ListingTTLSeconds int `yaml:"listing_ttl_seconds"`
}

// CartConfig selects the cart store.
type CartConfig struct {
	Store      string `yaml:"store"` // "memory" or "redis"
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// PricingConfig holds the configurable parts of the fee schedule.
type PricingConfig struct {
	DeliveryFeeCents int64 `yaml:"delivery_fee_cents"`
}

// SendGridConfig contains email service settings. An empty APIKey logs
// emails instead of sending them.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	// Emails are sent by QueueWorkers background workers.
	QueueWorkers int `yaml:"queue_workers"`
	QueueSize    int `yaml:"queue_size"`
	MaxRetries   int `yaml:"max_retries"`
}

// FirebaseConfig enables push notifications when CredentialsFile is set.
type FirebaseConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

// AIConfig configures the support assistant.
type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key"`
	Model        string `yaml:"model"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	Type        string `yaml:"type"`       // "local"
	UploadDir   string `yaml:"upload_dir"` // For local storage
	BaseURL     string `yaml:"base_url"`   // Server base URL for image URLs
	MaxFileSize int64  `yaml:"max_file_size_mb"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings (with seconds field)
type SchedulerConfig struct {
	MarkOverdueRentals  string `yaml:"mark_overdue_rentals"`
	SendReturnReminders string `yaml:"send_return_reminders"`
}

// Load reads configuration from a YAML file. A .env file next to the
// working directory is loaded first so its values can override the YAML.
func Load(configPath string) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		fmt.Sscanf(val, "%d", dst)
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)

	// Redis
	envString("REDIS_ADDR", &c.Redis.Addr)
	envString("REDIS_PASSWORD", &c.Redis.Password)
	envString("CART_STORE", &c.Cart.Store)

	// Pricing
	if val := os.Getenv("DELIVERY_FEE_CENTS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Pricing.DeliveryFeeCents)
	}

	// External services
	envString("SENDGRID_API_KEY", &c.SendGrid.APIKey)
	envString("SENDGRID_FROM_EMAIL", &c.SendGrid.FromEmail)
	envString("FIREBASE_CREDENTIALS_FILE", &c.Firebase.CredentialsFile)
	envString("GEMINI_API_KEY", &c.AI.GeminiAPIKey)

	// JWT
	envString("JWT_SECRET", &c.JWT.Secret)

	// Server
	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)

	// Storage
	envString("UPLOAD_DIR", &c.Storage.UploadDir)
	envString("STORAGE_BASE_URL", &c.Storage.BaseURL)

	// Log
	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HealthPort < 0 || c.Server.HealthPort > 65535 {
		return fmt.Errorf("invalid health port: %d", c.Server.HealthPort)
	}
	if c.Server.ShutdownSeconds <= 0 {
		c.Server.ShutdownSeconds = 10
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 15
	}
	if c.JWT.RefreshTokenExpiry <= 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * 60
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.Type != "local" {
		return fmt.Errorf("storage type %q not yet implemented", c.Storage.Type)
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.Storage.MaxFileSize <= 0 {
		c.Storage.MaxFileSize = 5
	}

	c.Cart.Store = strings.ToLower(c.Cart.Store)
	switch c.Cart.Store {
	case "":
		c.Cart.Store = "memory"
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis cart store requires redis.addr")
		}
	default:
		return fmt.Errorf("invalid cart store: %s", c.Cart.Store)
	}
	if c.Cart.TTLMinutes <= 0 {
		c.Cart.TTLMinutes = 24 * 60
	}
	if c.Redis.ListingTTLSeconds <= 0 {
		c.Redis.ListingTTLSeconds = 300
	}

	if c.Pricing.DeliveryFeeCents < 0 {
		return fmt.Errorf("delivery fee cannot be negative")
	}
	if c.Pricing.DeliveryFeeCents == 0 {
		c.Pricing.DeliveryFeeCents = 1500 // ₱15.00
	}

	if c.SendGrid.FromEmail == "" {
		c.SendGrid.FromEmail = "no-reply@hazel.ph"
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "HAZEL"
	}
	if c.SendGrid.QueueWorkers <= 0 {
		c.SendGrid.QueueWorkers = 2
	}
	if c.SendGrid.QueueSize <= 0 {
		c.SendGrid.QueueSize = 100
	}
	if c.SendGrid.MaxRetries < 0 {
		c.SendGrid.MaxRetries = 0
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-1.5-flash"
	}

	if c.Scheduler.MarkOverdueRentals == "" {
		c.Scheduler.MarkOverdueRentals = "0 5 0 * * *" // 00:05 UTC
	}
	if c.Scheduler.SendReturnReminders == "" {
		c.Scheduler.SendReturnReminders = "0 0 9 * * *" // 9 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHealthAddress returns the gRPC health listen address
func (c *Config) GetHealthAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HealthPort)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTokenExpiry) * time.Minute
}

func (c *Config) CartTTL() time.Duration {
	return time.Duration(c.Cart.TTLMinutes) * time.Minute
}

func (c *Config) ListingCacheTTL() time.Duration {
	return time.Duration(c.Redis.ListingTTLSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownSeconds) * time.Second
}
