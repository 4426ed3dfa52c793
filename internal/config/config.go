package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DatabaseDriverPostgres  = "postgres"
	DatabaseDriverFirestore = "firestore"

	AuthProviderFirebase = "firebase"
	AuthProviderLocal    = "local"

	EmailProviderSendGrid = "sendgrid"
	EmailProviderResend   = "resend"
	EmailProviderNoop     = "noop"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Firebase   FirebaseConfig   `yaml:"firebase"`
	Auth       AuthConfig       `yaml:"auth"`
	Email      EmailConfig      `yaml:"email"`
	Payment    PaymentConfig    `yaml:"payment"`
	Membership MembershipConfig `yaml:"membership"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Redis      RedisConfig      `yaml:"redis"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// DatabaseConfig selects the store. Host/Port/User/... apply to postgres only.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "postgres" or "firestore"
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// FirebaseConfig is shared by the Firestore store and the Firebase authenticator
type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// AuthConfig selects how bearer tokens are verified
type AuthConfig struct {
	Provider  string         `yaml:"provider"`   // "firebase" or "local"
	RoleClaim string         `yaml:"role_claim"` // Firebase custom claim holding the role
	JWT       JWTConfig      `yaml:"jwt"`
	Accounts  []LocalAccount `yaml:"accounts"`
}

// JWTConfig contains settings for locally issued tokens
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LocalAccount is a statically configured admin login for the local provider
type LocalAccount struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
	Role         string `yaml:"role"`
}

// EmailConfig contains outbound mail settings
type EmailConfig struct {
	Provider        string   `yaml:"provider"` // "sendgrid", "resend" or "noop"
	SendGridAPIKey  string   `yaml:"sendgrid_api_key"`
	ResendAPIKey    string   `yaml:"resend_api_key"`
	From            string   `yaml:"from"`
	FromName        string   `yaml:"from_name"`
	AdminRecipients []string `yaml:"admin_recipients"`
	SiteName        string   `yaml:"site_name"`
	SiteURL         string   `yaml:"site_url"`
	BatchSize       int      `yaml:"batch_size"`
	MaxAttempts     int      `yaml:"max_attempts"`
	RetryBaseSecs   int      `yaml:"retry_base_seconds"`
	RetryMaxSecs    int      `yaml:"retry_max_seconds"`
}

// PaymentConfig configures the hosted checkout provider. Disabled means "submit now, pay later".
type PaymentConfig struct {
	Enabled      bool     `yaml:"enabled"`
	BaseURL      string   `yaml:"base_url"`
	TokenURL     string   `yaml:"token_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
	SuccessURL   string   `yaml:"success_url"`
	CancelURL    string   `yaml:"cancel_url"`
	TimeoutSecs  int      `yaml:"timeout_seconds"`
}

// MembershipConfig contains lifecycle policy settings
type MembershipConfig struct {
	RequirePaymentForApproval bool   `yaml:"require_payment_for_approval"`
	ExpiryReminderDays        []int  `yaml:"expiry_reminder_days"`
	SeedDefaultPlans          bool   `yaml:"seed_default_plans"`
	DefaultCurrency           string `yaml:"default_currency"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireMemberships   string `yaml:"expire_memberships"`
	DeliverMail         string `yaml:"deliver_mail"`
	SendExpiryReminders string `yaml:"send_expiry_reminders"`
	LockTTLSeconds      int    `yaml:"lock_ttl_seconds"`
}

// RedisConfig is optional; when Addr is set the cron runner takes a lock per job
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse builds a Config from YAML bytes, applies environment overrides and validates it
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_DRIVER"); val != "" {
		c.Database.Driver = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Firebase
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		c.Firebase.ProjectID = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Firebase.CredentialsFile = val
	}

	// Auth
	if val := os.Getenv("AUTH_PROVIDER"); val != "" {
		c.Auth.Provider = val
	}
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Auth.JWT.Secret = val
	}

	// Email
	if val := os.Getenv("EMAIL_PROVIDER"); val != "" {
		c.Email.Provider = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("RESEND_API_KEY"); val != "" {
		c.Email.ResendAPIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}
	if val := os.Getenv("EMAIL_ADMIN_RECIPIENTS"); val != "" {
		c.Email.AdminRecipients = splitList(val)
	}

	// Payment
	if val := os.Getenv("PAYMENT_BASE_URL"); val != "" {
		c.Payment.BaseURL = val
	}
	if val := os.Getenv("PAYMENT_CLIENT_ID"); val != "" {
		c.Payment.ClientID = val
	}
	if val := os.Getenv("PAYMENT_CLIENT_SECRET"); val != "" {
		c.Payment.ClientSecret = val
	}

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 30
	}

	// Database validation
	if c.Database.Driver == "" {
		c.Database.Driver = DatabaseDriverPostgres
	}
	switch c.Database.Driver {
	case DatabaseDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	case DatabaseDriverFirestore:
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("firebase project id is required for the firestore driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	// Auth validation
	if c.Auth.Provider == "" {
		c.Auth.Provider = AuthProviderLocal
	}
	if c.Auth.RoleClaim == "" {
		c.Auth.RoleClaim = "role"
	}
	switch c.Auth.Provider {
	case AuthProviderFirebase:
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("firebase project id is required for the firebase auth provider")
		}
	case AuthProviderLocal:
		if c.Auth.JWT.Secret == "" {
			return fmt.Errorf("JWT secret is required")
		}
		if len(c.Auth.JWT.Secret) < 32 {
			return fmt.Errorf("JWT secret must be at least 32 characters")
		}
		if c.Auth.JWT.AccessTokenExpiry == 0 {
			c.Auth.JWT.AccessTokenExpiry = 60
		}
		for _, acc := range c.Auth.Accounts {
			if acc.Email == "" || acc.PasswordHash == "" {
				return fmt.Errorf("local accounts need an email and a password hash")
			}
		}
	default:
		return fmt.Errorf("unsupported auth provider: %s", c.Auth.Provider)
	}

	// Email validation
	if c.Email.Provider == "" {
		c.Email.Provider = EmailProviderNoop
	}
	switch c.Email.Provider {
	case EmailProviderSendGrid:
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key is required")
		}
	case EmailProviderResend:
		if c.Email.ResendAPIKey == "" {
			return fmt.Errorf("resend api key is required")
		}
	case EmailProviderNoop:
	default:
		return fmt.Errorf("unsupported email provider: %s", c.Email.Provider)
	}
	if c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}
	if c.Email.SiteName == "" {
		c.Email.SiteName = "The Society"
	}
	if c.Email.BatchSize == 0 {
		c.Email.BatchSize = 50
	}
	if c.Email.MaxAttempts == 0 {
		c.Email.MaxAttempts = 5
	}
	if c.Email.RetryBaseSecs == 0 {
		c.Email.RetryBaseSecs = 60
	}
	if c.Email.RetryMaxSecs == 0 {
		c.Email.RetryMaxSecs = 6 * 60 * 60
	}

	// Payment validation
	if c.Payment.Enabled {
		if c.Payment.BaseURL == "" {
			return fmt.Errorf("payment base url is required when payments are enabled")
		}
		if c.Payment.TokenURL == "" {
			c.Payment.TokenURL = strings.TrimRight(c.Payment.BaseURL, "/") + "/oauth2/token"
		}
	}
	if c.Payment.TimeoutSecs == 0 {
		c.Payment.TimeoutSecs = 10
	}

	// Membership defaults
	if len(c.Membership.ExpiryReminderDays) == 0 {
		c.Membership.ExpiryReminderDays = []int{30, 7, 1}
	}
	for _, d := range c.Membership.ExpiryReminderDays {
		if d <= 0 {
			return fmt.Errorf("expiry reminder days must be positive: %d", d)
		}
	}
	if c.Membership.DefaultCurrency == "" {
		c.Membership.DefaultCurrency = "USD"
	}

	// Metrics defaults
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	// Scheduler defaults
	if c.Scheduler.ExpireMemberships == "" {
		c.Scheduler.ExpireMemberships = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.DeliverMail == "" {
		c.Scheduler.DeliverMail = "0 */2 * * * *" // every 2 minutes
	}
	if c.Scheduler.SendExpiryReminders == "" {
		c.Scheduler.SendExpiryReminders = "0 0 9 * * *" // 9 AM UTC
	}
	if c.Scheduler.LockTTLSeconds == 0 {
		c.Scheduler.LockTTLSeconds = 300
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

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
