package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Setting names read from the environment (or .env).
const (
	NotionToken      = "NOTION_TOKEN"
	FreshdeskAPIKey  = "FRESHDESK_API_KEY"
	FreshdeskDomain  = "FRESHDESK_DOMAIN"
	EngagementsDB    = "SUPPORT_ENGAGEMENTS_DB"
	TicketsDB        = "SUPPORT_TICKETS_DB"
	NotionParentPage = "NOTION_PARENT_PAGE_ID"
	AuthJWTSecret    = "AUTH_JWT_SECRET"
	PostgresDSN      = "POSTGRES_DSN"
	NotifyWebhookURL = "NOTIFY_WEBHOOK_URL"
)

const (
	defaultPerPage    = 100
	defaultLockTTLSec = 900
)

// Config aggregates runtime configuration for the tool.
type Config struct {
	App          AppConfig
	Notion       NotionConfig
	Freshdesk    FreshdeskConfig
	Schema       SchemaConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior for the serve command.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// NotionConfig holds workspace credentials and database ids.
type NotionConfig struct {
	Token         string
	EngagementsDB string
	TicketsDB     string
	ParentPageID  string
	APIVersion    string
}

// FreshdeskConfig holds helpdesk credentials.
type FreshdeskConfig struct {
	APIKey         string
	Domain         string
	BaseURL        string
	PerPage        int
	TimeoutSeconds int
}

// SchemaConfig names the Notion properties the sync reads and writes.
type SchemaConfig struct {
	CustomerNameProperty      string
	CustomerFreshdeskProperty string
	TicketTitleProperty       string
	TicketCustomerProperty    string
}

// PostgresConfig holds DB connection values for run history.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values for the run lock.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	LockKey    string
	LockTTLSec int
}

// LoggerConfig configures logging behavior. An empty Encoding lets the
// command pick: console for interactive commands, json for serve.
type LoggerConfig struct {
	Level    string
	Encoding string
	File     string
}

// AuthConfig defines bearer token parameters for the sync trigger.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// NotificationConfig holds the run summary webhook.
type NotificationConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	domain := strings.TrimSpace(os.Getenv(FreshdeskDomain))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticketsync"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 0),
		},
		Notion: NotionConfig{
			Token:         strings.TrimSpace(os.Getenv(NotionToken)),
			EngagementsDB: strings.TrimSpace(os.Getenv(EngagementsDB)),
			TicketsDB:     strings.TrimSpace(os.Getenv(TicketsDB)),
			ParentPageID:  strings.TrimSpace(os.Getenv(NotionParentPage)),
			APIVersion:    getEnv("NOTION_API_VERSION", ""),
		},
		Freshdesk: FreshdeskConfig{
			APIKey:         strings.TrimSpace(os.Getenv(FreshdeskAPIKey)),
			Domain:         domain,
			BaseURL:        getEnv("FRESHDESK_BASE_URL", baseURLForDomain(domain)),
			PerPage:        getEnvAsInt("FRESHDESK_PER_PAGE", defaultPerPage),
			TimeoutSeconds: getEnvAsInt("FRESHDESK_TIMEOUT_SECONDS", 30),
		},
		Schema: SchemaConfig{
			CustomerNameProperty:      getEnv("CUSTOMER_NAME_PROPERTY", "Company"),
			CustomerFreshdeskProperty: getEnv("CUSTOMER_FRESHDESK_PROPERTY", "FD ID"),
			TicketTitleProperty:       getEnv("TICKET_TITLE_PROPERTY", "Ticket ID"),
			TicketCustomerProperty:    getEnv("TICKET_CUSTOMER_PROPERTY", "Customer"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv(PostgresDSN),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 0)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:       os.Getenv("REDIS_ADDR"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         redisDB,
			LockKey:    getEnv("REDIS_LOCK_KEY", "ticketsync:sync-lock"),
			LockTTLSec: getEnvAsInt("REDIS_LOCK_TTL_SECONDS", defaultLockTTLSec),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: os.Getenv("LOG_ENCODING"),
			File:     os.Getenv("LOG_FILE"),
		},
		Auth: AuthConfig{
			JWTSecret:             os.Getenv(AuthJWTSecret),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60*24),
		},
		Notification: NotificationConfig{
			WebhookURL: getEnv(NotifyWebhookURL, ""),
		},
	}

	return cfg, nil
}

// Missing returns the names, in the order given, whose values are empty.
func (c *Config) Missing(names ...string) []string {
	values := c.settings()
	var missing []string
	for _, name := range names {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Require returns a MissingSettingsError when any of names is unset.
func (c *Config) Require(names ...string) error {
	if missing := c.Missing(names...); len(missing) > 0 {
		return &MissingSettingsError{Names: missing}
	}
	return nil
}

func (c *Config) settings() map[string]string {
	return map[string]string{
		NotionToken:      c.Notion.Token,
		FreshdeskAPIKey:  c.Freshdesk.APIKey,
		FreshdeskDomain:  c.Freshdesk.Domain,
		EngagementsDB:    c.Notion.EngagementsDB,
		TicketsDB:        c.Notion.TicketsDB,
		NotionParentPage: c.Notion.ParentPageID,
		AuthJWTSecret:    c.Auth.JWTSecret,
		PostgresDSN:      c.Postgres.DSN,
		NotifyWebhookURL: c.Notification.WebhookURL,
	}
}

// MissingSettingsError lists required settings that were not provided.
type MissingSettingsError struct {
	Names []string
}

func (e *MissingSettingsError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Names, ", ")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the helpdesk HTTP timeout.
func (f FreshdeskConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// LockTTL returns how long a sync lock is held before it expires on its own.
func (r RedisConfig) LockTTL() time.Duration {
	if r.LockTTLSec <= 0 {
		return defaultLockTTLSec * time.Second
	}
	return time.Duration(r.LockTTLSec) * time.Second
}

func baseURLForDomain(domain string) string {
	if domain == "" {
		return ""
	}
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return strings.TrimRight(domain, "/")
	}
	return "https://" + strings.TrimRight(domain, "/")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
