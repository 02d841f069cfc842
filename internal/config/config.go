// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Data        DataConfig
	Pipeline    PipelineConfig
	Trends      TrendsConfig
	Reddit      RedditConfig
	Blogs       BlogsConfig
	Analysis    AnalysisConfig
	Slack       SlackConfig
	Email       EmailConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// DSN builds the connection string for the pgx pool.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsSubject  string
}

// DataConfig holds the on-disk data layout and the history backend choice.
type DataConfig struct {
	Dir            string
	HistoryBackend string // jsonl or postgres
}

// RawRecordsPath is the append-only raw signal log.
func (c DataConfig) RawRecordsPath() string { return c.Dir + "/raw/docs.jsonl" }

// TrendsPath is the current scored trends export.
func (c DataConfig) TrendsPath() string { return c.Dir + "/processed/trends.json" }

// HistoryDir holds the weekly snapshot files.
func (c DataConfig) HistoryDir() string { return c.Dir + "/history" }

// PipelineConfig holds the run loop configuration
type PipelineConfig struct {
	Interval time.Duration
	RunOnce  bool
}

// TrendsConfig holds extraction and scoring configuration
type TrendsConfig struct {
	GoogleTrendsCountries []string
	ClusterThreshold      int
	TopN                  int
}

// RedditConfig holds the Reddit source configuration
type RedditConfig struct {
	Enabled    bool
	Subreddits []string
	Country    string
	Limit      int
	TimeFilter string
	UserAgent  string
}

// BlogsConfig holds the RSS source configuration
type BlogsConfig struct {
	Enabled      bool
	Feeds        []string // name=url pairs
	Country      string
	MaxAge       time.Duration
	DefaultScore float64
}

// AnalysisConfig holds the LLM analysis configuration
type AnalysisConfig struct {
	Enabled   bool
	APIKey    string
	Model     string
	MaxTokens int
	TopN      int
}

// SlackConfig holds the Slack digest configuration
type SlackConfig struct {
	WebhookURL string
}

// EmailConfig holds the SMTP digest configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "trendwatcher"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsSubject:  getEnv("NATS_EVENTS_SUBJECT", "trend.detected"),
		},
		Data: DataConfig{
			Dir:            getEnv("DATA_DIR", "data"),
			HistoryBackend: getEnv("HISTORY_BACKEND", "jsonl"),
		},
		Pipeline: PipelineConfig{
			Interval: getEnvAsDuration("PIPELINE_INTERVAL", 24*time.Hour),
		},
		Trends: TrendsConfig{
			GoogleTrendsCountries: getEnvAsSlice("TRENDS_COUNTRIES", []string{"US", "GB", "KR", "JP", "NL", "DE", "FR"}),
			ClusterThreshold:      getEnvAsInt("TRENDS_CLUSTER_THRESHOLD", 88),
			TopN:                  getEnvAsInt("TRENDS_TOP_N", 50),
		},
		Reddit: RedditConfig{
			Enabled:    getEnvAsBool("REDDIT_ENABLED", true),
			Subreddits: getEnvAsSlice("REDDIT_SUBREDDITS", []string{"food", "FoodPorn", "recipes", "Cooking", "fastfood"}),
			Country:    getEnv("REDDIT_COUNTRY", "US"),
			Limit:      getEnvAsInt("REDDIT_LIMIT", 50),
			TimeFilter: getEnv("REDDIT_TIME_FILTER", "week"),
			UserAgent:  getEnv("REDDIT_USER_AGENT", "trendwatcher/1.0"),
		},
		Blogs: BlogsConfig{
			Enabled:      getEnvAsBool("BLOGS_ENABLED", true),
			Feeds:        getEnvAsSlice("BLOG_FEEDS", nil),
			Country:      getEnv("BLOGS_COUNTRY", "US"),
			MaxAge:       getEnvAsDuration("BLOGS_MAX_AGE", 30*24*time.Hour),
			DefaultScore: getEnvAsFloat("BLOGS_DEFAULT_SCORE", 100),
		},
		Analysis: AnalysisConfig{
			Enabled:   getEnvAsBool("ANALYSIS_ENABLED", false),
			APIKey:    getEnv("ANTHROPIC_API_KEY", ""),
			Model:     getEnv("ANALYSIS_MODEL", "claude-sonnet-4-20250514"),
			MaxTokens: getEnvAsInt("ANALYSIS_MAX_TOKENS", 1024),
			TopN:      getEnvAsInt("ANALYSIS_TOP_N", 10),
		},
		Slack: SlackConfig{
			WebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
		},
		Email: EmailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", ""),
			To:       getEnvAsSlice("EMAIL_TO", nil),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	switch config.Data.HistoryBackend {
	case "jsonl", "postgres":
	default:
		return fmt.Errorf("unknown history backend %q", config.Data.HistoryBackend)
	}
	if config.Analysis.Enabled && config.Analysis.APIKey == "" {
		return fmt.Errorf("analysis enabled but ANTHROPIC_API_KEY is not set")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
