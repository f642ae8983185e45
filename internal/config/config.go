package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	RabbitMQ  RabbitMQConfig
	Redis     RedisConfig
	Engine    EngineConfig
	Providers ProviderConfig
	Env       string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RabbitMQConfig holds RabbitMQ configuration
type RabbitMQConfig struct {
	Host     string
	Port     string
	User     string
	Password string
}

// RedisConfig holds the template cache configuration. An empty Addr
// disables caching.
type RedisConfig struct {
	Addr        string
	TemplateTTL time.Duration
}

// EngineConfig holds batch scheduler knobs
type EngineConfig struct {
	BatchSize    int
	Workers      int
	SendTimeout  time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
	ClaimTTL     time.Duration
	// Interval is a cron spec driving repeated passes in cmd/engine
	Interval string
}

// ProviderConfig selects and configures the channel providers
type ProviderConfig struct {
	// Mode is "simulated" or "live"
	Mode            string
	SimulatedRate   float64
	SendGridAPIKey  string
	EmailFromName   string
	EmailFromAddr   string
	EmailSubject    string
	SMSGatewayURL   string
	SMSGatewayKey   string
	VoiceGatewayURL string
	VoiceGatewayKey string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "outreach"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "outreach_db"),
		},
		RabbitMQ: RabbitMQConfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
			User:     getEnv("RABBITMQ_DEFAULT_USER", "guest"),
			Password: getEnv("RABBITMQ_DEFAULT_PASS", "guest"),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", ""),
			TemplateTTL: time.Duration(getEnvAsInt("REDIS_TEMPLATE_TTL_SECONDS", 300)) * time.Second,
		},
		Engine: EngineConfig{
			BatchSize:    getEnvAsInt("ENGINE_BATCH_SIZE", 50),
			Workers:      getEnvAsInt("ENGINE_WORKERS", 4),
			SendTimeout:  time.Duration(getEnvAsInt("ENGINE_SEND_TIMEOUT_SECONDS", 10)) * time.Second,
			MaxAttempts:  getEnvAsInt("ENGINE_MAX_ATTEMPTS", 3),
			RetryBackoff: time.Duration(getEnvAsInt("ENGINE_RETRY_BACKOFF_MINUTES", 15)) * time.Minute,
			ClaimTTL:     time.Duration(getEnvAsInt("ENGINE_CLAIM_TTL_MINUTES", 10)) * time.Minute,
			Interval:     getEnv("ENGINE_INTERVAL", "@every 1m"),
		},
		Providers: ProviderConfig{
			Mode:            getEnv("PROVIDER_MODE", "simulated"),
			SimulatedRate:   getEnvAsFloat("PROVIDER_SIMULATED_RATE", 0.95),
			SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
			EmailFromName:   getEnv("EMAIL_FROM_NAME", "Outreach"),
			EmailFromAddr:   getEnv("EMAIL_FROM_ADDR", "no-reply@example.com"),
			EmailSubject:    getEnv("EMAIL_SUBJECT", "A message from your contact"),
			SMSGatewayURL:   getEnv("SMS_GATEWAY_URL", ""),
			SMSGatewayKey:   getEnv("SMS_GATEWAY_KEY", ""),
			VoiceGatewayURL: getEnv("VOICE_GATEWAY_URL", ""),
			VoiceGatewayKey: getEnv("VOICE_GATEWAY_KEY", ""),
		},
		Env: getEnv("ENV", "development"),
	}

	// Validate required fields
	if config.Database.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if config.Providers.Mode != "simulated" && config.Providers.Mode != "live" {
		return nil, fmt.Errorf("PROVIDER_MODE must be 'simulated' or 'live'")
	}
	if config.Providers.Mode == "live" && config.Providers.SendGridAPIKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is required in live mode")
	}

	return config, nil
}

// GetDatabaseDSN returns PostgreSQL connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// GetRabbitMQURL returns RabbitMQ connection URL
func (c *Config) GetRabbitMQURL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		c.RabbitMQ.User,
		c.RabbitMQ.Password,
		c.RabbitMQ.Host,
		c.RabbitMQ.Port,
	)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// getEnv gets environment variable or returns default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer or returns default
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets environment variable as float or returns default
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
