package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	Portfolio PortfolioConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// KafkaConfig holds Kafka configuration. Publishing and mirroring are
// enabled separately.
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	Topic          string
	ConsumeEnabled bool
	// GroupID is the mirror's consumer group. It must stay the same across
	// restarts so the mirror resumes from its committed offset, and differ
	// between instances that should each see every event.
	GroupID        string
}

// RedisConfig holds Redis pub/sub configuration
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Channel  string
}

// PortfolioConfig holds reporting session configuration
type PortfolioConfig struct {
	AgentID   string
	SeedFile  string
	SessionID string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Kafka: KafkaConfig{
			Enabled:        getEnvBool("KAFKA_ENABLED", false),
			Brokers:        splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:          getEnv("KAFKA_TOPIC", "portfolio-positions"),
			ConsumeEnabled: getEnvBool("KAFKA_CONSUME_ENABLED", false),
			GroupID:        getEnv("KAFKA_GROUP_ID", "portfolio-mirror"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_CHANNEL", "portfolio:positions"),
		},
		Portfolio: PortfolioConfig{
			AgentID:   getEnv("PORTFOLIO_AGENT_ID", "Portfolio Reporting Agent"),
			SeedFile:  getEnv("PORTFOLIO_SEED_FILE", ""),
			SessionID: getEnv("PORTFOLIO_SESSION_ID", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", true),
		},
	}
}

// Addr returns the HTTP listen address
func (s *ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
