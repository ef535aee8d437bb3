package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendBolt   = "bolt"
	BackendSQL    = "sql"
	BackendMemory = "memory"
)

// Config holds application configuration
type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Ledger
	DefaultNamespace string
	CommitTimeout    time.Duration

	// Storage
	StorageBackend string
	BoltPath       string

	// Database (STORAGE_BACKEND=sql)
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Change notifications
	AMQPURL      string
	AMQPExchange string
	InstanceID   string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	hostname, _ := os.Hostname()

	// Get values from environment variables with defaults
	config := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		DefaultNamespace: getEnv("DEFAULT_NAMESPACE", "default"),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendBolt),
		BoltPath:       getEnv("BOLT_PATH", "expensert.db"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "expensert.sqlite"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "expensert"),
		DBPassword: getEnv("DB_PASSWORD", "expensert"),
		DBName:     getEnv("DB_NAME", "expensert"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ledger.changes"),
		InstanceID:   getEnv("INSTANCE_ID", hostname),
	}

	// Parse commit timeout
	timeoutStr := getEnv("COMMIT_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		log.Printf("Warning: invalid COMMIT_TIMEOUT value '%s', falling back to 5s\n", timeoutStr)
		timeout = 5 * time.Second
	}
	config.CommitTimeout = timeout

	switch config.StorageBackend {
	case BackendBolt, BackendSQL, BackendMemory:
	default:
		log.Printf("Warning: unknown STORAGE_BACKEND '%s', falling back to %s\n", config.StorageBackend, BackendBolt)
		config.StorageBackend = BackendBolt
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
