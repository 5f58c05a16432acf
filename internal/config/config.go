package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting broker lists

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string   // Application port
	DBDriver        string   // Database driver: mysql or postgres
	DBUser          string   // Database user
	DBPassword      string   // Database password
	DBHost          string   // Database host
	DBPort          string   // Database port
	DBName          string   // Database name
	JWTSecret       string   // JWT secret key
	TokenTTLMinutes int      // Access token lifetime in minutes
	WebhookSecret   string   // Shared secret of the payment originator
	RedisAddr       string   // Redis server address
	RedisPass       string   // Redis password
	RedisDB         int      // Redis database number
	KafkaBrokers    []string // Kafka brokers, empty disables event publishing
	KafkaTopic      string   // Topic for completed payments
	IsProd          bool     // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	tokenTTL, err := strconv.Atoi(os.Getenv("TOKEN_TTL_MINUTES"))
	if err != nil || tokenTTL <= 0 {
		tokenTTL = 100 // Default token lifetime
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	webhookSecret := os.Getenv("WEBHOOK_SECRET")
	if webhookSecret == "" {
		webhookSecret = jwtSecret // One key signs both unless split explicitly
	}
	return &Config{
		AppPort:         getEnv("APP_PORT", "8000"),                    // Application port
		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", "mysql")), // Database driver
		DBUser:          os.Getenv("DB_USER"),                          // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),                      // Database password
		DBHost:          os.Getenv("DB_HOST"),                          // Database host
		DBPort:          os.Getenv("DB_PORT"),                          // Database port
		DBName:          os.Getenv("DB_NAME"),                          // Database name
		JWTSecret:       jwtSecret,                                     // JWT secret key
		TokenTTLMinutes: tokenTTL,                                      // Token lifetime
		WebhookSecret:   webhookSecret,                                 // Webhook signing secret
		RedisAddr:       os.Getenv("REDIS_ADDR"),                       // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                       // Redis password
		RedisDB:         redisDB,                                       // Redis database number
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),         // Kafka brokers
		KafkaTopic:      getEnv("KAFKA_TOPIC", "payment_completed"),    // Kafka topic
		IsProd:          os.Getenv("IS_PROD") == "true",                // Is production environment
	}
}

// DSN renders the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword +
			" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable"
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList turns "a, b,,c" into [a b c]
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
