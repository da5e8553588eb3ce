package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

type Config struct {
	Port        string
	Environment string
	// Storage Configuration
	StorageDriver string
	DataDir       string
	SQLitePath    string
	ExportPath    string
	MaxUploadMB   int
	// Cache Configuration
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int
	// Kafka Configuration
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaTopicItems   string
	KafkaTopicImports string
	KafkaClientID     string
	KafkaAcks         string
	KafkaRetries      int
	// Auth Configuration
	AuthEnabled bool
	JWTSecret   string
	AuthUsers   map[string]AuthUser
}

// AuthUser is one login configured through AUTH_USERS. An empty Role means
// the default write role.
type AuthUser struct {
	Password string
	Role     string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		// Storage Configuration
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageJSON)),
		DataDir:       getEnv("DATA_DIR", "data"),
		SQLitePath:    getEnv("SQLITE_PATH", "data/inventory.db"),
		ExportPath:    getEnv("EXPORT_PATH", "exports/inventory-export.csv"),
		MaxUploadMB:   getEnvAsInt("MAX_UPLOAD_MB", 10),
		// Cache Configuration
		RedisHost:       getEnv("REDIS_HOST", ""),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		CacheTTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 30),
		// Kafka Configuration
		KafkaEnabled:      getEnvAsBool("KAFKA_ENABLED", false),
		KafkaBrokers:      splitList(getEnv("KAFKA_BROKERS", "localhost:9093")),
		KafkaTopicItems:   getEnv("KAFKA_TOPIC_ITEMS", "inventory.items"),
		KafkaTopicImports: getEnv("KAFKA_TOPIC_IMPORTS", "inventory.imports"),
		KafkaClientID:     getEnv("KAFKA_CLIENT_ID", "inventory-service"),
		KafkaAcks:         getEnv("KAFKA_ACKS", "all"),
		KafkaRetries:      getEnvAsInt("KAFKA_RETRIES", 3),
		// Auth Configuration
		AuthEnabled: getEnvAsBool("AUTH_ENABLED", false),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production-min-32-chars"),
		AuthUsers:   parseUsers(getEnv("AUTH_USERS", "admin:admin123")),
	}
}

// parseUsers reads "user:password[:role]" entries separated by commas
func parseUsers(value string) map[string]AuthUser {
	users := make(map[string]AuthUser)
	for _, entry := range splitList(value) {
		name, rest, ok := strings.Cut(entry, ":")
		if !ok || name == "" {
			continue
		}
		password, role, _ := strings.Cut(rest, ":")
		users[name] = AuthUser{Password: password, Role: role}
	}
	return users
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
