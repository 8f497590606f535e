package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Storage and message-broker backend selectors.
const (
	StorageBackendGCS   = "gcs"
	StorageBackendMinio = "minio"

	MQBackendPubSub   = "pubsub"
	MQBackendRabbitMQ = "rabbitmq"
)

type Config struct {
	ServerPort     int
	LogLevel       string
	JWTSecret      string
	StorageBackend string
	MQBackend      string
	Database       DatabaseConfig
	GCS            GCSConfig
	Minio          MinioConfig
	PubSub         PubSubConfig
	RabbitMQ       RabbitMQConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type GCSConfig struct {
	ProjectID       string
	Bucket          string
	CredentialsFile string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "backend"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "backend_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	gcsConfig := GCSConfig{
		ProjectID:       getEnv("GCS_PROJECT_ID", ""),
		Bucket:          getEnv("GCS_BUCKET", ""),
		CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
	}

	minioConfig := MinioConfig{
		Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		SecretKey: getEnv("MINIO_SECRET_KEY", ""),
		Bucket:    getEnv("MINIO_BUCKET", "profile-pictures"),
		UseSSL:    getEnvBool("MINIO_USE_SSL", false),
	}

	pubsubConfig := PubSubConfig{
		ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
		CredentialsFile:    getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
	}

	rabbitConfig := RabbitMQConfig{
		URL:             getEnv("RABBITMQ_URL", ""),
		QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
		QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
		PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH_COUNT", 1),
	}

	return Config{
		ServerPort:     getEnvInt("SERVER_PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		JWTSecret:      getEnv("ACCESS_TOKEN_SECRET", ""),
		StorageBackend: getEnv("STORAGE_BACKEND", StorageBackendGCS),
		MQBackend:      getEnv("MQ_BACKEND", MQBackendPubSub),
		Database:       dbConfig,
		GCS:            gcsConfig,
		Minio:          minioConfig,
		PubSub:         pubsubConfig,
		RabbitMQ:       rabbitConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return valueStr == "true" || valueStr == "1"
	}
	return defaultValue
}
