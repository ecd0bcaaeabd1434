package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nicholasjackson/env"
)

// Storage drivers
const (
	DriverFile  = "file"
	DriverMongo = "mongo"
)

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false,
		":8080", "Bind address for the server")
	logLevel = env.String("LOG_LEVEL", false,
		"debug", "Log output level for the server [trace, debug, info, warn, error]")
	storageDriver = env.String("STORAGE_DRIVER", false,
		DriverFile, "Storage backend [file, mongo]")
	dataDir = env.String("DATA_DIR", false,
		"./data", "Directory holding products.json and carts.json")
	mongoURI = env.String("MONGO_URI", false,
		"mongodb://localhost:27017", "MongoDB connection string")
	mongoDatabase = env.String("MONGO_DATABASE", false,
		"ecommerce", "MongoDB database name")
	redisAddress = env.String("REDIS_ADDRESS", false,
		"", "Redis address, enables the cross-instance broadcast relay")
	redisChannel = env.String("REDIS_CHANNEL", false,
		"catalog:changed", "Redis channel for the broadcast relay")
	kafkaBrokers = env.String("KAFKA_BROKERS", false,
		"", "Comma separated Kafka brokers, enables catalog event publishing")
	kafkaTopic = env.String("KAFKA_TOPIC", false,
		"product_events", "Kafka topic for catalog events")
	thumbnailDir = env.String("THUMBNAIL_DIR", false,
		"./thumbnails", "Thumbnail storage root")
	thumbnailMaxBytes = env.Int("THUMBNAIL_MAX_BYTES", false,
		5*1024*1024, "Maximum thumbnail upload size in bytes")
	allowedOrigins = env.String("ALLOWED_ORIGINS", false,
		"*", "Comma separated CORS origins")
)

// Config is the resolved server configuration
type Config struct {
	BindAddress       string
	LogLevel          string
	StorageDriver     string
	DataDir           string
	MongoURI          string
	MongoDatabase     string
	RedisAddress      string
	RedisChannel      string
	KafkaBrokers      []string
	KafkaTopic        string
	ThumbnailDir      string
	ThumbnailMaxBytes int64
	AllowedOrigins    []string
}

// Load reads an optional .env file from the working directory, then the
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}

	if err := env.Parse(); err != nil {
		return nil, err
	}

	cfg := &Config{
		BindAddress:       *bindAddress,
		LogLevel:          *logLevel,
		StorageDriver:     strings.ToLower(strings.TrimSpace(*storageDriver)),
		DataDir:           *dataDir,
		MongoURI:          *mongoURI,
		MongoDatabase:     *mongoDatabase,
		RedisAddress:      strings.TrimSpace(*redisAddress),
		RedisChannel:      *redisChannel,
		KafkaBrokers:      Split(*kafkaBrokers),
		KafkaTopic:        *kafkaTopic,
		ThumbnailDir:      *thumbnailDir,
		ThumbnailMaxBytes: int64(*thumbnailMaxBytes),
		AllowedOrigins:    Split(*allowedOrigins),
	}

	return cfg, cfg.Validate()
}

// Validate checks the values that have a closed set of options
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverFile, DriverMongo:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q, expected %s or %s", c.StorageDriver, DriverFile, DriverMongo)
	}

	if c.ThumbnailMaxBytes <= 0 {
		return fmt.Errorf("THUMBNAIL_MAX_BYTES must be positive, got %d", c.ThumbnailMaxBytes)
	}
	return nil
}

// Split turns a comma separated list into its non-empty, trimmed items
func Split(list string) []string {
	items := []string{}
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
