package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"matchmaking_server/models"

	"github.com/joho/godotenv"
)

// Profile pool backends
const (
	PoolBackendMongo  = "mongo"
	PoolBackendDynamo = "dynamo"
)

// Config holds the service settings read from the environment.
type Config struct {
	Port           string
	AllowedOrigins []string

	AWSRegion      string
	SlotsTable     string
	UsersTable     string
	UsersAuthIndex string
	S3BucketName   string
	CDNBaseURL     string
	ImageURLTTL    time.Duration

	PoolBackend        string
	MongoURI           string
	MongoDatabase      string
	ProfilesCollection string
	PoolScanLimit      int

	JWTSecret string

	RefillTimeout       time.Duration
	RefillRatePerMinute int
	SyncConcurrency     int
}

// LoadConfig loads variables from a .env file if present, then the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system environment variables")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		AWSRegion:      getEnv("AWS_REGION", ""),
		SlotsTable:     getEnv("SLOTS_TABLE", models.MatchSlotsTable),
		UsersTable:     getEnv("USERS_TABLE", models.UserProfilesTable),
		UsersAuthIndex: getEnv("USERS_AUTH_INDEX", models.UserAuthIndex),
		S3BucketName:   getEnv("S3_BUCKET_NAME", ""),
		CDNBaseURL:     strings.TrimRight(getEnv("CDN_BASE_URL", ""), "/"),
		ImageURLTTL:    getDuration("IMAGE_URL_TTL", 5*time.Minute),

		PoolBackend:        getEnv("PROFILE_POOL_BACKEND", PoolBackendMongo),
		MongoURI:           getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:      getEnv("MONGODB_DATABASE", "matchmaking"),
		ProfilesCollection: getEnv("PROFILES_COLLECTION", "profiles"),
		PoolScanLimit:      getInt("POOL_SCAN_LIMIT", 1000),

		JWTSecret: getEnv("JWT_SECRET", ""),

		RefillTimeout:       getDuration("REFILL_TIMEOUT", 10*time.Second),
		RefillRatePerMinute: getInt("REFILL_RATE_PER_MINUTE", 6),
		SyncConcurrency:     getInt("SYNC_CONCURRENCY", 8),
	}
}

// Validate reports settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.PoolBackend != PoolBackendMongo && c.PoolBackend != PoolBackendDynamo {
		errs = append(errs, errors.New("PROFILE_POOL_BACKEND must be mongo or dynamo"))
	}
	if c.RefillTimeout <= 0 {
		errs = append(errs, errors.New("REFILL_TIMEOUT must be positive"))
	}
	if c.ImageURLTTL <= 0 {
		errs = append(errs, errors.New("IMAGE_URL_TTL must be positive"))
	}
	if c.PoolScanLimit <= 0 {
		errs = append(errs, errors.New("POOL_SCAN_LIMIT must be positive"))
	}
	if c.SyncConcurrency <= 0 {
		errs = append(errs, errors.New("SYNC_CONCURRENCY must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
