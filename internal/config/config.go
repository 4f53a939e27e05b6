// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// SecretKeySize is the required byte length of the deletion secret.
const SecretKeySize = 32

// Config holds all runtime configuration for the service.
type Config struct {
	Port   string
	AppEnv string

	// Domain is the public base URL embedded in retrieval and deletion
	// links, e.g. "https://drop.example.com".
	Domain string

	// UploadAuthKey gates the upload endpoint. Anyone holding it may upload.
	UploadAuthKey string

	// DeletionSecret is the symmetric key for deletion tokens. Rotating it
	// invalidates every previously issued deletion link.
	DeletionSecret []byte

	// Storage backend: "local" (flat directory) or "s3" (any S3-compatible
	// provider via the MinIO client).
	StorageBackend string
	FileDir        string

	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),
		Domain: getEnv("DOMAIN", "http://localhost:8080"),

		UploadAuthKey: getEnv("UPLOAD_AUTH_KEY", "change_me_in_production"),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		FileDir:        getEnv("FILE_DIR", "./files"),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "drops"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",
	}

	cfg.DeletionSecret = loadSecret(cfg.IsProduction())

	return cfg
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// loadSecret decodes DELETION_SECRET (64 hex characters, 32 key bytes).
// In development a fixed throwaway key is used when the variable is unset;
// in production a missing or malformed secret is fatal.
func loadSecret(production bool) []byte {
	raw := os.Getenv("DELETION_SECRET")
	if raw == "" {
		if production {
			log.Fatal("DELETION_SECRET must be set in production")
		}
		log.Println("DELETION_SECRET not set, using development key")
		raw = "6465762d6f6e6c792d7365637265742d6465762d6f6e6c792d73656372657421"
	}

	key, err := hex.DecodeString(raw)
	if err != nil {
		log.Fatalf("DELETION_SECRET is not valid hex: %v", err)
	}
	if len(key) != SecretKeySize {
		log.Fatalf("DELETION_SECRET must decode to %d bytes, got %d", SecretKeySize, len(key))
	}
	return key
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
