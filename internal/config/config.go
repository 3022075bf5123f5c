// Package config loads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// ProjectID and Dataset locate the BigQuery dataset.
	ProjectID string
	Dataset   string

	// Bucket is the GCS bucket for data exports.
	Bucket string

	// GeminiModel overrides the default intent-extraction model.
	GeminiModel string

	// NotionToken and NotionDatabaseID configure the ledger sync. Both
	// empty means the sync binary refuses to start; the API server does
	// not read them.
	NotionToken      string
	NotionDatabaseID string

	// UseMemoryStore switches the API to the in-process store. Local
	// development only; nothing survives a restart.
	UseMemoryStore bool
}

// Load reads the configuration. A missing .env file is fine; real
// environment variables win over file entries.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		ProjectID:        getEnv("GCP_PROJECT_ID", ""),
		Dataset:          getEnv("BQ_DATASET", "financas"),
		Bucket:           getEnv("GCS_BUCKET", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", ""),
		NotionToken:      getEnv("NOTION_TOKEN", ""),
		NotionDatabaseID: getEnv("NOTION_DATABASE_ID", ""),
		UseMemoryStore:   getBoolEnv("USE_MEMORY_STORE", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
