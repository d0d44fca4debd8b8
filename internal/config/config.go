package config

import (
	"os"
	"strconv"
	"strings"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type Config struct {
	Port              string
	Environment       string
	SupabaseURL       string
	SupabaseKey       string // service role key, used by the admin client only
	SupabaseDBURL     string
	SupabaseJWKSURL   string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	SupabaseJWTSecret string // HS256 secret for projects without asymmetric keys
	CORSOrigins       string
	TablePrefix       string
	// Storage
	StoreDriver string
	SQLitePath  string
	// Comments
	OrphanPolicy           string // "drop" or "promote"
	TombstoneSweepSchedule string // cron spec; empty disables the sweeper
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	// Construct JWKS URL from Supabase URL
	jwksURL := ""
	if supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		Environment:            env,
		SupabaseURL:            supabaseURL,
		SupabaseKey:            getEnv("SUPABASE_KEY", ""),
		SupabaseDBURL:          getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL:        jwksURL,
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		CORSOrigins:            getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:            tablePrefix,
		StoreDriver:            getStoreDriver(),
		SQLitePath:             getEnv("SQLITE_PATH", "launchit.db"),
		OrphanPolicy:           getEnv("ORPHAN_POLICY", "drop"),
		TombstoneSweepSchedule: os.Getenv("TOMBSTONE_SWEEP_SCHEDULE"),
		LogDir:                 os.Getenv("LOG_DIR"),
		LogMaxFiles:            getEnvInt("LOG_MAX_FILES", 10),
	}
}

// getStoreDriver picks sqlite when no database URL is configured
func getStoreDriver() string {
	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		return strings.ToLower(driver)
	}
	if os.Getenv("SUPABASE_DB_URL") == "" {
		return StoreDriverSQLite
	}
	return StoreDriverPostgres
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return ""
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
