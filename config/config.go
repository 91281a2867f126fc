package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables. It is built once in the CLI entry points and passed down
// explicitly; nothing reads process-wide state after Load returns.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Input CSVs. RawListingPaths may name several scraped source files;
	// they are concatenated by the merger.
	RawListingPaths []string
	ReferencePath   string
	UsedYearlyPath  string
	AllYearlyPath   string
	FAQPaths        []string

	CleanOutputPath string
	ServerAddr      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "usedcar"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "usedcar123"),
		PostgresDB:       getEnv("POSTGRES_DB", "used_car_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RawListingPaths: getEnvList("RAW_LISTING_CSVS", "./data/kcar_cars.csv"),
		ReferencePath:   getEnv("REFERENCE_CSV", "./data/car_name.csv"),
		UsedYearlyPath:  getEnv("USED_YEARLY_CSV", ""),
		AllYearlyPath:   getEnv("ALL_YEARLY_CSV", ""),
		FAQPaths:        getEnvList("FAQ_CSVS", ""),

		CleanOutputPath: getEnv("CLEAN_OUTPUT_PATH", "./output/merged_clean.csv"),
		ServerAddr:      getEnv("SERVER_ADDRESS", ":8080"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvList splits a comma-separated env var into trimmed, non-empty paths.
func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
