package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	LogLevel  string
	LogFormat string

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// External feed credentials. Every feed degrades gracefully when
	// its credentials are absent.
	ZooplaAPIKey string
	AdzunaAppID  string
	AdzunaAppKey string
	ReedAPIKey   string

	// Base-rate handling.
	BaseRateURL      string
	BaseRateFallback float64
	BaseRateCacheTTL time.Duration

	// Scheduler.
	RateRefreshSpec      string
	SoldPriceRefreshSpec string
	WatchedAreas         []string

	LandRegistryURL string
	NestoriaURL     string
	ZooplaURL       string
	AdzunaURL       string
	ReedURL         string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		AppName:     getenv("APP_SERVICE", "homebuyer"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		DBType:     getenv("DATABASE_TYPE", "sqlite"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "homebuyer"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		ZooplaAPIKey: strings.TrimSpace(getenv("ZOOPLA_API_KEY", "")),
		AdzunaAppID:  strings.TrimSpace(getenv("ADZUNA_APP_ID", "")),
		AdzunaAppKey: strings.TrimSpace(getenv("ADZUNA_APP_KEY", "")),
		ReedAPIKey:   strings.TrimSpace(getenv("REED_API_KEY", "")),

		BaseRateURL:      getenv("BOE_BASE_RATE_URL", defaultBaseRateURL),
		BaseRateFallback: getenvFloat("BOE_BASE_RATE_FALLBACK", 4.50),
		BaseRateCacheTTL: getenvDuration("BOE_BASE_RATE_CACHE_TTL", 12*time.Hour),

		RateRefreshSpec:      getenv("RATE_REFRESH_SPEC", "@hourly"),
		SoldPriceRefreshSpec: getenv("SOLD_PRICE_REFRESH_SPEC", "@every 6h"),
		WatchedAreas:         splitList(getenv("WATCHED_AREAS", "")),

		LandRegistryURL: getenv("LAND_REGISTRY_URL", "https://landregistry.data.gov.uk/data/ppi/transaction-record.json"),
		NestoriaURL:     getenv("NESTORIA_URL", "https://api.nestoria.co.uk/api"),
		ZooplaURL:       getenv("ZOOPLA_URL", "https://api.zoopla.co.uk/api/v1"),
		AdzunaURL:       getenv("ADZUNA_URL", "https://api.adzuna.com/v1/api/jobs/gb"),
		ReedURL:         getenv("REED_URL", "https://www.reed.co.uk/api/1.0/search"),
	}
}

const defaultBaseRateURL = "https://www.bankofengland.co.uk/boeapps/database/fromshowcolumns.asp" +
	"?Travel=NIxAZxSUx&FromSeries=1&ToSeries=50&DAT=RNG" +
	"&VFD=2024-01-01&VTD=2026-12-31" +
	"&SeriesCodes=IUDBEDR&UsingCodes=Y&CSVF=TN"

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewLendingConfigHolder),
)
