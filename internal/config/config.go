package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"coop-reconciliation/internal/reconcile"
)

// AppConfig holds everything the commands need, loaded from the environment.
type AppConfig struct {
	LogLevel string
	HTTPAddr string

	// DataSource is "csv" or "sqlite".
	DataSource   string
	DataDir      string
	DatabasePath string

	ReportCacheTTL time.Duration

	MaturityTenure    int
	MaturityRate      decimal.Decimal
	OverdueAfterDays  int
	CriticalAfterDays int
	Allocation        reconcile.Allocation
}

// Load reads the environment, after a .env file in the working directory if one exists.
// Malformed values fall back to their defaults with a warning on log.
func Load(log logrus.FieldLogger) *AppConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("could not read .env file")
	}

	cfg := &AppConfig{
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DataSource:        strings.ToLower(getEnv("DATA_SOURCE", "csv")),
		DataDir:           getEnv("DATA_DIR", "./data"),
		DatabasePath:      getEnv("DATABASE_PATH", "./data/society.db"),
		ReportCacheTTL:    getEnvDuration(log, "REPORT_CACHE_TTL", 5*time.Minute),
		MaturityTenure:    getEnvInt(log, "MATURITY_TENURE", reconcile.DefaultMaturityTenure),
		MaturityRate:      getEnvDecimal(log, "MATURITY_RATE", reconcile.DefaultMaturityRate),
		OverdueAfterDays:  getEnvInt(log, "OVERDUE_AFTER_DAYS", reconcile.DefaultOverdueAfterDays),
		CriticalAfterDays: getEnvInt(log, "CRITICAL_AFTER_DAYS", reconcile.DefaultCriticalAfterDays),
		Allocation:        reconcile.AllocationPooled,
	}

	switch a := reconcile.Allocation(strings.ToLower(getEnv("LOAN_ALLOCATION", string(reconcile.AllocationPooled)))); a {
	case reconcile.AllocationPooled, reconcile.AllocationOldestFirst:
		cfg.Allocation = a
	default:
		log.WithField("value", a).Warn("unknown LOAN_ALLOCATION, using pooled")
	}
	return cfg
}

// Policy builds the engine policy for the given reference day.
func (c *AppConfig) Policy(today time.Time) reconcile.Policy {
	p := reconcile.DefaultPolicy(today)
	p.MaturityTenure = c.MaturityTenure
	p.MaturityRate = c.MaturityRate
	p.OverdueAfterDays = c.OverdueAfterDays
	p.CriticalAfterDays = c.CriticalAfterDays
	p.Allocation = c.Allocation
	return p
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(log logrus.FieldLogger, key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.WithField("key", key).WithField("value", raw).Warn("invalid integer, using default")
		return fallback
	}
	return v
}

func getEnvDecimal(log logrus.FieldLogger, key string, fallback decimal.Decimal) decimal.Decimal {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		log.WithField("key", key).WithField("value", raw).Warn("invalid decimal, using default")
		return fallback
	}
	return v
}

func getEnvDuration(log logrus.FieldLogger, key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.WithField("key", key).WithField("value", raw).Warn("invalid duration, using default")
		return fallback
	}
	return v
}
