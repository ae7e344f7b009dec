package config

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"coop-reconciliation/internal/reconcile"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"LOG_LEVEL", "DATA_SOURCE", "REPORT_CACHE_TTL", "MATURITY_TENURE", "MATURITY_RATE", "OVERDUE_AFTER_DAYS", "CRITICAL_AFTER_DAYS", "LOAN_ALLOCATION"} {
		t.Setenv(k, "")
	}

	cfg := Load(quietLogger())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "csv", cfg.DataSource)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, 36, cfg.MaturityTenure)
	assert.Equal(t, "0.12", cfg.MaturityRate.String())
	assert.Equal(t, 30, cfg.OverdueAfterDays)
	assert.Equal(t, 90, cfg.CriticalAfterDays)
	assert.Equal(t, reconcile.AllocationPooled, cfg.Allocation)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", "SQLite")
	t.Setenv("REPORT_CACHE_TTL", "30s")
	t.Setenv("MATURITY_TENURE", "24")
	t.Setenv("MATURITY_RATE", "0.10")
	t.Setenv("OVERDUE_AFTER_DAYS", "45")
	t.Setenv("CRITICAL_AFTER_DAYS", "not-a-number")
	t.Setenv("LOAN_ALLOCATION", "oldest_first")

	cfg := Load(quietLogger())

	assert.Equal(t, "sqlite", cfg.DataSource)
	assert.Equal(t, 30*time.Second, cfg.ReportCacheTTL)
	assert.Equal(t, 90, cfg.CriticalAfterDays)
	assert.Equal(t, reconcile.AllocationOldestFirst, cfg.Allocation)

	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	p := cfg.Policy(today)
	assert.Equal(t, today, p.Today)
	assert.Equal(t, 24, p.MaturityTenure)
	assert.Equal(t, "0.1", p.MaturityRate.String())
	assert.Equal(t, 45, p.OverdueAfterDays)
	assert.Equal(t, reconcile.AllocationOldestFirst, p.Allocation)
}

func TestLoad_UnknownAllocation(t *testing.T) {
	t.Setenv("LOAN_ALLOCATION", "newest_first")
	assert.Equal(t, reconcile.AllocationPooled, Load(quietLogger()).Allocation)
}
