package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"coop-reconciliation/internal/config"
	"coop-reconciliation/internal/export"
	"coop-reconciliation/internal/gateway"
	"coop-reconciliation/internal/logger"
	"coop-reconciliation/internal/usecase"
)

func main() {
	// Logs go to stderr so stdout stays a clean JSON report.
	log := logger.NewWithOutput(os.Getenv("LOG_LEVEL"), os.Stderr)
	cfg := config.Load(log)

	tenantID := flag.String("tenant", "", "Tenant (society) id to report on (required)")
	startDateStr := flag.String("start", "", "Window start date (YYYY-MM-DD), open when empty")
	endDateStr := flag.String("end", "", "Window end date (YYYY-MM-DD), open when empty")
	todayStr := flag.String("today", "", "Reference day for loan ages and maturity (YYYY-MM-DD), defaults to the current date")
	source := flag.String("source", cfg.DataSource, "Record source: csv or sqlite")
	dataDir := flag.String("data", cfg.DataDir, "Root directory holding <tenant>/*.csv")
	dbPath := flag.String("db", cfg.DatabasePath, "SQLite database path")
	xlsxPath := flag.String("xlsx", "", "Also write the report as an Excel workbook to this path")
	flag.Parse()

	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "Error: -tenant is required.")
		flag.Usage()
		os.Exit(1)
	}

	start, err := parseOptionalDate(*startDateStr)
	if err != nil {
		log.Fatalf("Error parsing start date: %v", err)
	}
	end, err := parseOptionalDate(*endDateStr)
	if err != nil {
		log.Fatalf("Error parsing end date: %v", err)
	}
	today := time.Now()
	if *todayStr != "" {
		if today, err = time.Parse(time.DateOnly, *todayStr); err != nil {
			log.Fatalf("Error parsing today: %v", err)
		}
	}

	// Records come from per-tenant CSV files or a SQLite database.
	var repo usecase.RecordRepository
	switch *source {
	case "sqlite":
		db, err := gateway.OpenSQLite(*dbPath)
		if err != nil {
			log.Fatalf("Could not open database: %v", err)
		}
		defer db.Close()
		if err := gateway.EnsureSchema(context.Background(), db); err != nil {
			log.Fatalf("Could not prepare database: %v", err)
		}
		repo = gateway.NewSQLiteRecordRepository(db, log)
	case "csv":
		repo = gateway.NewCSVRecordRepository(*dataDir, log)
	default:
		log.Fatalf("Unknown source %q", *source)
	}

	// A one-shot run reads the records once, so the use case gets no cache.
	reportUseCase := usecase.NewReportUseCase(repo, nil, cfg.Policy, log).
		WithClock(func() time.Time { return today })

	report, err := reportUseCase.Generate(context.Background(), usecase.ReportRequest{TenantID: *tenantID, Start: start, End: end})
	if err != nil {
		log.Fatalf("Report failed: %v", err)
	}

	if *xlsxPath != "" {
		if err := export.SaveAs(*xlsxPath, report); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		log.WithField("path", *xlsxPath).Info("workbook written")
	}

	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("Failed to generate JSON report: %v", err)
	}

	fmt.Println(string(output))
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}
