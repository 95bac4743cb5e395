package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/goya962/FinanceFlow/internal/amqp"
	"github.com/goya962/FinanceFlow/internal/config"
	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/export/gsheet"
	applog "github.com/goya962/FinanceFlow/internal/log"
	"github.com/goya962/FinanceFlow/internal/services"
	"github.com/goya962/FinanceFlow/internal/store/sqlite"
)

// The worker tails the expense event stream and, after every mutation,
// recomputes the monthly summary for the current month and appends it to
// the configured Google Sheet. Without a sheet it still consumes and logs
// each event, which keeps the queue drained and leaves an audit trail.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("financeflow-worker")
	applog.SetDefault(logger)

	logger.Info("Starting financeflow-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var sheets *gsheet.Client
	if cfg.SheetsSpreadsheetID != "" {
		sheets, err = gsheet.New(context.Background(), cfg.SheetsSpreadsheetID, cfg.SheetsSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.SheetsSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no SHEETS_SPREADSHEET_ID provided")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	reports := services.NewReports(repo, repo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeExpenseEvents(ctx, func(msg *amqp.ExpenseEventMessage) error {
			logger.Info("Expense event received",
				"action", msg.Action,
				"record_count", len(msg.IDs),
				"group_id", msg.GroupID,
				"timestamp", msg.Timestamp)

			if sheets == nil {
				return nil
			}

			summary, err := reports.Monthly(ctx, core.DateOf(time.Now()))
			if err != nil {
				return err
			}
			return sheets.AppendMonthlySummary(ctx, summary)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
