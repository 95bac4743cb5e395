package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/goya962/FinanceFlow/internal/advice"
	"github.com/goya962/FinanceFlow/internal/amqp"
	"github.com/goya962/FinanceFlow/internal/config"
	"github.com/goya962/FinanceFlow/internal/export"
	"github.com/goya962/FinanceFlow/internal/export/gsheet"
	apphttp "github.com/goya962/FinanceFlow/internal/http"
	applog "github.com/goya962/FinanceFlow/internal/log"
	"github.com/goya962/FinanceFlow/internal/services"
	"github.com/goya962/FinanceFlow/internal/store"
	"github.com/goya962/FinanceFlow/internal/store/memory"
	"github.com/goya962/FinanceFlow/internal/store/sqlite"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose data backend (default: memory).
	var st store.Store
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		st = repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		st = memory.New()
		logger.Info("Initialized memory backend")
	}

	// AMQP event stream is optional; without it writes stay local-only.
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		events = client
		logger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	var sheets *gsheet.Client
	if cfg.SheetsSpreadsheetID != "" {
		var err error
		sheets, err = gsheet.New(context.Background(), cfg.SheetsSpreadsheetID, cfg.SheetsSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.SheetsSpreadsheetID)
	}

	var advisor *advice.Advisor
	if cfg.AdviceAPIKey != "" {
		advisor = advice.New(cfg.AdviceAPIURL, cfg.AdviceAPIKey, cfg.AdviceModel)
		logger.Info("Financial advice enabled", "model", cfg.AdviceModel)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Expenses: services.NewExpenseManager(st, events),
		Incomes:  services.NewIncomeService(st),
		Ledger:   services.NewLedger(st, st),
		Reports:  services.NewReports(st, st),
		Exporter: export.NewService(st),
		Advisor:  advisor,
		Sheets:   sheets,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting financeflow server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
