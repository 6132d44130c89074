package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"payments_engine/internal/config"
	"payments_engine/internal/processor"
	"payments_engine/internal/repository/memory"
	"payments_engine/internal/service"
	"payments_engine/pkg/csvio"
	"payments_engine/pkg/metrics"
)

const (
	appName = "payments_engine"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
		return 1
	}

	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger := setupLogger(cfg, stderr).With(slog.String("run_id", uuid.NewString()))
	logger.DebugContext(ctx, "Starting application",
		slog.String("name", appName),
		slog.String("input", cfg.InputPath),
		slog.String("lock_policy", string(cfg.Processor.LockPolicy)),
		slog.String("withdrawal_dispute", string(cfg.Processor.WithdrawalDispute)),
		slog.String("duplicate_policy", string(cfg.DuplicatePolicy)))

	input, err := os.Open(cfg.InputPath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open input", slog.String("error", err.Error()))
		return 1
	}
	defer input.Close()

	metricsCollector := metrics.NewMetricsCollector(logger)
	txLog := memory.NewTransactionLog(cfg.DuplicatePolicy)
	ledger := memory.NewAccountLedger()
	txProcessor := processor.NewTransactionProcessor(txLog, ledger, cfg.Processor, logger)
	batch := service.NewBatchService(txLog, ledger, txProcessor, metricsCollector, logger)

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	if _, err := batch.Run(ctx, csvio.NewReader(bufio.NewReader(input)), csvio.NewWriter(out)); err != nil {
		logger.ErrorContext(ctx, "Processing failed", slog.String("error", err.Error()))
		return 1
	}

	if cfg.MetricsTextfile != "" {
		if err := metricsCollector.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.ErrorContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
		}
	}

	return 0
}

func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
