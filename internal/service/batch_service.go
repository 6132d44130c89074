package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"payments_engine/internal/domain"
	"payments_engine/internal/processor"
	"payments_engine/internal/repository"
	"payments_engine/pkg/metrics"
	"payments_engine/pkg/validator"
)

// RecordSource yields transactions in input order and io.EOF at the end.
// Row-level decode failures wrap one of the domain input errors; any other
// error is treated as fatal.
type RecordSource interface {
	Read() (*domain.Transaction, error)
}

// SnapshotSink receives the final balances.
type SnapshotSink interface {
	repository.AccountEncoder
	Flush() error
}

type Summary struct {
	Records  int
	Applied  int
	Rejected int
}

// BatchService drives a single pass over a record stream: every record is
// remembered, dispatched, and on failure logged and skipped.
type BatchService struct {
	txLog     repository.TransactionLog
	ledger    repository.AccountLedger
	processor *processor.TransactionProcessor
	validator *validator.TransactionValidator
	metrics   *metrics.MetricsCollector
	logger    *slog.Logger
}

func NewBatchService(
	txLog repository.TransactionLog,
	ledger repository.AccountLedger,
	proc *processor.TransactionProcessor,
	metricsCollector *metrics.MetricsCollector,
	logger *slog.Logger,
) *BatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if metricsCollector == nil {
		metricsCollector = metrics.NewMetricsCollector(logger)
	}

	return &BatchService{
		txLog:     txLog,
		ledger:    ledger,
		processor: proc,
		validator: validator.NewTransactionValidator(),
		metrics:   metricsCollector,
		logger:    logger,
	}
}

// Run processes src to exhaustion and then renders the ledger to sink.
func (s *BatchService) Run(ctx context.Context, src RecordSource, sink SnapshotSink) (Summary, error) {
	summary, err := s.Process(ctx, src)
	if err != nil {
		return summary, err
	}

	if err := s.Render(ctx, sink); err != nil {
		return summary, err
	}

	return summary, nil
}

func (s *BatchService) Process(ctx context.Context, src RecordSource) (Summary, error) {
	var summary Summary

	for {
		startTime := time.Now()
		tx, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		summary.Records++

		if err != nil {
			if !isRecordError(err) {
				return summary, fmt.Errorf("failed to read record %d: %w", summary.Records, err)
			}
			summary.Rejected++
			s.metrics.RecordTransaction("", time.Since(startTime), err)
			s.logger.WarnContext(ctx, "Skipping unreadable record",
				slog.Int("record", summary.Records),
				slog.String("error", err.Error()))
			continue
		}

		remembered, err := s.apply(tx)
		s.metrics.RecordTransaction(tx.Type, time.Since(startTime), err)

		if err != nil {
			summary.Rejected++
			// Once remembered, the record is reported as the log holds it.
			offending := tx
			if remembered {
				if last, lastErr := s.txLog.Last(); lastErr == nil {
					offending = last
				}
			}
			s.logger.WarnContext(ctx, fmt.Sprintf("%v with %s", err, offending),
				slog.Int("record", summary.Records),
				slog.String("reason", domain.Reason(err)),
				slog.Any("transaction", offending))
			continue
		}
		summary.Applied++
	}

	s.logger.InfoContext(ctx, "Record stream processed",
		slog.Int("records", summary.Records),
		slog.Int("applied", summary.Applied),
		slog.Int("rejected", summary.Rejected),
		slog.Int("accounts", s.ledger.Len()),
		slog.Int("log_size", s.txLog.Len()))

	return summary, nil
}

// apply reports whether tx made it into the log, alongside any failure.
func (s *BatchService) apply(tx *domain.Transaction) (bool, error) {
	if err := s.validator.ValidateTransaction(tx); err != nil {
		return false, err
	}

	if err := s.txLog.Remember(tx); err != nil {
		return false, err
	}

	return true, s.processor.ProcessTransaction(tx)
}

// Render writes one row per account and flushes the sink. The first row
// that cannot be encoded aborts the remaining output.
func (s *BatchService) Render(ctx context.Context, sink SnapshotSink) error {
	accounts := s.ledger.Accounts()
	s.metrics.UpdateAccounts(accounts)

	for _, account := range accounts {
		if !account.Balanced() {
			s.logger.ErrorContext(ctx, "Account balances do not add up",
				slog.Int("client", int(account.Client)),
				slog.Float64("available", account.Available),
				slog.Float64("held", account.Held),
				slog.Float64("total", account.Total))
		}
	}

	renderErr := s.ledger.Render(sink)
	if err := sink.Flush(); err != nil && renderErr == nil {
		renderErr = fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if renderErr != nil {
		s.logger.ErrorContext(ctx, "Snapshot rendering failed", slog.String("error", renderErr.Error()))
		return renderErr
	}

	s.logger.DebugContext(ctx, "Snapshot rendered", slog.Int("accounts", len(accounts)))
	return nil
}

func isRecordError(err error) bool {
	return errors.Is(err, domain.ErrMalformedRecord) ||
		errors.Is(err, domain.ErrUnknownTransactionType) ||
		errors.Is(err, domain.ErrInvalidAmount)
}
