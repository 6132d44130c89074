package metrics

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"payments_engine/internal/domain"
)

type MetricsCollector struct {
	registry              *prometheus.Registry
	transactionsProcessed *prometheus.CounterVec
	transactionsFailed    *prometheus.CounterVec
	transactionDuration   prometheus.Histogram
	accountBalance        *prometheus.GaugeVec
	accountsLocked        prometheus.Gauge
	mu                    sync.Mutex
	logger                *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	collector := &MetricsCollector{
		registry: registry,
		transactionsProcessed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "payments_transactions_processed_total",
			Help: "Total number of applied transactions",
		}, []string{"type"}),
		transactionsFailed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "payments_transactions_failed_total",
			Help: "Total number of rejected records",
		}, []string{"type", "reason"}),
		transactionDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "payments_transaction_processing_duration_seconds",
			Help:    "Time taken to apply a single record",
			Buckets: []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3, 1e-2},
		}),
		accountBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "payments_account_balance",
			Help: "Final account balance by component",
		}, []string{"client", "component"}),
		accountsLocked: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "payments_accounts_locked",
			Help: "Number of accounts locked by a chargeback",
		}),
		logger: logger,
	}

	return collector
}

// RecordTransaction counts one record. txType is empty when the row could
// not be parsed.
func (m *MetricsCollector) RecordTransaction(txType domain.TransactionType, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	label := string(txType)
	if label == "" {
		label = "unparsed"
	}

	if err == nil {
		m.transactionsProcessed.WithLabelValues(label).Inc()
	} else {
		m.transactionsFailed.WithLabelValues(label, domain.Reason(err)).Inc()
	}

	m.transactionDuration.Observe(duration.Seconds())
}

// UpdateAccounts publishes the balances of every account.
func (m *MetricsCollector) UpdateAccounts(accounts []*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()

	locked := 0
	for _, account := range accounts {
		client := strconv.FormatUint(uint64(account.Client), 10)
		m.accountBalance.WithLabelValues(client, "available").Set(account.Available)
		m.accountBalance.WithLabelValues(client, "held").Set(account.Held)
		m.accountBalance.WithLabelValues(client, "total").Set(account.Total)
		if account.Locked {
			locked++
		}
	}
	m.accountsLocked.Set(float64(locked))
}

func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the registry in the text exposition format, for
// pickup by the node_exporter textfile collector.
func (m *MetricsCollector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return err
	}
	m.logger.Info("Metrics written", slog.String("path", path))
	return nil
}
