package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments_engine/internal/domain"
)

func TestMetricsCollector_RecordTransaction(t *testing.T) {
	m := NewMetricsCollector(nil)

	m.RecordTransaction(domain.TypeDeposit, time.Microsecond, nil)
	m.RecordTransaction(domain.TypeDeposit, time.Microsecond, nil)
	m.RecordTransaction(domain.TypeWithdrawal, time.Microsecond,
		fmt.Errorf("%w: requested 5", domain.ErrCannotWithdrawMoreThanBalance))
	m.RecordTransaction("", time.Microsecond, domain.ErrMalformedRecord)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transactionsProcessed.WithLabelValues("deposit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.transactionsFailed.WithLabelValues("withdrawal", "cannot withdraw more than balance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.transactionsFailed.WithLabelValues("unparsed", "malformed record")))
}

func TestMetricsCollector_UpdateAccounts(t *testing.T) {
	m := NewMetricsCollector(nil)

	m.UpdateAccounts([]*domain.Account{
		{Client: 1, Available: -3, Held: 10, Total: 7},
		{Client: 2, Available: 0, Held: 0, Total: 0, Locked: true},
	})

	assert.Equal(t, 10.0, testutil.ToFloat64(m.accountBalance.WithLabelValues("1", "held")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.accountBalance.WithLabelValues("1", "total")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.accountsLocked))
}

func TestMetricsCollector_WriteTextfile(t *testing.T) {
	m := NewMetricsCollector(nil)
	m.RecordTransaction(domain.TypeDeposit, time.Microsecond, nil)
	path := filepath.Join(t.TempDir(), "payments.prom")

	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `payments_transactions_processed_total{type="deposit"} 1`)
}
