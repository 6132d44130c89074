package domain

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeDispute    TransactionType = "dispute"
	TypeResolve    TransactionType = "resolve"
	TypeChargeback TransactionType = "chargeback"
)

// ParseTransactionType maps the textual type of an input row, ignoring case
// and surrounding whitespace.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeDeposit, TypeWithdrawal, TypeDispute, TypeResolve, TypeChargeback:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionType, s)
	}
}

// Disputable reports whether a transaction of this type can be the target
// of a dispute, resolve or chargeback.
func (t TransactionType) Disputable() bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

// Transaction is one input record. InDispute is the only field that changes
// after the record is remembered.
type Transaction struct {
	Type      TransactionType `json:"type"`
	Client    uint16          `json:"client"`
	ID        uint32          `json:"tx"`
	Amount    *float64        `json:"amount,omitempty"`
	InDispute bool            `json:"in_dispute"`
}

func NewTransaction(t TransactionType, client uint16, id uint32) *Transaction {
	return &Transaction{
		Type:   t,
		Client: client,
		ID:     id,
	}
}

func (tx *Transaction) WithAmount(amount float64) *Transaction {
	tx.Amount = &amount
	return tx
}

func (tx *Transaction) String() string {
	amount := "none"
	if tx.Amount != nil {
		amount = strconv.FormatFloat(*tx.Amount, 'f', -1, 64)
	}
	return fmt.Sprintf("{type: %s, client: %d, tx: %d, amount: %s, in_dispute: %t}",
		tx.Type, tx.Client, tx.ID, amount, tx.InDispute)
}

func (tx *Transaction) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", string(tx.Type)),
		slog.Int("client", int(tx.Client)),
		slog.Uint64("tx", uint64(tx.ID)),
		slog.Bool("in_dispute", tx.InDispute),
	}
	if tx.Amount != nil {
		attrs = append(attrs, slog.Float64("amount", *tx.Amount))
	}
	return slog.GroupValue(attrs...)
}
