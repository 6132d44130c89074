package memory

import (
	"fmt"

	"payments_engine/internal/domain"
	"payments_engine/internal/repository"
)

type TransactionLog struct {
	transactions []*domain.Transaction
	index        map[uint32]int
	policy       repository.DuplicatePolicy
}

func NewTransactionLog(policy repository.DuplicatePolicy) *TransactionLog {
	if policy == "" {
		policy = repository.DuplicateAccept
	}

	return &TransactionLog{
		index:  make(map[uint32]int),
		policy: policy,
	}
}

// Remember appends tx. Only deposits and withdrawals claim an id in the
// index, and only the first one to do so is ever found. Dispute, resolve and
// chargeback records share the id of their target and stay in history only.
func (l *TransactionLog) Remember(tx *domain.Transaction) error {
	if !tx.Type.Disputable() {
		l.transactions = append(l.transactions, tx)
		return nil
	}

	_, taken := l.index[tx.ID]
	if taken && l.policy == repository.DuplicateReject {
		return fmt.Errorf("%w: transaction %d", domain.ErrDuplicateTransactionID, tx.ID)
	}

	l.transactions = append(l.transactions, tx)
	if !taken {
		l.index[tx.ID] = len(l.transactions) - 1
	}

	return nil
}

func (l *TransactionLog) Find(id uint32) (*domain.Transaction, error) {
	pos, exists := l.index[id]
	if !exists {
		return nil, fmt.Errorf("%w: transaction %d", domain.ErrDisputeTransactionDoesNotExist, id)
	}
	return l.transactions[pos], nil
}

func (l *TransactionLog) Last() (*domain.Transaction, error) {
	if len(l.transactions) == 0 {
		return nil, domain.ErrEmptyLog
	}
	return l.transactions[len(l.transactions)-1], nil
}

func (l *TransactionLog) Len() int {
	return len(l.transactions)
}
