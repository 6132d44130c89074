package repository

import (
	"payments_engine/internal/domain"
)

// TransactionLog keeps every record in arrival order. Dispute, resolve and
// chargeback re-read the stored amount of their target, so history is never
// pruned.
type TransactionLog interface {
	Remember(tx *domain.Transaction) error
	Find(id uint32) (*domain.Transaction, error)
	Last() (*domain.Transaction, error)
	Len() int
}

// AccountLedger is the only writer of account balances.
type AccountLedger interface {
	Create(client uint16, amount float64) (*domain.Account, error)
	Find(client uint16) (*domain.Account, error)
	FindInDispute(client, disputedClient uint16) (*domain.Account, error)
	Deposit(client uint16, amount float64) error
	Accounts() []*domain.Account
	Render(enc AccountEncoder) error
	Len() int
}

// AccountEncoder serializes one snapshot row.
type AccountEncoder interface {
	Encode(account *domain.Account) error
}

// DuplicatePolicy decides what TransactionLog does with a repeated id.
type DuplicatePolicy string

const (
	// DuplicateAccept stores every record; lookups return the first match.
	DuplicateAccept DuplicatePolicy = "accept"
	// DuplicateReject refuses a deposit or withdrawal whose id is taken.
	DuplicateReject DuplicatePolicy = "reject"
)
