package memory

import (
	"fmt"

	"payments_engine/internal/domain"
	"payments_engine/internal/repository"
)

// AccountLedger keeps accounts keyed by client and remembers the order in
// which they were opened, which is also the render order.
type AccountLedger struct {
	accounts map[uint16]*domain.Account
	order    []uint16
}

func NewAccountLedger() *AccountLedger {
	return &AccountLedger{
		accounts: make(map[uint16]*domain.Account),
	}
}

func (l *AccountLedger) Create(client uint16, amount float64) (*domain.Account, error) {
	if _, exists := l.accounts[client]; exists {
		return nil, fmt.Errorf("%w: client %d", domain.ErrDuplicateAccount, client)
	}

	account := domain.NewAccount(client, amount)
	l.accounts[client] = account
	l.order = append(l.order, client)

	return account, nil
}

func (l *AccountLedger) Find(client uint16) (*domain.Account, error) {
	account, exists := l.accounts[client]
	if !exists {
		return nil, fmt.Errorf("%w: client %d", domain.ErrAccountDoesNotExist, client)
	}
	return account, nil
}

// FindInDispute returns the account only when the disputing record and the
// disputed transaction belong to the same client.
func (l *AccountLedger) FindInDispute(client, disputedClient uint16) (*domain.Account, error) {
	if client != disputedClient {
		return nil, fmt.Errorf("%w: client %d does not own a transaction of client %d",
			domain.ErrAccountDoesNotExist, client, disputedClient)
	}
	return l.Find(client)
}

func (l *AccountLedger) Deposit(client uint16, amount float64) error {
	account, exists := l.accounts[client]
	if !exists {
		_, err := l.Create(client, amount)
		return err
	}

	account.Available += amount
	account.Total += amount

	return nil
}

func (l *AccountLedger) Accounts() []*domain.Account {
	result := make([]*domain.Account, 0, len(l.order))
	for _, client := range l.order {
		result = append(result, l.accounts[client])
	}
	return result
}

// Render hands every account to enc in ledger order and stops at the first
// row that cannot be encoded.
func (l *AccountLedger) Render(enc repository.AccountEncoder) error {
	for _, client := range l.order {
		if err := enc.Encode(l.accounts[client]); err != nil {
			return fmt.Errorf("%w: client %d: %v", domain.ErrCannotSerializeAccount, client, err)
		}
	}
	return nil
}

func (l *AccountLedger) Len() int {
	return len(l.order)
}
