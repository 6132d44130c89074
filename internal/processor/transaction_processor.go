package processor

import (
	"fmt"
	"log/slog"

	"payments_engine/internal/domain"
	"payments_engine/internal/repository"
)

// LockPolicy decides whether a chargeback-locked account still accepts
// deposits and withdrawals.
type LockPolicy string

const (
	LockIgnore  LockPolicy = "ignore"
	LockEnforce LockPolicy = "enforce"
)

// WithdrawalDisputeMode selects the arithmetic used when a withdrawal is
// disputed.
type WithdrawalDisputeMode string

const (
	// WithdrawalDisputeObserved holds the amount and adds it back to total.
	WithdrawalDisputeObserved WithdrawalDisputeMode = "observed"
	// WithdrawalDisputeSymmetric moves the amount from available to held,
	// the same way a deposit dispute does. A chargeback then reverses the
	// withdrawal instead of debiting it a second time.
	WithdrawalDisputeSymmetric WithdrawalDisputeMode = "symmetric"
)

type Options struct {
	LockPolicy        LockPolicy
	WithdrawalDispute WithdrawalDisputeMode
}

// TransactionProcessor applies one record at a time. The log and the ledger
// are independent collections: dispute handlers hold a target transaction
// from one and an account from the other at the same time.
type TransactionProcessor struct {
	txLog  repository.TransactionLog
	ledger repository.AccountLedger
	opts   Options
	logger *slog.Logger
}

func NewTransactionProcessor(
	txLog repository.TransactionLog,
	ledger repository.AccountLedger,
	opts Options,
	logger *slog.Logger,
) *TransactionProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.LockPolicy == "" {
		opts.LockPolicy = LockIgnore
	}
	if opts.WithdrawalDispute == "" {
		opts.WithdrawalDispute = WithdrawalDisputeObserved
	}

	return &TransactionProcessor{
		txLog:  txLog,
		ledger: ledger,
		opts:   opts,
		logger: logger,
	}
}

// ProcessTransaction dispatches tx by type. Every precondition is checked
// before the first balance is touched, so a returned error means neither
// collection changed.
func (p *TransactionProcessor) ProcessTransaction(tx *domain.Transaction) error {
	switch tx.Type {
	case domain.TypeDeposit:
		return p.processDeposit(tx)
	case domain.TypeWithdrawal:
		return p.processWithdrawal(tx)
	case domain.TypeDispute:
		return p.processDispute(tx)
	case domain.TypeResolve:
		return p.processResolve(tx)
	case domain.TypeChargeback:
		return p.processChargeback(tx)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownTransactionType, tx.Type)
	}
}

func (p *TransactionProcessor) processDeposit(tx *domain.Transaction) error {
	if tx.Amount == nil {
		return fmt.Errorf("%w: deposit %d", domain.ErrTransactionAmountIsNone, tx.ID)
	}

	if p.opts.LockPolicy == LockEnforce {
		if account, err := p.ledger.Find(tx.Client); err == nil && account.Locked {
			return fmt.Errorf("%w: client %d", domain.ErrAccountLocked, tx.Client)
		}
	}

	if err := p.ledger.Deposit(tx.Client, *tx.Amount); err != nil {
		return err
	}

	p.logger.Debug("Deposit applied",
		slog.Uint64("tx", uint64(tx.ID)),
		slog.Int("client", int(tx.Client)),
		slog.Float64("amount", *tx.Amount))
	return nil
}

func (p *TransactionProcessor) processWithdrawal(tx *domain.Transaction) error {
	if tx.Amount == nil {
		return fmt.Errorf("%w: withdrawal %d", domain.ErrTransactionAmountIsNone, tx.ID)
	}
	amount := *tx.Amount

	account, err := p.ledger.Find(tx.Client)
	if err != nil {
		return err
	}

	if p.opts.LockPolicy == LockEnforce && account.Locked {
		return fmt.Errorf("%w: client %d", domain.ErrAccountLocked, tx.Client)
	}

	if amount > account.Available {
		return fmt.Errorf("%w: requested %v, available %v",
			domain.ErrCannotWithdrawMoreThanBalance, amount, account.Available)
	}

	account.Available -= amount
	account.Total -= amount

	p.logger.Debug("Withdrawal applied",
		slog.Uint64("tx", uint64(tx.ID)),
		slog.Int("client", int(tx.Client)),
		slog.Float64("amount", amount))
	return nil
}

func (p *TransactionProcessor) processDispute(tx *domain.Transaction) error {
	target, err := p.txLog.Find(tx.ID)
	if err != nil {
		return err
	}

	if target.InDispute {
		return fmt.Errorf("%w: transaction %d", domain.ErrTransactionIsAlreadyInDispute, target.ID)
	}

	if !target.Type.Disputable() {
		return fmt.Errorf("%w: %s", domain.ErrCannotDisputeThisTransactionType, target.Type)
	}
	if target.Amount == nil {
		return fmt.Errorf("%w: %s %d has nothing to hold", domain.ErrTransactionAmountIsNone, target.Type, target.ID)
	}

	account, err := p.ledger.FindInDispute(tx.Client, target.Client)
	if err != nil {
		return err
	}

	amount := *target.Amount
	switch {
	case target.Type == domain.TypeWithdrawal && p.opts.WithdrawalDispute == WithdrawalDisputeObserved:
		account.Held += amount
		account.Total += amount
	default:
		account.Available -= amount
		account.Held += amount
	}
	target.InDispute = true

	p.logger.Debug("Dispute opened",
		slog.Uint64("tx", uint64(target.ID)),
		slog.Int("client", int(account.Client)),
		slog.Float64("amount", amount))
	return nil
}

func (p *TransactionProcessor) processResolve(tx *domain.Transaction) error {
	target, account, err := p.disputedTarget(tx, domain.ErrCannotResolveThisTransactionType)
	if err != nil {
		return err
	}

	amount := *target.Amount
	account.Held -= amount
	account.Available += amount
	target.InDispute = false

	p.logger.Debug("Dispute resolved",
		slog.Uint64("tx", uint64(target.ID)),
		slog.Int("client", int(account.Client)),
		slog.Float64("amount", amount))
	return nil
}

func (p *TransactionProcessor) processChargeback(tx *domain.Transaction) error {
	target, account, err := p.disputedTarget(tx, domain.ErrCannotChargebackThisTransactionType)
	if err != nil {
		return err
	}

	amount := *target.Amount
	switch {
	case target.Type == domain.TypeWithdrawal && p.opts.WithdrawalDispute == WithdrawalDisputeSymmetric:
		// Releases the hold and refunds the withdrawal itself.
		account.Held -= amount
		account.Available += 2 * amount
		account.Total += amount
	default:
		account.Held -= amount
		account.Total -= amount
	}
	account.Locked = true
	target.InDispute = false

	p.logger.Info("Chargeback applied, account locked",
		slog.Uint64("tx", uint64(target.ID)),
		slog.Int("client", int(account.Client)),
		slog.Float64("amount", amount))
	return nil
}

// disputedTarget performs the lookups shared by resolve and chargeback.
func (p *TransactionProcessor) disputedTarget(tx *domain.Transaction, wrongType error) (*domain.Transaction, *domain.Account, error) {
	target, err := p.txLog.Find(tx.ID)
	if err != nil {
		return nil, nil, err
	}

	if !target.InDispute {
		return nil, nil, fmt.Errorf("%w: transaction %d", domain.ErrTransactionIsNotInDispute, target.ID)
	}

	if !target.Type.Disputable() {
		return nil, nil, fmt.Errorf("%w: %s", wrongType, target.Type)
	}
	if target.Amount == nil {
		return nil, nil, fmt.Errorf("%w: %s %d", domain.ErrTransactionAmountIsNone, target.Type, target.ID)
	}

	account, err := p.ledger.FindInDispute(tx.Client, target.Client)
	if err != nil {
		return nil, nil, err
	}

	return target, account, nil
}
