package validator

import (
	"errors"
	"fmt"
	"math"

	"payments_engine/internal/domain"
)

var ErrInvalidAmount = domain.ErrInvalidAmount

type TransactionValidator struct{}

func NewTransactionValidator() *TransactionValidator {
	return &TransactionValidator{}
}

// ValidateTransaction checks field values a parsed record can carry. A
// missing amount is left for the processor, which reports it as
// ErrTransactionAmountIsNone.
func (v *TransactionValidator) ValidateTransaction(tx *domain.Transaction) error {
	var errs []error

	switch tx.Type {
	case domain.TypeDeposit, domain.TypeWithdrawal:
		if tx.Amount != nil {
			if err := v.ValidateAmount(*tx.Amount); err != nil {
				errs = append(errs, err)
			}
		}
	case domain.TypeDispute, domain.TypeResolve, domain.TypeChargeback:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", domain.ErrUnknownTransactionType, tx.Type))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %w", errors.Join(errs...))
	}

	return nil
}

func (v *TransactionValidator) ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %v is not finite", ErrInvalidAmount, amount)
	}
	if amount < 0 {
		return fmt.Errorf("%w: %v is negative", ErrInvalidAmount, amount)
	}
	return nil
}
