package domain

import "errors"

// Dispatch failures. The set is closed: every rejection the processor can
// produce is one of these, possibly wrapped with record context.
var (
	ErrAccountDoesNotExist                 = errors.New("account does not exist")
	ErrAccountLocked                       = errors.New("account is locked")
	ErrDuplicateAccount                    = errors.New("account already exists")
	ErrDisputeTransactionDoesNotExist      = errors.New("dispute transaction does not exist")
	ErrDuplicateTransactionID              = errors.New("duplicate transaction id")
	ErrTransactionAmountIsNone             = errors.New("transaction amount is none")
	ErrCannotWithdrawMoreThanBalance       = errors.New("cannot withdraw more than balance")
	ErrTransactionIsAlreadyInDispute       = errors.New("transaction is already in dispute")
	ErrTransactionIsNotInDispute           = errors.New("transaction is not in dispute")
	ErrCannotDisputeThisTransactionType    = errors.New("cannot dispute this transaction type")
	ErrCannotResolveThisTransactionType    = errors.New("cannot resolve this transaction type")
	ErrCannotChargebackThisTransactionType = errors.New("cannot chargeback this transaction type")
	ErrUnknownTransactionType              = errors.New("unknown transaction type")
)

// Input failures, raised before a record reaches the processor.
var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrInvalidAmount   = errors.New("invalid transaction amount")
)

// Log and output failures.
var (
	ErrEmptyLog               = errors.New("transaction log is empty")
	ErrCannotSerializeAccount = errors.New("cannot serialize account")
)

var recordErrors = []error{
	ErrAccountDoesNotExist,
	ErrAccountLocked,
	ErrDuplicateAccount,
	ErrDisputeTransactionDoesNotExist,
	ErrDuplicateTransactionID,
	ErrTransactionAmountIsNone,
	ErrCannotWithdrawMoreThanBalance,
	ErrTransactionIsAlreadyInDispute,
	ErrTransactionIsNotInDispute,
	ErrCannotDisputeThisTransactionType,
	ErrCannotResolveThisTransactionType,
	ErrCannotChargebackThisTransactionType,
	ErrUnknownTransactionType,
	ErrMalformedRecord,
	ErrInvalidAmount,
}

// Reason returns the taxonomy member err wraps, as a label suitable for
// metrics. Errors outside the taxonomy report "other".
func Reason(err error) string {
	for _, known := range recordErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "other"
}
