package memory

import (
	"payments_engine/internal/repository"
)

var (
	_ repository.TransactionLog = (*TransactionLog)(nil)
	_ repository.AccountLedger  = (*AccountLedger)(nil)
)
