package memory

import (
	"errors"
	"testing"

	"payments_engine/internal/domain"
	"payments_engine/internal/repository"
)

type recordingEncoder struct {
	rows   []uint16
	failOn uint16
}

func (e *recordingEncoder) Encode(account *domain.Account) error {
	if e.failOn != 0 && account.Client == e.failOn {
		return errors.New("boom")
	}
	e.rows = append(e.rows, account.Client)
	return nil
}

func TestAccountLedger_CreateAndFind(t *testing.T) {
	ledger := NewAccountLedger()

	_, err := ledger.Create(1, 10)
	if err != nil {
		t.Fatalf("unexpected error on Create: %v", err)
	}
	got, err := ledger.Find(1)

	if err != nil {
		t.Fatalf("unexpected error on Find: %v", err)
	}
	if got.Available != 10 || got.Total != 10 || got.Held != 0 || got.Locked {
		t.Errorf("unexpected account %+v", got)
	}
}

func TestAccountLedger_CreateDuplicate(t *testing.T) {
	ledger := NewAccountLedger()
	_, _ = ledger.Create(1, 10)

	_, err := ledger.Create(1, 5)

	if !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
	if got, _ := ledger.Find(1); got.Total != 10 {
		t.Errorf("expected total 10, got %f", got.Total)
	}
}

func TestAccountLedger_FindMissing(t *testing.T) {
	ledger := NewAccountLedger()

	_, err := ledger.Find(7)

	if !errors.Is(err, domain.ErrAccountDoesNotExist) {
		t.Fatalf("expected ErrAccountDoesNotExist, got %v", err)
	}
}

func TestAccountLedger_FindInDispute(t *testing.T) {
	ledger := NewAccountLedger()
	_, _ = ledger.Create(1, 10)
	_, _ = ledger.Create(2, 10)

	if _, err := ledger.FindInDispute(1, 1); err != nil {
		t.Fatalf("unexpected error for matching clients: %v", err)
	}
	if _, err := ledger.FindInDispute(1, 2); !errors.Is(err, domain.ErrAccountDoesNotExist) {
		t.Errorf("expected ErrAccountDoesNotExist for cross-client lookup, got %v", err)
	}
	if _, err := ledger.FindInDispute(3, 3); !errors.Is(err, domain.ErrAccountDoesNotExist) {
		t.Errorf("expected ErrAccountDoesNotExist for unknown client, got %v", err)
	}
}

func TestAccountLedger_DepositUpsert(t *testing.T) {
	ledger := NewAccountLedger()

	if err := ledger.Deposit(4, 2.5); err != nil {
		t.Fatalf("unexpected error on first Deposit: %v", err)
	}
	if err := ledger.Deposit(4, 1.5); err != nil {
		t.Fatalf("unexpected error on second Deposit: %v", err)
	}
	got, _ := ledger.Find(4)

	if got.Available != 4 || got.Total != 4 {
		t.Errorf("expected available and total 4, got %+v", got)
	}
	if ledger.Len() != 1 {
		t.Errorf("expected 1 account, got %d", ledger.Len())
	}
}

func TestAccountLedger_RenderOrder(t *testing.T) {
	ledger := NewAccountLedger()
	_ = ledger.Deposit(3, 1)
	_ = ledger.Deposit(1, 1)
	_ = ledger.Deposit(2, 1)
	enc := &recordingEncoder{}

	err := ledger.Render(enc)

	if err != nil {
		t.Fatalf("unexpected error on Render: %v", err)
	}
	want := []uint16{3, 1, 2}
	if len(enc.rows) != len(want) {
		t.Fatalf("expected %v, got %v", want, enc.rows)
	}
	for i := range want {
		if enc.rows[i] != want[i] {
			t.Errorf("expected %v, got %v", want, enc.rows)
		}
	}
}

func TestAccountLedger_RenderStopsAtFirstFailure(t *testing.T) {
	ledger := NewAccountLedger()
	_ = ledger.Deposit(1, 1)
	_ = ledger.Deposit(2, 1)
	_ = ledger.Deposit(3, 1)
	enc := &recordingEncoder{failOn: 2}

	err := ledger.Render(enc)

	if !errors.Is(err, domain.ErrCannotSerializeAccount) {
		t.Fatalf("expected ErrCannotSerializeAccount, got %v", err)
	}
	if len(enc.rows) != 1 || enc.rows[0] != 1 {
		t.Errorf("expected only client 1 rendered, got %v", enc.rows)
	}
}

func TestTransactionLog_RememberAndFind(t *testing.T) {
	log := NewTransactionLog(repository.DuplicateAccept)
	tx := domain.NewTransaction(domain.TypeDeposit, 1, 1).WithAmount(10)

	if err := log.Remember(tx); err != nil {
		t.Fatalf("unexpected error on Remember: %v", err)
	}
	got, err := log.Find(1)

	if err != nil {
		t.Fatalf("unexpected error on Find: %v", err)
	}
	if got != tx {
		t.Errorf("expected stored pointer %p, got %p", tx, got)
	}
}

func TestTransactionLog_FindMissing(t *testing.T) {
	log := NewTransactionLog(repository.DuplicateAccept)

	_, err := log.Find(42)

	if !errors.Is(err, domain.ErrDisputeTransactionDoesNotExist) {
		t.Fatalf("expected ErrDisputeTransactionDoesNotExist, got %v", err)
	}
}

func TestTransactionLog_FirstMatchWins(t *testing.T) {
	log := NewTransactionLog(repository.DuplicateAccept)
	first := domain.NewTransaction(domain.TypeDeposit, 1, 9).WithAmount(1)
	second := domain.NewTransaction(domain.TypeDeposit, 2, 9).WithAmount(2)
	_ = log.Remember(first)
	_ = log.Remember(second)

	got, _ := log.Find(9)

	if got != first {
		t.Errorf("expected first record, got %s", got)
	}
	if log.Len() != 2 {
		t.Errorf("expected 2 stored records, got %d", log.Len())
	}
}

func TestTransactionLog_DisputeRecordDoesNotClaimID(t *testing.T) {
	log := NewTransactionLog(repository.DuplicateAccept)
	dispute := domain.NewTransaction(domain.TypeDispute, 1, 5)
	_ = log.Remember(dispute)

	if _, err := log.Find(5); !errors.Is(err, domain.ErrDisputeTransactionDoesNotExist) {
		t.Fatalf("expected ErrDisputeTransactionDoesNotExist, got %v", err)
	}
	deposit := domain.NewTransaction(domain.TypeDeposit, 1, 5).WithAmount(3)
	_ = log.Remember(deposit)

	got, _ := log.Find(5)

	if got != deposit {
		t.Errorf("expected the deposit, got %s", got)
	}
	if log.Len() != 2 {
		t.Errorf("expected 2 stored records, got %d", log.Len())
	}
}

func TestTransactionLog_RejectDuplicates(t *testing.T) {
	log := NewTransactionLog(repository.DuplicateReject)
	_ = log.Remember(domain.NewTransaction(domain.TypeDispute, 1, 5))
	deposit := domain.NewTransaction(domain.TypeDeposit, 1, 5).WithAmount(3)

	if err := log.Remember(deposit); err != nil {
		t.Fatalf("unexpected error for first deposit with id 5, got %v", err)
	}
	err := log.Remember(domain.NewTransaction(domain.TypeWithdrawal, 1, 5).WithAmount(1))

	if !errors.Is(err, domain.ErrDuplicateTransactionID) {
		t.Fatalf("expected ErrDuplicateTransactionID, got %v", err)
	}
	if got, _ := log.Find(5); got != deposit {
		t.Errorf("expected deposit to own id 5, got %s", got)
	}
	if log.Len() != 2 {
		t.Errorf("expected rejected record to stay out of the log, got %d records", log.Len())
	}
}

func TestTransactionLog_Last(t *testing.T) {
	log := NewTransactionLog("")

	if _, err := log.Last(); !errors.Is(err, domain.ErrEmptyLog) {
		t.Fatalf("expected ErrEmptyLog, got %v", err)
	}
	tx := domain.NewTransaction(domain.TypeResolve, 3, 8)
	_ = log.Remember(domain.NewTransaction(domain.TypeDeposit, 3, 8).WithAmount(1))
	_ = log.Remember(tx)

	got, err := log.Last()

	if err != nil {
		t.Fatalf("unexpected error on Last: %v", err)
	}
	if got != tx {
		t.Errorf("expected last record %s, got %s", tx, got)
	}
}
