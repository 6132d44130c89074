package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"payments_engine/internal/domain"
)

// Reader decodes rows of the form `type, client, tx, amount` into
// transactions. A leading header row is skipped. The amount column may be
// empty or missing altogether.
type Reader struct {
	csv     *csv.Reader
	started bool
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return &Reader{csv: cr}
}

// Read returns the next transaction, io.EOF at the end of input, or an error
// wrapping ErrMalformedRecord, ErrUnknownTransactionType or ErrInvalidAmount
// for a row that cannot be decoded. Reading may continue after a row error.
func (r *Reader) Read() (*domain.Transaction, error) {
	for {
		fields, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
			}
			return nil, err
		}

		if !r.started {
			r.started = true
			if isHeader(fields) {
				continue
			}
		}

		line, _ := r.csv.FieldPos(0)
		tx, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		return tx, nil
	}
}

func isHeader(fields []string) bool {
	return len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "type")
}

func parseRecord(fields []string) (*domain.Transaction, error) {
	if len(fields) < 3 || len(fields) > 4 {
		return nil, fmt.Errorf("%w: expected 3 or 4 fields, got %d", domain.ErrMalformedRecord, len(fields))
	}

	txType, err := domain.ParseTransactionType(fields[0])
	if err != nil {
		return nil, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: client %q: %v", domain.ErrMalformedRecord, fields[1], err)
	}

	id, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: tx %q: %v", domain.ErrMalformedRecord, fields[2], err)
	}

	tx := domain.NewTransaction(txType, uint16(client), uint32(id))

	if len(fields) == 4 {
		if raw := strings.TrimSpace(fields[3]); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, raw)
			}
			tx.WithAmount(amount.InexactFloat64())
		}
	}

	return tx, nil
}
