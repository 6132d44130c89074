package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"payments_engine/internal/domain"
)

// AmountPlaces is the number of decimal places written for every balance.
const AmountPlaces = 4

var header = []string{"client", "available", "held", "total", "locked"}

// Writer encodes a balance snapshot. The header is written before the first
// row, or on Flush if there were no rows.
type Writer struct {
	csv           *csv.Writer
	headerWritten bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

func (w *Writer) Encode(account *domain.Account) error {
	row := make([]string, 0, len(header))
	row = append(row, strconv.FormatUint(uint64(account.Client), 10))

	for _, v := range []float64{account.Available, account.Held, account.Total} {
		amount, err := formatAmount(v)
		if err != nil {
			return err
		}
		row = append(row, amount)
	}
	row = append(row, strconv.FormatBool(account.Locked))

	if err := w.writeHeader(); err != nil {
		return err
	}
	return w.csv.Write(row)
}

func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

func (w *Writer) writeHeader() error {
	if w.headerWritten {
		return nil
	}
	w.headerWritten = true
	return w.csv.Write(header)
}

func formatAmount(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("amount %v is not finite", v)
	}
	return decimal.NewFromFloat(v).StringFixed(AmountPlaces), nil
}
