package domain

import "math"

// balanceTolerance absorbs float64 rounding when comparing balances.
const balanceTolerance = 1e-9

// Account holds the balances of one client.
type Account struct {
	Client    uint16  `json:"client"`
	Available float64 `json:"available"`
	Held      float64 `json:"held"`
	Total     float64 `json:"total"`
	Locked    bool    `json:"locked"`
}

func NewAccount(client uint16, amount float64) *Account {
	return &Account{
		Client:    client,
		Available: amount,
		Total:     amount,
	}
}

// Balanced reports whether Total equals Available plus Held.
func (a *Account) Balanced() bool {
	return math.Abs(a.Total-(a.Available+a.Held)) <= balanceTolerance*math.Max(1, math.Abs(a.Total))
}
