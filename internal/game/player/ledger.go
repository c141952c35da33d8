package player

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ledger is the credit-only balance list, parallel to the roster. Amounts
// are integral game currency but flow through decimal so the credit and
// threshold arithmetic stays exact.
type Ledger struct {
	balances []decimal.Decimal
	logger   *zap.Logger
}

// NewLedger creates a ledger of count zero balances.
//
// Precondition: count >= 1; logger must be non-nil.
func NewLedger(count int, logger *zap.Logger) *Ledger {
	balances := make([]decimal.Decimal, count)
	for i := range balances {
		balances[i] = decimal.Zero
	}
	return &Ledger{balances: balances, logger: logger}
}

// Credit adds amount to player i's balance.
//
// Precondition: 0 <= i < len(balances); amount >= 0.
func (l *Ledger) Credit(i int, amount int) {
	l.balances[i] = l.balances[i].Add(decimal.NewFromInt(int64(amount)))
	l.logger.Debug("balance credited",
		zap.Int("player", i),
		zap.Int("amount", amount),
		zap.String("balance", l.balances[i].String()),
	)
}

// Balance returns player i's current balance.
//
// Precondition: 0 <= i < len(balances).
func (l *Ledger) Balance(i int) decimal.Decimal { return l.balances[i] }

// Balances returns a copy of all balances in player order.
func (l *Ledger) Balances() []decimal.Decimal {
	out := make([]decimal.Decimal, len(l.balances))
	copy(out, l.balances)
	return out
}

// Winner returns the first player index whose balance has reached target.
//
// Postcondition: Returns (index, true) for the lowest qualifying index,
// or (0, false) when no balance meets the target.
func (l *Ledger) Winner(target decimal.Decimal) (int, bool) {
	for i, b := range l.balances {
		if b.Cmp(target) >= 0 {
			return i, true
		}
	}
	return 0, false
}
