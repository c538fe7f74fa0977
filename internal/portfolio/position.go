package portfolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position represents a single holding of an agent's portfolio
type Position struct {
	ID           string          `json:"id"`
	Asset        string          `json:"asset"`
	Amount       decimal.Decimal `json:"amount"`
	EntryPrice   decimal.Decimal `json:"entry_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Timestamp    time.Time       `json:"timestamp"`
}

// NewPosition creates a position stamped with the current time.
// Inputs are not validated.
func NewPosition(id, asset string, amount, entryPrice, currentPrice decimal.Decimal) Position {
	return Position{
		ID:           id,
		Asset:        asset,
		Amount:       amount,
		EntryPrice:   entryPrice,
		CurrentPrice: currentPrice,
		Timestamp:    time.Now(),
	}
}

// Value returns the current value of the position (current price * amount)
func (p Position) Value() decimal.Decimal {
	return p.CurrentPrice.Mul(p.Amount)
}

// updateCurrentPrice is only reachable through Manager.UpdatePosition so the
// manager can invalidate its value cache.
func (p *Position) updateCurrentPrice(price decimal.Decimal, at time.Time) {
	p.CurrentPrice = price
	p.Timestamp = at
}
