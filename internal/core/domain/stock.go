package domain

import "strings"

// StockOp is a stock adjustment operation.
type StockOp string

const (
	StockIncrement StockOp = "increment"
	StockDecrement StockOp = "decrement"
	StockSet       StockOp = "set"
)

// ParseStockOp accepts the operation tags and their inventory aliases
// entrada, salida and ajuste.
func ParseStockOp(s string) (StockOp, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "increment", "entrada":
		return StockIncrement, nil
	case "decrement", "salida":
		return StockDecrement, nil
	case "set", "ajuste":
		return StockSet, nil
	}
	return "", Invalid("invalid stock operation %q: use increment, decrement or set", s)
}

// ApplyStockOp returns the quantity after applying op with qty to current.
func ApplyStockOp(current int, op StockOp, qty int) (int, error) {
	if qty < 0 {
		return current, Invalid("quantity must not be negative")
	}
	switch op {
	case StockIncrement:
		return current + qty, nil
	case StockDecrement:
		if qty > current {
			return current, ErrInsufficientStock
		}
		return current - qty, nil
	case StockSet:
		return qty, nil
	}
	return current, Invalid("invalid stock operation %q", op)
}

// Stock status labels reported for inventory items.
const (
	StockNoMinimum = "Sin mínimo definido"
	StockCritical  = "Crítico"
	StockLow       = "Bajo"
	StockNormal    = "Normal"
)

// LowStockFactor is the multiple of the minimum under which stock is low.
const LowStockFactor = 1.5

// StockStatus classifies qty against an optional minimum.
func StockStatus(qty int, minimum *int) string {
	if minimum == nil {
		return StockNoMinimum
	}
	q, m := float64(qty), float64(*minimum)
	switch {
	case q <= m:
		return StockCritical
	case q <= m*LowStockFactor:
		return StockLow
	default:
		return StockNormal
	}
}
