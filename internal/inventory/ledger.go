package inventory

import (
	"fmt"
	"math"
)

// Ledger holds the machine's ingredient stock. It is not safe for concurrent
// use; the machine serializes access.
type Ledger struct {
	stock map[Ingredient]int
}

// NewLedger starts every known ingredient at zero and then applies initial.
// Unknown ingredients and negative quantities are rejected.
func NewLedger(initial Stock) (*Ledger, error) {
	stock := make(map[Ingredient]int, len(Ingredients()))
	for _, ing := range Ingredients() {
		stock[ing] = 0
	}
	for ing, qty := range initial {
		if !ing.Valid() {
			return nil, fmt.Errorf("%w %q", ErrUnknownIngredient, ing)
		}
		if qty < 0 {
			return nil, fmt.Errorf("negative stock %d for %s", qty, ing)
		}
		stock[ing] = qty
	}
	return &Ledger{stock: stock}, nil
}

// Check walks the requirements in declaration order and returns a
// *ShortageError for the first one the stock cannot cover.
func (l *Ledger) Check(reqs Requirements) error {
	for _, req := range reqs {
		available := l.stock[req.Ingredient]
		if available < req.Quantity {
			return &ShortageError{
				Ingredient: req.Ingredient,
				Requested:  req.Quantity,
				Available:  available,
			}
		}
	}
	return nil
}

// Deduct must only follow a successful Check against the current stock.
func (l *Ledger) Deduct(reqs Requirements) {
	for _, req := range reqs {
		if l.stock[req.Ingredient] < req.Quantity {
			panic(fmt.Sprintf("inventory: deduct of %d %s exceeds stock %d", req.Quantity, req.Ingredient, l.stock[req.Ingredient]))
		}
	}
	for _, req := range reqs {
		l.stock[req.Ingredient] -= req.Quantity
	}
}

// Restock adds quantity to one ingredient. The addition is refused, leaving
// stock untouched, if it would not fit in an int.
func (l *Ledger) Restock(ing Ingredient, quantity int) error {
	if !ing.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownIngredient, ing)
	}
	if quantity < 0 {
		return fmt.Errorf("negative restock %d for %s", quantity, ing)
	}
	if quantity > math.MaxInt-l.stock[ing] {
		return fmt.Errorf("%w: %s has %d, cannot add %d", ErrStockOverflow, ing, l.stock[ing], quantity)
	}
	l.stock[ing] += quantity
	return nil
}

// Snapshot returns a copy callers may keep or modify.
func (l *Ledger) Snapshot() Stock {
	cp := make(Stock, len(l.stock))
	for k, v := range l.stock {
		cp[k] = v
	}
	return cp
}
