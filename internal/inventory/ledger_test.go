package inventory

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := NewLedger(Stock{Water: 1000, Milk: 800, Coffee: 300})
	require.NoError(t, err)
	return l
}

func TestNewLedger(t *testing.T) {
	t.Run("missing ingredients start empty", func(t *testing.T) {
		l, err := NewLedger(Stock{Water: 10})
		require.NoError(t, err)
		assert.Equal(t, Stock{Water: 10, Milk: 0, Coffee: 0}, l.Snapshot())
	})

	t.Run("unknown ingredient rejected", func(t *testing.T) {
		_, err := NewLedger(Stock{"sugar": 5})
		require.ErrorIs(t, err, ErrUnknownIngredient)
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		_, err := NewLedger(Stock{Milk: -1})
		require.Error(t, err)
	})
}

func TestLedgerCheck(t *testing.T) {
	tests := map[string]struct {
		stock    Stock
		reqs     Requirements
		wantName Ingredient
	}{
		"all covered": {
			stock: Stock{Water: 50, Milk: 0, Coffee: 18},
			reqs:  Requirements{{Water, 50}, {Milk, 0}, {Coffee, 18}},
		},
		"empty requirements": {
			stock: Stock{},
			reqs:  nil,
		},
		"single shortage": {
			stock:    Stock{Water: 1000, Milk: 100, Coffee: 300},
			reqs:     Requirements{{Water, 200}, {Milk, 150}, {Coffee, 24}},
			wantName: Milk,
		},
		"first short ingredient in declared order wins": {
			stock:    Stock{Water: 10, Milk: 0, Coffee: 0},
			reqs:     Requirements{{Water, 250}, {Milk, 100}, {Coffee, 24}},
			wantName: Water,
		},
		"declaration order beats larger shortfall": {
			stock:    Stock{Water: 1000, Milk: 149, Coffee: 0},
			reqs:     Requirements{{Milk, 150}, {Coffee, 300}},
			wantName: Milk,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			l, err := NewLedger(tt.stock)
			require.NoError(t, err)

			err = l.Check(tt.reqs)
			if tt.wantName == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrInsufficient)
			var shortage *ShortageError
			require.True(t, errors.As(err, &shortage))
			assert.Equal(t, tt.wantName, shortage.Ingredient)
			assert.Equal(t, tt.stock[tt.wantName], shortage.Available)
		})
	}
}

func TestLedgerCheckDoesNotMutate(t *testing.T) {
	l := newTestLedger(t)
	before := l.Snapshot()

	_ = l.Check(Requirements{{Water, 5000}})
	_ = l.Check(Requirements{{Water, 1}})

	assert.Equal(t, before, l.Snapshot())
}

func TestLedgerDeduct(t *testing.T) {
	l := newTestLedger(t)
	reqs := Requirements{{Water, 50}, {Milk, 0}, {Coffee, 18}}

	require.NoError(t, l.Check(reqs))
	l.Deduct(reqs)

	assert.Equal(t, Stock{Water: 950, Milk: 800, Coffee: 282}, l.Snapshot())
}

func TestLedgerDeductWithoutCheckPanics(t *testing.T) {
	l, err := NewLedger(Stock{Water: 10, Coffee: 100})
	require.NoError(t, err)

	assert.Panics(t, func() {
		l.Deduct(Requirements{{Coffee, 18}, {Water, 50}})
	})
	// nothing applied when the precondition is violated
	assert.Equal(t, Stock{Water: 10, Milk: 0, Coffee: 100}, l.Snapshot())
}

func TestLedgerSnapshotIsCopy(t *testing.T) {
	l := newTestLedger(t)
	snap := l.Snapshot()
	snap[Water] = 0

	assert.Equal(t, 1000, l.Snapshot()[Water])
}

func TestLedgerRestock(t *testing.T) {
	l := newTestLedger(t)

	require.NoError(t, l.Restock(Coffee, 50))
	assert.Equal(t, 350, l.Snapshot()[Coffee])

	require.ErrorIs(t, l.Restock("sugar", 1), ErrUnknownIngredient)
	require.Error(t, l.Restock(Milk, -5))
	assert.Equal(t, 800, l.Snapshot()[Milk])
}

func TestLedgerRestockOverflow(t *testing.T) {
	tests := map[string]struct {
		stock    int
		quantity int
		wantErr  bool
	}{
		"fills to the limit":    {stock: 0, quantity: math.MaxInt},
		"one past the limit":    {stock: 1, quantity: math.MaxInt, wantErr: true},
		"large refill on stock": {stock: 1000, quantity: math.MaxInt - 999, wantErr: true},
		"exact remaining room":  {stock: 1000, quantity: math.MaxInt - 1000},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			l, err := NewLedger(Stock{Water: tt.stock})
			require.NoError(t, err)

			err = l.Restock(Water, tt.quantity)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrStockOverflow)
				assert.Equal(t, tt.stock, l.Snapshot()[Water])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, math.MaxInt, l.Snapshot()[Water])
			assert.GreaterOrEqual(t, l.Snapshot()[Water], 0)
		})
	}
}

func TestRequirementsValidate(t *testing.T) {
	tests := map[string]struct {
		reqs    Requirements
		wantErr bool
	}{
		"valid":         {reqs: Requirements{{Water, 1}, {Milk, 0}}},
		"nil":           {reqs: nil},
		"unknown":       {reqs: Requirements{{"tea", 1}}, wantErr: true},
		"negative":      {reqs: Requirements{{Water, -1}}, wantErr: true},
		"duplicate key": {reqs: Requirements{{Water, 1}, {Water, 2}}, wantErr: true},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			err := tt.reqs.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseIngredient(t *testing.T) {
	ing, err := ParseIngredient("  Coffee ")
	require.NoError(t, err)
	assert.Equal(t, Coffee, ing)
	assert.Equal(t, "g", ing.Unit())
	assert.Equal(t, "ml", Water.Unit())

	_, err = ParseIngredient("sugar")
	require.ErrorIs(t, err, ErrUnknownIngredient)
}
