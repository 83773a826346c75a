package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCollectCoins(t *testing.T) {
	p := NewProcessor()

	tests := map[string]struct {
		coins Coins
		want  string
	}{
		"no coins":           {coins: Coins{}, want: "0.00"},
		"mixed":              {coins: Coins{Quarters: 2, Dimes: 3, Pennies: 5}, want: "0.85"},
		"one of each":        {coins: Coins{Quarters: 1, Dimes: 1, Nickels: 1, Pennies: 1}, want: "0.41"},
		"many dimes exact":   {coins: Coins{Dimes: 30}, want: "3.00"},
		"pennies only":       {coins: Coins{Pennies: 150}, want: "1.50"},
		"large quarter pile": {coins: Coins{Quarters: 12}, want: "3.00"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			got := p.CollectCoins(tt.coins)
			assert.Equal(t, tt.want, got.StringFixed(2))
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestEvaluate(t *testing.T) {
	p := NewProcessor()

	tests := map[string]struct {
		total, cost string
		wantStatus  Status
		wantChange  string
	}{
		"overpaid":    {total: "3.00", cost: "1.50", wantStatus: StatusAccepted, wantChange: "1.50"},
		"underpaid":   {total: "1.00", cost: "1.50", wantStatus: StatusRefused, wantChange: "0.00"},
		"exact":       {total: "1.50", cost: "1.50", wantStatus: StatusAccepted, wantChange: "0.00"},
		"free drink":  {total: "0.00", cost: "0.00", wantStatus: StatusAccepted, wantChange: "0.00"},
		"one cent up": {total: "1.51", cost: "1.50", wantStatus: StatusAccepted, wantChange: "0.01"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			v := p.Evaluate(dec(tt.total), dec(tt.cost))
			assert.Equal(t, tt.wantStatus, v.Status)
			assert.Equal(t, tt.wantStatus == StatusAccepted, v.Accepted())
			assert.Equal(t, tt.wantChange, v.Change.StringFixed(2))
		})
	}

	assert.True(t, p.Earnings().IsZero(), "evaluate must not touch earnings")
}

func TestRecordEarning(t *testing.T) {
	p := NewProcessor()
	require.True(t, p.Earnings().IsZero())

	p.RecordEarning(dec("1.50"))
	p.RecordEarning(dec("3.00"))

	assert.Equal(t, "4.50", p.Earnings().StringFixed(2))
	// repeated reads are stable
	assert.True(t, p.Earnings().Equal(p.Earnings()))
}

func TestCoinsValidate(t *testing.T) {
	require.NoError(t, Coins{Quarters: 1}.Validate())
	require.Error(t, Coins{Nickels: -1}.Validate())
}

func TestCoinsSetAndCount(t *testing.T) {
	var c Coins
	for i, coin := range Denominations() {
		c = c.Set(coin, i+1)
	}
	assert.Equal(t, Coins{Quarters: 1, Dimes: 2, Nickels: 3, Pennies: 4}, c)
	assert.Equal(t, 3, c.Count(Nickel))
}

func TestNewPayment(t *testing.T) {
	p := NewPayment("latte", dec("1.50"))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, StatusAwaitingCoins, p.Status)
	assert.NotEqual(t, p.ID, NewPayment("latte", dec("1.50")).ID)
}

func TestFixedFeeder(t *testing.T) {
	want := Coins{Quarters: 4}
	got, err := Fixed(want).Coins(context.Background(), "latte", dec("1.50"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
