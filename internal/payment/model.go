package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInsufficientPayment = errors.New("insufficient payment")

type Coin string

const (
	Quarter Coin = "quarters"
	Dime    Coin = "dimes"
	Nickel  Coin = "nickels"
	Penny   Coin = "pennies"
)

var coinValues = map[Coin]decimal.Decimal{
	Quarter: decimal.New(25, -2),
	Dime:    decimal.New(10, -2),
	Nickel:  decimal.New(5, -2),
	Penny:   decimal.New(1, -2),
}

// Denominations lists coins in the order they are inserted.
func Denominations() []Coin {
	return []Coin{Quarter, Dime, Nickel, Penny}
}

func (c Coin) Value() decimal.Decimal {
	return coinValues[c]
}

type Coins struct {
	Quarters int
	Dimes    int
	Nickels  int
	Pennies  int
}

func (c Coins) Count(coin Coin) int {
	switch coin {
	case Quarter:
		return c.Quarters
	case Dime:
		return c.Dimes
	case Nickel:
		return c.Nickels
	case Penny:
		return c.Pennies
	}
	return 0
}

// Set returns a copy with the count for coin replaced.
func (c Coins) Set(coin Coin, n int) Coins {
	switch coin {
	case Quarter:
		c.Quarters = n
	case Dime:
		c.Dimes = n
	case Nickel:
		c.Nickels = n
	case Penny:
		c.Pennies = n
	}
	return c
}

func (c Coins) Validate() error {
	for _, coin := range Denominations() {
		if n := c.Count(coin); n < 0 {
			return fmt.Errorf("negative count %d for %s", n, coin)
		}
	}
	return nil
}

type Status string

const (
	StatusAwaitingCoins Status = "awaiting_coins"
	StatusAccepted      Status = "accepted"
	StatusRefused       Status = "refused"
)

// Verdict is the outcome of comparing inserted money against a cost.
type Verdict struct {
	Status Status
	Change decimal.Decimal
}

func (v Verdict) Accepted() bool {
	return v.Status == StatusAccepted
}

// Payment is the in-flight state of one serve cycle. It is never stored.
type Payment struct {
	ID       string
	Drink    string
	Cost     decimal.Decimal
	Received decimal.Decimal
	Change   decimal.Decimal
	Status   Status
}

func NewPayment(drink string, cost decimal.Decimal) *Payment {
	return &Payment{
		ID:     uuid.NewString(),
		Drink:  drink,
		Cost:   cost,
		Status: StatusAwaitingCoins,
	}
}

// CoinFeeder supplies the coins for a drink once it has passed the stock
// check. The console prompts the customer; Fixed serves programmatic callers.
type CoinFeeder interface {
	Coins(ctx context.Context, drink string, cost decimal.Decimal) (Coins, error)
}

type CoinFeederFunc func(ctx context.Context, drink string, cost decimal.Decimal) (Coins, error)

func (f CoinFeederFunc) Coins(ctx context.Context, drink string, cost decimal.Decimal) (Coins, error) {
	return f(ctx, drink, cost)
}

// Fixed always inserts the same coins.
func Fixed(c Coins) CoinFeeder {
	return CoinFeederFunc(func(context.Context, string, decimal.Decimal) (Coins, error) {
		return c, nil
	})
}
