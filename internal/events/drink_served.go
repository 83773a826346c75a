package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventTypeDrinkServed = "DrinkServed"
	drinkServedSchema    = "coffee.drink-served.v1"
)

type DrinkServed struct {
	EventType     string          `json:"eventType,omitempty"`
	TransactionID string          `json:"transactionId"`
	Drink         string          `json:"drink"`
	Cost          decimal.Decimal `json:"cost"`
	Paid          decimal.Decimal `json:"paid"`
	Change        decimal.Decimal `json:"change"`
	Consumed      []IngredientUse `json:"consumed"`
	Timestamp     time.Time       `json:"timestamp"`
}

type IngredientUse struct {
	Ingredient string `json:"ingredient"`
	Quantity   int    `json:"quantity"`
	Remaining  int    `json:"remaining"`
}

type DrinkServedEvent struct {
	EventEnvelope
	Payload DrinkServed `json:"payload"`
}
