package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventTypePaymentRefused = "PaymentRefused"
	paymentRefusedSchema    = "coffee.payment-refused.v1"
)

type PaymentRefused struct {
	EventType     string          `json:"eventType,omitempty"`
	TransactionID string          `json:"transactionId"`
	Drink         string          `json:"drink"`
	Cost          decimal.Decimal `json:"cost"`
	Refunded      decimal.Decimal `json:"refunded"`
	Timestamp     time.Time       `json:"timestamp"`
}

type PaymentRefusedEvent struct {
	EventEnvelope
	Payload PaymentRefused `json:"payload"`
}
