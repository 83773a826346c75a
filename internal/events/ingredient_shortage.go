package events

import "time"

const (
	EventTypeIngredientShortage = "IngredientShortage"
	ingredientShortageSchema    = "coffee.ingredient-shortage.v1"
)

type IngredientShortage struct {
	EventType     string    `json:"eventType,omitempty"`
	TransactionID string    `json:"transactionId"`
	Drink         string    `json:"drink"`
	Ingredient    string    `json:"ingredient"`
	Requested     int       `json:"requested"`
	Available     int       `json:"available"`
	Timestamp     time.Time `json:"timestamp"`
}

type IngredientShortageEvent struct {
	EventEnvelope
	Payload IngredientShortage `json:"payload"`
}
