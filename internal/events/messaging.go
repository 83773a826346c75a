package events

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange               = "coffee.events"
	DrinkServedRoutingKey        = "drink.served.v1"
	IngredientShortageRoutingKey = "ingredient.shortage.v1"
	PaymentRefusedRoutingKey     = "payment.refused.v1"
	producerName                 = "coffee-machine-go"
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

func declareEventsExchange(ch Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

func Dial(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Dial: amqp.DefaultDial(10 * time.Second),
	})
}
