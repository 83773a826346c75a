package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	ch               Channel
	seq              Sequencer
	publishEnveloped bool
	producer         string
	partitionKey     string
}

type PublisherOptions struct {
	PublishEnveloped bool
	Producer         string
	// MachineID partitions the event stream; one machine, one ordered partition.
	MachineID string
}

func NewPublisher(conn *amqp.Connection, seq Sequencer, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newPublisher(ch, seq, opts)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(ch Channel, seq Sequencer, opts PublisherOptions) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	producer := opts.Producer
	if producer == "" {
		producer = producerName
	}
	partitionKey := opts.MachineID
	if partitionKey == "" {
		partitionKey = producer
	}
	if seq == nil {
		seq = NewMemorySequence()
	}

	return &Publisher{
		ch:               ch,
		seq:              seq,
		publishEnveloped: opts.PublishEnveloped,
		producer:         producer,
		partitionKey:     partitionKey,
	}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

type EventMeta struct {
	CorrelationID string
	PartitionKey  string
}

func (p *Publisher) meta(transactionID string) EventMeta {
	return EventMeta{CorrelationID: transactionID, PartitionKey: p.partitionKey}
}

func (p *Publisher) PublishDrinkServed(ctx context.Context, ev DrinkServed) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	if !p.publishEnveloped {
		ev.EventType = EventTypeDrinkServed
		body, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal DrinkServed: %w", err)
		}
		return p.publishJSON(ctx, DrinkServedRoutingKey, body)
	}

	meta := p.meta(ev.TransactionID)
	seq, err := p.seq.NextSequence(ctx, meta.PartitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := newDrinkServedEvent(meta, seq, p.producer, ev)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal DrinkServed envelope: %w", err)
	}
	return p.publishJSON(ctx, DrinkServedRoutingKey, body)
}

func (p *Publisher) PublishIngredientShortage(ctx context.Context, ev IngredientShortage) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	if !p.publishEnveloped {
		ev.EventType = EventTypeIngredientShortage
		body, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal IngredientShortage: %w", err)
		}
		return p.publishJSON(ctx, IngredientShortageRoutingKey, body)
	}

	meta := p.meta(ev.TransactionID)
	seq, err := p.seq.NextSequence(ctx, meta.PartitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := newIngredientShortageEvent(meta, seq, p.producer, ev)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal IngredientShortage envelope: %w", err)
	}
	return p.publishJSON(ctx, IngredientShortageRoutingKey, body)
}

func (p *Publisher) PublishPaymentRefused(ctx context.Context, ev PaymentRefused) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	if !p.publishEnveloped {
		ev.EventType = EventTypePaymentRefused
		body, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal PaymentRefused: %w", err)
		}
		return p.publishJSON(ctx, PaymentRefusedRoutingKey, body)
	}

	meta := p.meta(ev.TransactionID)
	seq, err := p.seq.NextSequence(ctx, meta.PartitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := newPaymentRefusedEvent(meta, seq, p.producer, ev)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal PaymentRefused envelope: %w", err)
	}
	return p.publishJSON(ctx, PaymentRefusedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func newEnvelope(name, schema string, meta EventMeta, seq int64, producer string, occurredAt time.Time) EventEnvelope {
	return EventEnvelope{
		EventName:     name,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		Producer:      producer,
		PartitionKey:  meta.PartitionKey,
		Sequence:      seq,
		OccurredAt:    occurredAt,
		Schema:        schema,
	}
}

func newDrinkServedEvent(meta EventMeta, seq int64, producer string, payload DrinkServed) DrinkServedEvent {
	return DrinkServedEvent{
		EventEnvelope: newEnvelope(EventTypeDrinkServed, drinkServedSchema, meta, seq, producer, payload.Timestamp),
		Payload:       payload,
	}
}

func newIngredientShortageEvent(meta EventMeta, seq int64, producer string, payload IngredientShortage) IngredientShortageEvent {
	return IngredientShortageEvent{
		EventEnvelope: newEnvelope(EventTypeIngredientShortage, ingredientShortageSchema, meta, seq, producer, payload.Timestamp),
		Payload:       payload,
	}
}

func newPaymentRefusedEvent(meta EventMeta, seq int64, producer string, payload PaymentRefused) PaymentRefusedEvent {
	return PaymentRefusedEvent{
		EventEnvelope: newEnvelope(EventTypePaymentRefused, paymentRefusedSchema, meta, seq, producer, payload.Timestamp),
		Payload:       payload,
	}
}
