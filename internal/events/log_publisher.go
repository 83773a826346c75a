package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher stands in for the broker when RABBITMQ_URL is unset.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishDrinkServed(ctx context.Context, ev DrinkServed) error {
	p.logger.Debug("event",
		zap.String("type", EventTypeDrinkServed),
		zap.String("transaction_id", ev.TransactionID),
		zap.String("drink", ev.Drink))
	return nil
}

func (p *LogPublisher) PublishIngredientShortage(ctx context.Context, ev IngredientShortage) error {
	p.logger.Debug("event",
		zap.String("type", EventTypeIngredientShortage),
		zap.String("transaction_id", ev.TransactionID),
		zap.String("ingredient", ev.Ingredient))
	return nil
}

func (p *LogPublisher) PublishPaymentRefused(ctx context.Context, ev PaymentRefused) error {
	p.logger.Debug("event",
		zap.String("type", EventTypePaymentRefused),
		zap.String("transaction_id", ev.TransactionID),
		zap.String("drink", ev.Drink))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
