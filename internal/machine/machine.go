package machine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/coffee-machine-go/internal/events"
	"github.com/andreasstove999/coffee-machine-go/internal/inventory"
	"github.com/andreasstove999/coffee-machine-go/internal/menu"
	"github.com/andreasstove999/coffee-machine-go/internal/payment"
)

var ErrShutdown = errors.New("machine is off")

// PaymentError reports a refused payment. The inserted amount is returned in full.
type PaymentError struct {
	Drink    string
	Cost     decimal.Decimal
	Refunded decimal.Decimal
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s costs %s, received %s: refunded", e.Drink, e.Cost.StringFixed(2), e.Refunded.StringFixed(2))
}

func (e *PaymentError) Unwrap() error {
	return payment.ErrInsufficientPayment
}

type EventPublisher interface {
	PublishDrinkServed(ctx context.Context, ev events.DrinkServed) error
	PublishIngredientShortage(ctx context.Context, ev events.IngredientShortage) error
	PublishPaymentRefused(ctx context.Context, ev events.PaymentRefused) error
}

type Receipt struct {
	TransactionID string
	Drink         string
	Paid          decimal.Decimal
	Change        decimal.Decimal
}

type Report struct {
	Stock    inventory.Stock
	Earnings decimal.Decimal
}

// Machine runs one serve cycle at a time over the catalog, stock and till.
// The off flag lives outside mu so Shutdown never waits on a serve that is
// blocked collecting coins.
type Machine struct {
	mu     sync.Mutex
	off    atomic.Bool
	menu   *menu.Catalog
	stock  *inventory.Ledger
	till   *payment.Processor
	events EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Machine)

func WithEvents(p EventPublisher) Option {
	return func(m *Machine) { m.events = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// New assembles a machine. Without options it logs nowhere and publishes
// events to a LogPublisher.
func New(catalog *menu.Catalog, stock *inventory.Ledger, till *payment.Processor, opts ...Option) *Machine {
	m := &Machine{
		menu:   catalog,
		stock:  stock,
		till:   till,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.events == nil {
		m.events = events.NewLogPublisher(m.logger)
	}
	return m
}

// Menu lists drink names in catalog order.
func (m *Machine) Menu() []string {
	return m.menu.Names()
}

func (m *Machine) Drinks() []menu.Drink {
	return m.menu.Drinks()
}

// Serve runs one transaction. Any error leaves stock and earnings untouched.
func (m *Machine) Serve(ctx context.Context, selection string, feeder payment.CoinFeeder) (Receipt, error) {
	receipt, notify, err := m.serve(ctx, selection, feeder)
	if notify != nil {
		if pubErr := notify(ctx); pubErr != nil {
			m.logger.Warn("publish event failed", zap.Error(pubErr))
		}
	}
	return receipt, err
}

// serve holds the lock for the whole check-pay-deduct sequence so a
// sufficiency check can never go stale before the deduction.
func (m *Machine) serve(ctx context.Context, selection string, feeder payment.CoinFeeder) (Receipt, func(context.Context) error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.off.Load() {
		return Receipt{}, nil, ErrShutdown
	}

	drink, err := m.menu.Find(selection)
	if err != nil {
		m.logger.Debug("unknown selection", zap.String("selection", selection))
		return Receipt{}, nil, err
	}

	pending := payment.NewPayment(drink.Name, drink.Cost)
	log := m.logger.With(zap.String("transaction_id", pending.ID), zap.String("drink", drink.Name))

	if err := m.stock.Check(drink.Requirements); err != nil {
		var shortage *inventory.ShortageError
		if !errors.As(err, &shortage) {
			return Receipt{}, nil, err
		}
		log.Debug("ingredient shortage",
			zap.String("ingredient", string(shortage.Ingredient)),
			zap.Int("requested", shortage.Requested),
			zap.Int("available", shortage.Available))
		ev := events.IngredientShortage{
			TransactionID: pending.ID,
			Drink:         drink.Name,
			Ingredient:    string(shortage.Ingredient),
			Requested:     shortage.Requested,
			Available:     shortage.Available,
			Timestamp:     m.now(),
		}
		return Receipt{}, func(ctx context.Context) error { return m.events.PublishIngredientShortage(ctx, ev) }, err
	}

	coins, err := feeder.Coins(ctx, drink.Name, drink.Cost)
	if err != nil {
		return Receipt{}, nil, fmt.Errorf("collect coins for %s: %w", drink.Name, err)
	}
	if err := coins.Validate(); err != nil {
		return Receipt{}, nil, fmt.Errorf("collect coins for %s: %w", drink.Name, err)
	}
	// Switched off while the customer was paying: refund by doing nothing.
	if m.off.Load() {
		return Receipt{}, nil, ErrShutdown
	}

	pending.Received = m.till.CollectCoins(coins)
	verdict := m.till.Evaluate(pending.Received, drink.Cost)
	pending.Status = verdict.Status

	if !verdict.Accepted() {
		log.Debug("payment refused",
			zap.String("cost", drink.Cost.StringFixed(2)),
			zap.String("received", pending.Received.StringFixed(2)))
		ev := events.PaymentRefused{
			TransactionID: pending.ID,
			Drink:         drink.Name,
			Cost:          drink.Cost,
			Refunded:      pending.Received,
			Timestamp:     m.now(),
		}
		perr := &PaymentError{Drink: drink.Name, Cost: drink.Cost, Refunded: pending.Received}
		return Receipt{}, func(ctx context.Context) error { return m.events.PublishPaymentRefused(ctx, ev) }, perr
	}

	pending.Change = verdict.Change
	m.stock.Deduct(drink.Requirements)
	m.till.RecordEarning(drink.Cost)

	log.Debug("drink served",
		zap.String("paid", pending.Received.StringFixed(2)),
		zap.String("change", pending.Change.StringFixed(2)))

	remaining := m.stock.Snapshot()
	ev := events.DrinkServed{
		TransactionID: pending.ID,
		Drink:         drink.Name,
		Cost:          drink.Cost,
		Paid:          pending.Received,
		Change:        pending.Change,
		Timestamp:     m.now(),
	}
	for _, req := range drink.Requirements {
		ev.Consumed = append(ev.Consumed, events.IngredientUse{
			Ingredient: string(req.Ingredient),
			Quantity:   req.Quantity,
			Remaining:  remaining[req.Ingredient],
		})
	}

	receipt := Receipt{
		TransactionID: pending.ID,
		Drink:         drink.Name,
		Paid:          pending.Received,
		Change:        pending.Change,
	}
	return receipt, func(ctx context.Context) error { return m.events.PublishDrinkServed(ctx, ev) }, nil
}

// Report snapshots stock and earnings. It has no side effects.
func (m *Machine) Report() Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Report{
		Stock:    m.stock.Snapshot(),
		Earnings: m.till.Earnings(),
	}
}

// Restock tops up one ingredient between serve cycles.
func (m *Machine) Restock(ing inventory.Ingredient, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.off.Load() {
		return ErrShutdown
	}
	if err := m.stock.Restock(ing, quantity); err != nil {
		return err
	}
	m.logger.Debug("restocked", zap.String("ingredient", string(ing)), zap.Int("quantity", quantity))
	return nil
}

// Shutdown marks the machine off; the console stops prompting after it.
// It does not take the serve lock, so it returns even while a serve is
// waiting for coins. That serve then ends with ErrShutdown.
func (m *Machine) Shutdown() {
	if m.off.CompareAndSwap(false, true) {
		m.logger.Debug("machine shutting down")
	}
}

// Off reports whether Shutdown has been called.
func (m *Machine) Off() bool {
	return m.off.Load()
}
