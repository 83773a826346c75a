package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/coffee-machine-go/internal/inventory"
	"github.com/andreasstove999/coffee-machine-go/internal/machine"
	"github.com/andreasstove999/coffee-machine-go/internal/menu"
	"github.com/andreasstove999/coffee-machine-go/internal/payment"
)

const (
	msgUnavailable   = "Sorry that item is not available."
	msgShortage      = "Sorry there is not enough %s."
	msgNotEnoughCash = "Sorry that's not enough money. Money refunded."
	msgFailure       = "Sorry, something went wrong. Please try again."
	msgGoodbye       = "Goodbye!"
	msgRefillUsage   = "Usage: refill <water|milk|coffee> <amount>"
	msgRefillTooMuch = "Sorry the %s container cannot hold that much."
	msgBadCoinCount  = "Please enter a whole number of coins."
)

// Machine is what the prompt loop drives.
type Machine interface {
	Menu() []string
	Drinks() []menu.Drink
	Serve(ctx context.Context, selection string, feeder payment.CoinFeeder) (machine.Receipt, error)
	Report() machine.Report
	Restock(ing inventory.Ingredient, quantity int) error
	Shutdown()
	Off() bool
}

type Console struct {
	machine Machine
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
}

func New(m Machine, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		machine: m,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run prompts until the machine stops and then returns nil. A cancelled
// context or a failed read is returned as an error.
func (c *Console) Run(ctx context.Context) error {
	prompt := fmt.Sprintf("What would you like? (%s): ", strings.Join(c.machine.Menu(), "/"))

	for {
		if err := ctx.Err(); err != nil {
			c.machine.Shutdown()
			return err
		}

		if c.machine.Off() {
			return c.stop(nil)
		}

		fmt.Fprint(c.out, prompt)
		line, err := c.readLine()
		if err != nil {
			return c.stop(err)
		}

		fields := strings.Fields(strings.ToLower(line))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "off":
			return c.stop(nil)
		case "report":
			c.printReport()
		case "menu":
			c.printMenu()
		case "refill":
			c.refill(fields[1:])
		default:
			if err := c.serve(ctx, strings.Join(fields, " ")); err != nil {
				return c.stop(err)
			}
		}
	}
}

func (c *Console) stop(err error) error {
	c.machine.Shutdown()
	fmt.Fprintln(c.out, msgGoodbye)
	if errors.Is(err, io.EOF) || errors.Is(err, machine.ErrShutdown) {
		return nil
	}
	return err
}

// serve returns an error only when the loop has to end.
func (c *Console) serve(ctx context.Context, selection string) error {
	receipt, err := c.machine.Serve(ctx, selection, feeder{c})

	var shortage *inventory.ShortageError
	switch {
	case err == nil:
		if receipt.Change.IsPositive() {
			fmt.Fprintf(c.out, "Here is $%s in change.\n", receipt.Change.StringFixed(2))
		}
		fmt.Fprintf(c.out, "Here is your %s. Enjoy!\n", receipt.Drink)
	case errors.Is(err, menu.ErrUnknownDrink):
		fmt.Fprintln(c.out, msgUnavailable)
	case errors.As(err, &shortage):
		fmt.Fprintf(c.out, msgShortage+"\n", shortage.Ingredient)
	case errors.Is(err, payment.ErrInsufficientPayment):
		fmt.Fprintln(c.out, msgNotEnoughCash)
	case errors.Is(err, io.EOF), errors.Is(err, context.Canceled), errors.Is(err, machine.ErrShutdown):
		return err
	default:
		c.logger.Error("serve failed", zap.String("selection", selection), zap.Error(err))
		fmt.Fprintln(c.out, msgFailure)
	}
	return nil
}

func (c *Console) printReport() {
	report := c.machine.Report()
	for _, ing := range inventory.Ingredients() {
		fmt.Fprintf(c.out, "%s: %d%s\n", title(string(ing)), report.Stock[ing], ing.Unit())
	}
	fmt.Fprintf(c.out, "Money: $%s\n", report.Earnings.StringFixed(2))
}

// printMenu lists each drink with its price and recipe.
func (c *Console) printMenu() {
	for _, d := range c.machine.Drinks() {
		parts := make([]string, 0, len(d.Requirements))
		for _, req := range d.Requirements {
			if req.Quantity == 0 {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s %d%s", req.Ingredient, req.Quantity, req.Ingredient.Unit()))
		}
		fmt.Fprintf(c.out, "%s: $%s (%s)\n", d.Name, d.Cost.StringFixed(2), strings.Join(parts, ", "))
	}
}

func (c *Console) refill(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, msgRefillUsage)
		return
	}
	ing, err := inventory.ParseIngredient(args[0])
	if err != nil {
		fmt.Fprintln(c.out, msgRefillUsage)
		return
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil || qty < 0 {
		fmt.Fprintln(c.out, msgRefillUsage)
		return
	}
	if err := c.machine.Restock(ing, qty); err != nil {
		if errors.Is(err, inventory.ErrStockOverflow) {
			fmt.Fprintf(c.out, msgRefillTooMuch+"\n", ing)
			return
		}
		c.logger.Error("restock failed", zap.Error(err))
		fmt.Fprintln(c.out, msgFailure)
		return
	}
	fmt.Fprintf(c.out, "Refilled %s by %d%s.\n", ing, qty, ing.Unit())
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}

// feeder asks for each denomination in turn, re-prompting on bad input.
type feeder struct {
	c *Console
}

func (f feeder) Coins(ctx context.Context, drink string, cost decimal.Decimal) (payment.Coins, error) {
	var coins payment.Coins
	fmt.Fprintln(f.c.out, "Please insert coins.")
	for _, coin := range payment.Denominations() {
		for {
			if err := ctx.Err(); err != nil {
				return payment.Coins{}, err
			}
			fmt.Fprintf(f.c.out, "How many %s?: ", coin)
			line, err := f.c.readLine()
			if err != nil {
				return payment.Coins{}, err
			}
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil || n < 0 {
				fmt.Fprintln(f.c.out, msgBadCoinCount)
				continue
			}
			coins = coins.Set(coin, n)
			break
		}
	}
	return coins, nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
