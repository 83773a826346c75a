package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/coffee-machine-go/internal/inventory"
)

var (
	ErrUnknownDrink = errors.New("unknown drink")
	ErrInvalidDrink = errors.New("invalid drink")
)

type Drink struct {
	Name         string
	Cost         decimal.Decimal
	Requirements inventory.Requirements
}

func (d Drink) clone() Drink {
	d.Requirements = d.Requirements.Clone()
	return d
}

// Catalog is fixed once built. Lookups hand out copies so callers cannot
// change a definition.
type Catalog struct {
	drinks []Drink
	byName map[string]int
}

func NewCatalog(drinks ...Drink) (*Catalog, error) {
	c := &Catalog{
		drinks: make([]Drink, 0, len(drinks)),
		byName: make(map[string]int, len(drinks)),
	}
	for _, d := range drinks {
		name := normalize(d.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidDrink)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidDrink, name)
		}
		if d.Cost.IsNegative() {
			return nil, fmt.Errorf("%w: %s has negative cost %s", ErrInvalidDrink, name, d.Cost)
		}
		if err := d.Requirements.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDrink, name, err)
		}

		d = d.clone()
		d.Name = name
		d.Cost = d.Cost.Round(2)
		c.byName[name] = len(c.drinks)
		c.drinks = append(c.drinks, d)
	}
	return c, nil
}

// Default returns the machine's built-in menu.
func Default() *Catalog {
	c, err := NewCatalog(
		Drink{
			Name: "latte",
			Cost: decimal.RequireFromString("1.50"),
			Requirements: inventory.Requirements{
				{Ingredient: inventory.Water, Quantity: 200},
				{Ingredient: inventory.Milk, Quantity: 150},
				{Ingredient: inventory.Coffee, Quantity: 24},
			},
		},
		Drink{
			Name: "espresso",
			Cost: decimal.RequireFromString("1.50"),
			Requirements: inventory.Requirements{
				{Ingredient: inventory.Water, Quantity: 50},
				{Ingredient: inventory.Milk, Quantity: 0},
				{Ingredient: inventory.Coffee, Quantity: 18},
			},
		},
		Drink{
			Name: "cappuccino",
			Cost: decimal.RequireFromString("3.00"),
			Requirements: inventory.Requirements{
				{Ingredient: inventory.Water, Quantity: 250},
				{Ingredient: inventory.Milk, Quantity: 100},
				{Ingredient: inventory.Coffee, Quantity: 24},
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Names() []string {
	names := make([]string, len(c.drinks))
	for i, d := range c.drinks {
		names[i] = d.Name
	}
	return names
}

func (c *Catalog) Drinks() []Drink {
	out := make([]Drink, len(c.drinks))
	for i, d := range c.drinks {
		out[i] = d.clone()
	}
	return out
}

// Find matches the selection after trimming and lowercasing it.
func (c *Catalog) Find(name string) (Drink, error) {
	idx, ok := c.byName[normalize(name)]
	if !ok {
		return Drink{}, fmt.Errorf("%w %q", ErrUnknownDrink, name)
	}
	return c.drinks[idx].clone(), nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
