package inventory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownIngredient = errors.New("unknown ingredient")
	ErrInsufficient      = errors.New("insufficient ingredient")
	ErrStockOverflow     = errors.New("stock overflow")
)

type Ingredient string

const (
	Water  Ingredient = "water"
	Milk   Ingredient = "milk"
	Coffee Ingredient = "coffee"
)

// Ingredients returns the closed set in display order.
func Ingredients() []Ingredient {
	return []Ingredient{Water, Milk, Coffee}
}

func ParseIngredient(s string) (Ingredient, error) {
	ing := Ingredient(strings.ToLower(strings.TrimSpace(s)))
	if !ing.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownIngredient, s)
	}
	return ing, nil
}

func (i Ingredient) Valid() bool {
	switch i {
	case Water, Milk, Coffee:
		return true
	}
	return false
}

func (i Ingredient) Unit() string {
	if i == Coffee {
		return "g"
	}
	return "ml"
}

// Stock maps each ingredient to the quantity on hand.
type Stock map[Ingredient]int

type Requirement struct {
	Ingredient Ingredient
	Quantity   int
}

// Requirements keeps the declaration order of a recipe; shortages are
// reported against the first short entry in that order.
type Requirements []Requirement

func (r Requirements) Validate() error {
	seen := make(map[Ingredient]struct{}, len(r))
	for _, req := range r {
		if !req.Ingredient.Valid() {
			return fmt.Errorf("%w %q", ErrUnknownIngredient, req.Ingredient)
		}
		if req.Quantity < 0 {
			return fmt.Errorf("negative quantity %d for %s", req.Quantity, req.Ingredient)
		}
		if _, dup := seen[req.Ingredient]; dup {
			return fmt.Errorf("duplicate requirement for %s", req.Ingredient)
		}
		seen[req.Ingredient] = struct{}{}
	}
	return nil
}

func (r Requirements) Clone() Requirements {
	if r == nil {
		return nil
	}
	return append(Requirements(nil), r...)
}

// ShortageError names the first ingredient that could not cover a recipe.
type ShortageError struct {
	Ingredient Ingredient
	Requested  int
	Available  int
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("not enough %s: requested %d, available %d", e.Ingredient, e.Requested, e.Available)
}

func (e *ShortageError) Is(target error) bool {
	return target == ErrInsufficient
}
