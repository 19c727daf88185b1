package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidSymbol      = errors.New("invalid symbol")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxSymbolLength      = 20
	// MaxDecimalPlaces matches the scale of the NUMERIC(38,18) columns.
	MaxDecimalPlaces = 18
)

var symbolRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9._-]*$`)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	if strings.ContainsAny(name, "/?#") {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidAccountName)
	}

	return nil
}

// NormalizeSymbol trims and upper-cases a symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol validates a normalized symbol.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("%w: symbol cannot be empty", ErrInvalidSymbol)
	}

	if len(symbol) > MaxSymbolLength {
		return fmt.Errorf("%w: symbol exceeds %d characters", ErrInvalidSymbol, MaxSymbolLength)
	}

	if !symbolRegex.MatchString(symbol) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}

	return nil
}

// ValidateTrade checks the inputs of a buy or sell. Every failure wraps ErrInvalidTrade.
func ValidateTrade(symbol string, price, quantity decimal.Decimal) error {
	if err := ValidateSymbol(symbol); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTrade, err)
	}

	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive, got %s", ErrInvalidTrade, price)
	}

	if !quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive, got %s", ErrInvalidTrade, quantity)
	}

	if -price.Exponent() > MaxDecimalPlaces {
		return fmt.Errorf("%w: price has more than %d decimal places", ErrInvalidTrade, MaxDecimalPlaces)
	}

	if -quantity.Exponent() > MaxDecimalPlaces {
		return fmt.Errorf("%w: quantity has more than %d decimal places", ErrInvalidTrade, MaxDecimalPlaces)
	}

	// The notional moves the balance, which has the same scale as price and quantity.
	notional := price.Mul(quantity)
	if !notional.Equal(notional.Truncate(MaxDecimalPlaces)) {
		return fmt.Errorf("%w: notional %s has more than %d decimal places", ErrInvalidTrade, notional, MaxDecimalPlaces)
	}

	return nil
}

// Page sizes for account and history listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClampPagination applies the default page size, caps it at MaxPageSize and
// floors a negative offset at zero.
func ClampPagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
