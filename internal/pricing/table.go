// Package pricing provides the price sources the ledger marks positions
// against.
package pricing

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var symbolRegex = regexp.MustCompile(`^[A-Z]{1,10}$`)

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidSymbol reports whether symbol is a well-formed, normalized ticker.
func ValidSymbol(symbol string) bool {
	return symbolRegex.MatchString(symbol)
}

// Table is an immutable symbol → price lookup. Unknown symbols are
// priced at zero.
type Table struct {
	prices map[string]decimal.Decimal
}

// NewTable validates prices and copies them into a Table. Symbols are
// normalized; prices must be non-negative with at most 2 decimal places.
func NewTable(prices map[string]decimal.Decimal) (*Table, error) {
	t := &Table{prices: make(map[string]decimal.Decimal, len(prices))}
	for symbol, price := range prices {
		sym := NormalizeSymbol(symbol)
		if !ValidSymbol(sym) {
			return nil, fmt.Errorf("symbol must match %s, got %q", symbolRegex, symbol)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("price for %s must be >= 0, got %s", sym, price)
		}
		if !price.Equal(price.Round(2)) {
			return nil, fmt.Errorf("price for %s must have at most 2 decimal places, got %s", sym, price)
		}
		if _, dup := t.prices[sym]; dup {
			return nil, fmt.Errorf("duplicate symbol %s", sym)
		}
		t.prices[sym] = price
	}
	return t, nil
}

// DefaultTable returns the built-in quotes used when no price file is
// configured.
func DefaultTable() *Table {
	return &Table{prices: map[string]decimal.Decimal{
		"AAPL":  decimal.NewFromInt(150),
		"TSLA":  decimal.NewFromInt(700),
		"GOOGL": decimal.NewFromInt(2800),
	}}
}

// tableFile is the on-disk YAML layout:
//
//	prices:
//	  AAPL: 150.00
//	  TSLA: "700"
type tableFile struct {
	Prices map[string]string `yaml:"prices"`
}

// ParseTable decodes a YAML price table.
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode price table: %w", err)
	}
	if len(f.Prices) == 0 {
		return nil, fmt.Errorf("price table has no prices")
	}

	prices := make(map[string]decimal.Decimal, len(f.Prices))
	for symbol, raw := range f.Prices {
		price, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("price for %s: %w", symbol, err)
		}
		prices[symbol] = price
	}
	return NewTable(prices)
}

// LoadTable reads a YAML price table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price table: %w", err)
	}
	return ParseTable(data)
}

// Price returns the quote for symbol, or zero if it is not listed.
func (t *Table) Price(symbol string) decimal.Decimal {
	return t.prices[NormalizeSymbol(symbol)]
}

// Known reports whether symbol is listed.
func (t *Table) Known(symbol string) bool {
	_, ok := t.prices[NormalizeSymbol(symbol)]
	return ok
}

// Symbols returns the listed symbols in ascending order.
func (t *Table) Symbols() []string {
	symbols := make([]string, 0, len(t.prices))
	for sym := range t.prices {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// Func adapts a plain function to the ledger's PriceOracle interface.
type Func func(symbol string) decimal.Decimal

// Price calls f.
func (f Func) Price(symbol string) decimal.Decimal {
	return f(symbol)
}
