package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/shopspring/decimal"
)

// Both implementations must satisfy the ledger's oracle contract.
var (
	_ domain.PriceOracle = (*Table)(nil)
	_ domain.PriceOracle = Func(nil)
)

func TestDefaultTable(t *testing.T) {
	tbl := DefaultTable()
	tests := map[string]string{
		"AAPL":  "150",
		"TSLA":  "700",
		"GOOGL": "2800",
		"aapl":  "150",
		" tsla": "700",
		"MSFT":  "0",
		"":      "0",
	}
	for symbol, want := range tests {
		if got := tbl.Price(symbol); !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("Price(%q) = %s, want %s", symbol, got, want)
		}
	}
}

func TestTable_Symbols(t *testing.T) {
	got := DefaultTable().Symbols()
	want := []string{"AAPL", "GOOGL", "TSLA"}
	if len(got) != len(want) {
		t.Fatalf("Symbols() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Symbols()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTable_Known(t *testing.T) {
	tbl := DefaultTable()
	if !tbl.Known("googl") {
		t.Error("expected GOOGL to be known")
	}
	if tbl.Known("MSFT") {
		t.Error("expected MSFT to be unknown")
	}
}

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable([]byte(`
prices:
  AAPL: 151.25
  msft: "410"
  FREE: 0
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tbl.Price("AAPL"); !got.Equal(decimal.RequireFromString("151.25")) {
		t.Errorf("AAPL = %s, want 151.25", got)
	}
	if got := tbl.Price("MSFT"); !got.Equal(decimal.NewFromInt(410)) {
		t.Errorf("MSFT = %s, want 410", got)
	}
	if !tbl.Known("FREE") || !tbl.Price("FREE").IsZero() {
		t.Errorf("FREE should be listed at zero")
	}
}

func TestParseTable_Invalid(t *testing.T) {
	tests := map[string]string{
		"malformed yaml":  "prices: [",
		"empty":           "prices: {}",
		"not a number":    "prices:\n  AAPL: abc\n",
		"negative":        "prices:\n  AAPL: -1\n",
		"sub-cent":        "prices:\n  AAPL: 1.005\n",
		"bad symbol":      "prices:\n  AA-PL: 10\n",
		"symbol too long": "prices:\n  ABCDEFGHIJK: 10\n",
		"case duplicate":  "prices:\n  AAPL: 10\n  aapl: 11\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTable([]byte(doc)); err == nil {
				t.Fatalf("expected error for %q", doc)
			}
		})
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	if err := os.WriteFile(path, []byte("prices:\n  NVDA: 120.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tbl.Price("NVDA"); !got.Equal(decimal.RequireFromString("120.5")) {
		t.Errorf("NVDA = %s, want 120.5", got)
	}

	if _, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFunc(t *testing.T) {
	f := Func(func(string) decimal.Decimal { return decimal.NewFromInt(200) })
	if got := f.Price("ANY"); !got.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Price = %s, want 200", got)
	}
}

func TestValidSymbol(t *testing.T) {
	for _, s := range []string{"A", "AAPL", "ABCDEFGHIJ"} {
		if !ValidSymbol(s) {
			t.Errorf("ValidSymbol(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "aapl", "BRK.B", "ABCDEFGHIJK", "A1"} {
		if ValidSymbol(s) {
			t.Errorf("ValidSymbol(%q) = true, want false", s)
		}
	}
}
