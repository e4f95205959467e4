// Package report renders ledger results as the short human-readable
// messages shown to the account holder.
package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/shopspring/decimal"
)

var usd = money.GetCurrency(money.USD).Formatter()

// Dollars formats d as US dollars, e.g. "$1,234.50" or "-$3.00", rounding
// half away from zero to the cent. Amounts beyond the int64 cents range
// render exactly.
func Dollars(d decimal.Decimal) string {
	places := int32(usd.Fraction)
	rounded := d.Round(places)

	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(places), ".")
	if usd.Thousand != "" {
		for i := len(whole) - 3; i > 0; i -= 3 {
			whole = whole[:i] + usd.Thousand + whole[i:]
		}
	}
	if frac != "" {
		whole += usd.Decimal + frac
	}

	s := strings.Replace(usd.Template, "1", whole, 1)
	s = strings.Replace(s, "$", usd.Grapheme, 1)
	if rounded.IsNegative() {
		s = "-" + s
	}
	return s
}

// AccountOpened confirms a new account.
func AccountOpened() string {
	return "Account created successfully."
}

// Deposited confirms a deposit of amount.
func Deposited(amount decimal.Decimal) string {
	return fmt.Sprintf("Deposited %s successfully.", Dollars(amount))
}

// Withdrew confirms a withdrawal of amount.
func Withdrew(amount decimal.Decimal) string {
	return fmt.Sprintf("Withdrew %s successfully.", Dollars(amount))
}

// Bought confirms a purchase, e.g. "Bought 1 share of TSLA.".
func Bought(quantity int64, symbol string) string {
	return fmt.Sprintf("Bought %d %s of %s.", quantity, shares(quantity), symbol)
}

// Sold confirms a sale.
func Sold(quantity int64, symbol string) string {
	return fmt.Sprintf("Sold %d %s of %s.", quantity, shares(quantity), symbol)
}

// Transaction renders the confirmation message for a committed transaction.
func Transaction(t domain.Transaction) string {
	switch t.Type {
	case domain.TransactionDeposit:
		return Deposited(t.Amount)
	case domain.TransactionWithdraw:
		return Withdrew(t.Amount)
	case domain.TransactionBuy:
		return Bought(t.Quantity, t.Symbol)
	case domain.TransactionSell:
		return Sold(t.Quantity, t.Symbol)
	}
	return ""
}

// PortfolioValue reports the account's total worth.
func PortfolioValue(v decimal.Decimal) string {
	return "Total Portfolio Value: " + Dollars(v)
}

// ProfitLoss reports gain or loss against the first deposit.
func ProfitLoss(pl decimal.Decimal) string {
	return "Profit/Loss since initial deposit: " + Dollars(pl)
}

// Quote renders a symbol's price as "SYM: $x".
func Quote(symbol string, price decimal.Decimal) string {
	return fmt.Sprintf("%s: %s", symbol, Dollars(price))
}

// Holdings lists one "SYM: N shares" line per position.
func Holdings(positions []domain.Position) string {
	if len(positions) == 0 {
		return "No holdings."
	}
	lines := make([]string, len(positions))
	for i, p := range positions {
		lines[i] = fmt.Sprintf("%s: %d %s", p.Symbol, p.Quantity, shares(p.Quantity))
	}
	return strings.Join(lines, "\n")
}

// History lists one line per transaction, oldest first.
func History(transactions []domain.Transaction) string {
	if len(transactions) == 0 {
		return "No transactions."
	}
	lines := make([]string, len(transactions))
	for i, t := range transactions {
		verb := strings.ToUpper(string(t.Type[:1])) + string(t.Type[1:])
		if t.IsTrade() {
			lines[i] = fmt.Sprintf("%s: %s %d %s at %s", t.Timestamp, verb, t.Quantity, t.Symbol, Dollars(t.Price))
		} else {
			lines[i] = fmt.Sprintf("%s: %s %s", t.Timestamp, verb, Dollars(t.Amount))
		}
	}
	return strings.Join(lines, "\n")
}

func shares(n int64) string {
	if n == 1 {
		return "share"
	}
	return "shares"
}
