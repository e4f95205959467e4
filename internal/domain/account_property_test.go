package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

var propertySymbols = []string{"AAPL", "TSLA", "GOOGL", "NOPE"}

// drawAmount draws a cent-precision amount in [-100.00, 50000.00].
func drawAmount(t *rapid.T, label string) decimal.Decimal {
	return CentsToDollars(rapid.Int64Range(-10_000, 5_000_000).Draw(t, label))
}

// checkInvariants verifies the ledger invariants that must hold after
// every operation, recomputing derived values from scratch.
func checkInvariants(t *rapid.T, a *Account, prices priceMap) {
	if a.CashBalance().IsNegative() {
		t.Fatalf("cash balance went negative: %s", a.CashBalance())
	}

	want := a.CashBalance()
	for sym, q := range a.Holdings() {
		if q <= 0 {
			t.Fatalf("holdings exposes non-positive quantity %d for %s", q, sym)
		}
		want = want.Add(prices.Price(sym).Mul(decimal.NewFromInt(q)))
	}
	if got := a.PortfolioValue(); !got.Equal(want) {
		t.Fatalf("portfolio value = %s, recomputed %s", got, want)
	}

	var cash decimal.Decimal
	for _, tx := range a.TransactionHistory() {
		cash = cash.Add(tx.CashDelta())
	}
	if !cash.Equal(a.CashBalance()) {
		t.Fatalf("replayed cash %s != cash balance %s", cash, a.CashBalance())
	}
}

func TestProperty_LedgerInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prices := testPrices()
		a := NewAccount(prices)
		var firstDeposit decimal.Decimal
		funded := false

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before := len(a.TransactionHistory())
			ts := fmt.Sprintf("t-%d", i)

			var err error
			switch op := rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("op-%d", i)); op {
			case 0:
				amount := drawAmount(t, fmt.Sprintf("deposit-%d", i))
				_, err = a.Deposit(amount, ts)
				if err == nil && !funded {
					firstDeposit, funded = amount, true
				}
			case 1:
				_, err = a.Withdraw(drawAmount(t, fmt.Sprintf("withdraw-%d", i)), ts)
			case 2:
				sym := rapid.SampledFrom(propertySymbols).Draw(t, fmt.Sprintf("buySym-%d", i))
				qty := rapid.Int64Range(-2, 20).Draw(t, fmt.Sprintf("buyQty-%d", i))
				_, err = a.BuyShares(sym, qty, ts)
			case 3:
				sym := rapid.SampledFrom(propertySymbols).Draw(t, fmt.Sprintf("sellSym-%d", i))
				qty := rapid.Int64Range(-2, 20).Draw(t, fmt.Sprintf("sellQty-%d", i))
				_, err = a.SellShares(sym, qty, ts)
			}

			after := len(a.TransactionHistory())
			if err == nil && after != before+1 {
				t.Fatalf("successful op grew log by %d, want 1", after-before)
			}
			if err != nil && after != before {
				t.Fatalf("failed op (%v) changed log length %d -> %d", err, before, after)
			}

			initial, ok := a.InitialDeposit()
			if ok != funded || !initial.Equal(firstDeposit) {
				t.Fatalf("initial deposit = %s (set=%v), want %s (set=%v)", initial, ok, firstDeposit, funded)
			}
			checkInvariants(t, a, prices)
		}
	})
}

func TestProperty_RejectedOpsLeaveStateUnchanged(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := NewAccount(testPrices())
		if _, err := a.Deposit(CentsToDollars(rapid.Int64Range(1, 1_000_000).Draw(t, "seed")), "t0"); err != nil {
			t.Fatalf("seed deposit: %v", err)
		}
		cash := a.CashBalance()
		holdings := a.Holdings()

		bad := CentsToDollars(rapid.Int64Range(-1_000_000, 0).Draw(t, "bad"))
		if _, err := a.Deposit(bad, "t1"); err == nil {
			t.Fatalf("deposit(%s) should fail", bad)
		}
		if _, err := a.Withdraw(bad, "t2"); err == nil {
			t.Fatalf("withdraw(%s) should fail", bad)
		}
		over := cash.Add(CentsToDollars(rapid.Int64Range(1, 1_000_000).Draw(t, "over")))
		if _, err := a.Withdraw(over, "t3"); err == nil {
			t.Fatalf("withdraw(%s) over balance %s should fail", over, cash)
		}
		if _, err := a.SellShares("AAPL", rapid.Int64Range(1, 100).Draw(t, "sell"), "t4"); err == nil {
			t.Fatal("selling a symbol never held should fail")
		}

		if !a.CashBalance().Equal(cash) {
			t.Fatalf("cash balance changed: %s -> %s", cash, a.CashBalance())
		}
		if len(a.Holdings()) != len(holdings) {
			t.Fatalf("holdings changed: %v -> %v", holdings, a.Holdings())
		}
		if n := len(a.TransactionHistory()); n != 1 {
			t.Fatalf("history length = %d, want 1", n)
		}
	})
}

func TestProperty_BuySellRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := NewAccount(testPrices())
		deposit := CentsToDollars(rapid.Int64Range(1, 100_000_000).Draw(t, "deposit"))
		if _, err := a.Deposit(deposit, "t0"); err != nil {
			t.Fatalf("deposit: %v", err)
		}
		sym := rapid.SampledFrom([]string{"AAPL", "TSLA", "GOOGL"}).Draw(t, "symbol")
		qty := rapid.Int64Range(1, 500).Draw(t, "qty")

		if _, err := a.BuyShares(sym, qty, "t1"); err != nil {
			// Only an unaffordable purchase may fail here.
			if a.CashBalance().Equal(deposit) {
				return
			}
			t.Fatalf("failed buy mutated cash: %v", err)
		}
		if _, err := a.SellShares(sym, qty, "t2"); err != nil {
			t.Fatalf("sell back: %v", err)
		}
		if !a.CashBalance().Equal(deposit) {
			t.Fatalf("cash after round trip = %s, want %s", a.CashBalance(), deposit)
		}
		if q := a.Quantity(sym); q != 0 {
			t.Fatalf("%s quantity after round trip = %d, want 0", sym, q)
		}
		if _, ok := a.Holdings()[sym]; ok {
			t.Fatalf("%s still listed in holdings after round trip", sym)
		}
	})
}
