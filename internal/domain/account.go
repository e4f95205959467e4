package domain

import (
	"fmt"
	"math"

	"github.com/google/btree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position is the quantity of a single symbol currently held.
type Position struct {
	Symbol   string
	Quantity int64
}

// positionLess orders positions by symbol so iteration is deterministic.
func positionLess(a, b Position) bool {
	return a.Symbol < b.Symbol
}

// PositionValue is a position marked to the oracle price.
type PositionValue struct {
	Position
	Price       decimal.Decimal
	MarketValue decimal.Decimal
}

// Valuation is a point-in-time breakdown of the account's worth.
type Valuation struct {
	Cash      decimal.Decimal
	Positions []PositionValue
	Total     decimal.Decimal
}

// Account is a single user's brokerage ledger: cash, share positions
// and the log of committed transactions.
//
// Every mutating operation validates all of its preconditions before
// touching state, so a rejected call leaves the account exactly as it
// was. Account is not safe for concurrent use; callers sharing one
// must serialise access.
type Account struct {
	cash           decimal.Decimal
	initialDeposit decimal.Decimal
	funded         bool
	positions      *btree.BTreeG[Position] // zero quantities are never stored
	transactions   []Transaction
	oracle         PriceOracle
	newID          func() string
}

// NewAccount creates an empty account priced by oracle.
func NewAccount(oracle PriceOracle) *Account {
	const degree = 8
	return &Account{
		positions: btree.NewG[Position](degree, positionLess),
		oracle:    oracle,
		newID:     uuid.NewString,
	}
}

// CashBalance returns the uninvested cash.
func (a *Account) CashBalance() decimal.Decimal {
	return a.cash
}

// InitialDeposit returns the amount of the first successful deposit,
// and false if no deposit has been made yet.
func (a *Account) InitialDeposit() (decimal.Decimal, bool) {
	return a.initialDeposit, a.funded
}

// Quantity returns the number of shares held for symbol, or 0.
func (a *Account) Quantity(symbol string) int64 {
	p, ok := a.positions.Get(Position{Symbol: symbol})
	if !ok {
		return 0
	}
	return p.Quantity
}

// Deposit adds amount to the cash balance. The first successful deposit
// fixes the profit/loss baseline.
func (a *Account) Deposit(amount decimal.Decimal, timestamp string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: deposit amount must be positive, got %s", ErrInvalidAmount, amount)
	}

	a.cash = a.cash.Add(amount)
	if !a.funded {
		a.initialDeposit = amount
		a.funded = true
	}
	return a.record(Transaction{
		Type:      TransactionDeposit,
		Amount:    amount,
		Timestamp: timestamp,
	}), nil
}

// Withdraw removes amount from the cash balance.
func (a *Account) Withdraw(amount decimal.Decimal, timestamp string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: withdrawal amount must be positive, got %s", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(a.cash) {
		return Transaction{}, fmt.Errorf("%w: cannot withdraw %s, cash balance is %s", ErrInsufficientFunds, amount, a.cash)
	}

	a.cash = a.cash.Sub(amount)
	return a.record(Transaction{
		Type:      TransactionWithdraw,
		Amount:    amount,
		Timestamp: timestamp,
	}), nil
}

// BuyShares purchases quantity shares of symbol at the oracle price.
// Symbols the oracle cannot price are rejected rather than bought for
// nothing.
func (a *Account) BuyShares(symbol string, quantity int64, timestamp string) (Transaction, error) {
	if quantity <= 0 {
		return Transaction{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, quantity)
	}
	price := a.oracle.Price(symbol)
	if !price.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: no price for %q", ErrPriceUnavailable, symbol)
	}
	held := a.Quantity(symbol)
	if quantity > math.MaxInt64-held {
		return Transaction{}, fmt.Errorf("%w: buying %d %s would overflow the position of %d",
			ErrInvalidQuantity, quantity, symbol, held)
	}
	cost := price.Mul(decimal.NewFromInt(quantity))
	if cost.GreaterThan(a.cash) {
		return Transaction{}, fmt.Errorf("%w: %d %s costs %s, cash balance is %s",
			ErrInsufficientFunds, quantity, symbol, cost, a.cash)
	}

	a.cash = a.cash.Sub(cost)
	a.positions.ReplaceOrInsert(Position{Symbol: symbol, Quantity: held + quantity})
	return a.record(Transaction{
		Type:      TransactionBuy,
		Symbol:    symbol,
		Quantity:  quantity,
		Price:     price,
		Timestamp: timestamp,
	}), nil
}

// SellShares sells quantity shares of symbol at the oracle price. A
// position the oracle prices at zero can still be sold, for nothing.
func (a *Account) SellShares(symbol string, quantity int64, timestamp string) (Transaction, error) {
	if quantity <= 0 {
		return Transaction{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, quantity)
	}
	held := a.Quantity(symbol)
	if quantity > held {
		return Transaction{}, fmt.Errorf("%w: cannot sell %d %s, holding %d",
			ErrInsufficientShares, quantity, symbol, held)
	}
	price := a.oracle.Price(symbol)
	if price.IsNegative() {
		return Transaction{}, fmt.Errorf("%w: negative price %s for %q", ErrPriceUnavailable, price, symbol)
	}

	a.cash = a.cash.Add(price.Mul(decimal.NewFromInt(quantity)))
	if remaining := held - quantity; remaining == 0 {
		a.positions.Delete(Position{Symbol: symbol})
	} else {
		a.positions.ReplaceOrInsert(Position{Symbol: symbol, Quantity: remaining})
	}
	return a.record(Transaction{
		Type:      TransactionSell,
		Symbol:    symbol,
		Quantity:  quantity,
		Price:     price,
		Timestamp: timestamp,
	}), nil
}

// record stamps t with an ID and appends it to the log.
func (a *Account) record(t Transaction) Transaction {
	t.ID = a.newID()
	a.transactions = append(a.transactions, t)
	return t
}

// Valuation marks every position to the current oracle price. Unpriced
// symbols contribute zero.
func (a *Account) Valuation() Valuation {
	v := Valuation{
		Cash:      a.cash,
		Positions: make([]PositionValue, 0, a.positions.Len()),
		Total:     a.cash,
	}
	a.positions.Ascend(func(p Position) bool {
		price := a.oracle.Price(p.Symbol)
		mv := price.Mul(decimal.NewFromInt(p.Quantity))
		v.Positions = append(v.Positions, PositionValue{
			Position:    p,
			Price:       price,
			MarketValue: mv,
		})
		v.Total = v.Total.Add(mv)
		return true
	})
	return v
}

// PortfolioValue returns cash plus the market value of all positions.
func (a *Account) PortfolioValue() decimal.Decimal {
	return a.Valuation().Total
}

// ProfitLoss returns the portfolio value relative to the first deposit.
// Before any deposit the baseline is zero.
func (a *Account) ProfitLoss() decimal.Decimal {
	return a.PortfolioValue().Sub(a.initialDeposit)
}

// Holdings returns a copy of the held quantities keyed by symbol.
func (a *Account) Holdings() map[string]int64 {
	holdings := make(map[string]int64, a.positions.Len())
	a.positions.Ascend(func(p Position) bool {
		holdings[p.Symbol] = p.Quantity
		return true
	})
	return holdings
}

// Positions returns the held positions ordered by symbol.
func (a *Account) Positions() []Position {
	positions := make([]Position, 0, a.positions.Len())
	a.positions.Ascend(func(p Position) bool {
		positions = append(positions, p)
		return true
	})
	return positions
}

// TransactionHistory returns a copy of the log in submission order.
func (a *Account) TransactionHistory() []Transaction {
	history := make([]Transaction, len(a.transactions))
	copy(history, a.transactions)
	return history
}
