package domain

import "github.com/shopspring/decimal"

// TransactionType identifies the ledger operation a transaction records.
type TransactionType string

const (
	TransactionDeposit  TransactionType = "deposit"
	TransactionWithdraw TransactionType = "withdraw"
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
)

// Transaction is an immutable record of one committed ledger operation.
// Fields that do not apply to a type hold their zero value: Symbol,
// Quantity and Price are empty for cash movements, Amount is zero for
// trades.
type Transaction struct {
	ID        string
	Type      TransactionType
	Symbol    string
	Quantity  int64
	Price     decimal.Decimal // per share
	Amount    decimal.Decimal // cash amount
	Timestamp string
}

// IsTrade reports whether the transaction bought or sold shares.
func (t Transaction) IsTrade() bool {
	return t.Type == TransactionBuy || t.Type == TransactionSell
}

// Value returns the absolute cash moved by the transaction.
func (t Transaction) Value() decimal.Decimal {
	if t.IsTrade() {
		return t.Price.Mul(decimal.NewFromInt(t.Quantity))
	}
	return t.Amount
}

// CashDelta returns the signed change the transaction applied to the
// cash balance.
func (t Transaction) CashDelta() decimal.Decimal {
	switch t.Type {
	case TransactionWithdraw, TransactionBuy:
		return t.Value().Neg()
	default:
		return t.Value()
	}
}
