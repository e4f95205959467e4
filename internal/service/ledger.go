package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/pricing"
	"github.com/efreitasn/papertrade/internal/store"
	"github.com/shopspring/decimal"
)

// Summary is a consistent snapshot of the account's derived figures.
type Summary struct {
	CashBalance      decimal.Decimal
	InitialDeposit   *decimal.Decimal // nil until the first deposit
	PortfolioValue   decimal.Decimal
	ProfitLoss       decimal.Decimal
	Positions        []domain.PositionValue
	TransactionCount int
	OpenedAt         time.Time
}

// Quote is the current price of a listed symbol.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
}

// LedgerService runs ledger operations against the served account. Each
// call holds the account's lock for its full duration and is stamped
// with the time it was received.
type LedgerService struct {
	accounts *store.AccountStore
	prices   *pricing.Table
	logger   *slog.Logger
	now      func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accounts *store.AccountStore, prices *pricing.Table, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		accounts: accounts,
		prices:   prices,
		logger:   logger,
		now:      time.Now,
	}
}

// OpenAccount discards the served account and starts an empty one.
func (s *LedgerService) OpenAccount() *store.Entry {
	e := s.accounts.Replace(domain.NewAccount(s.prices))
	s.logger.Info("account opened", slog.Time("opened_at", e.OpenedAt))
	return e
}

// Deposit adds cash to the account.
func (s *LedgerService) Deposit(amount decimal.Decimal) (domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return domain.Transaction{}, err
	}
	return s.apply(func(a *domain.Account, ts string) (domain.Transaction, error) {
		return a.Deposit(amount, ts)
	})
}

// Withdraw removes cash from the account.
func (s *LedgerService) Withdraw(amount decimal.Decimal) (domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return domain.Transaction{}, err
	}
	return s.apply(func(a *domain.Account, ts string) (domain.Transaction, error) {
		return a.Withdraw(amount, ts)
	})
}

// Buy purchases shares at the current quote.
func (s *LedgerService) Buy(symbol string, quantity int64) (domain.Transaction, error) {
	sym, err := validateSymbol(symbol)
	if err != nil {
		return domain.Transaction{}, err
	}
	return s.apply(func(a *domain.Account, ts string) (domain.Transaction, error) {
		return a.BuyShares(sym, quantity, ts)
	})
}

// Sell sells shares at the current quote.
func (s *LedgerService) Sell(symbol string, quantity int64) (domain.Transaction, error) {
	sym, err := validateSymbol(symbol)
	if err != nil {
		return domain.Transaction{}, err
	}
	return s.apply(func(a *domain.Account, ts string) (domain.Transaction, error) {
		return a.SellShares(sym, quantity, ts)
	})
}

// Summary returns cash, valuation and profit/loss taken under one lock.
func (s *LedgerService) Summary() Summary {
	e := s.accounts.Current()
	e.Mu.Lock()
	defer e.Mu.Unlock()

	v := e.Account.Valuation()
	sum := Summary{
		CashBalance:      v.Cash,
		PortfolioValue:   v.Total,
		ProfitLoss:       e.Account.ProfitLoss(),
		Positions:        v.Positions,
		TransactionCount: len(e.Account.TransactionHistory()),
		OpenedAt:         e.OpenedAt,
	}
	if initial, ok := e.Account.InitialDeposit(); ok {
		sum.InitialDeposit = &initial
	}
	return sum
}

// Holdings returns the held positions ordered by symbol.
func (s *LedgerService) Holdings() []domain.Position {
	e := s.accounts.Current()
	e.Mu.Lock()
	defer e.Mu.Unlock()

	return e.Account.Positions()
}

// History returns every committed transaction, oldest first.
func (s *LedgerService) History() []domain.Transaction {
	e := s.accounts.Current()
	e.Mu.Lock()
	defer e.Mu.Unlock()

	return e.Account.TransactionHistory()
}

// Quote returns the price of a listed symbol. Unlisted symbols return
// domain.ErrPriceUnavailable.
func (s *LedgerService) Quote(symbol string) (Quote, error) {
	sym, err := validateSymbol(symbol)
	if err != nil {
		return Quote{}, err
	}
	if !s.prices.Known(sym) {
		return Quote{}, fmt.Errorf("%w: %s is not listed", domain.ErrPriceUnavailable, sym)
	}
	return Quote{Symbol: sym, Price: s.prices.Price(sym)}, nil
}

// Quotes returns every listed symbol's price, ordered by symbol.
func (s *LedgerService) Quotes() []Quote {
	symbols := s.prices.Symbols()
	quotes := make([]Quote, len(symbols))
	for i, sym := range symbols {
		quotes[i] = Quote{Symbol: sym, Price: s.prices.Price(sym)}
	}
	return quotes
}

// apply runs op on the served account while holding its lock.
func (s *LedgerService) apply(op func(a *domain.Account, ts string) (domain.Transaction, error)) (domain.Transaction, error) {
	e := s.accounts.Current()
	e.Mu.Lock()
	defer e.Mu.Unlock()

	tx, err := op(e.Account, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		s.logger.Debug("transaction rejected", slog.String("error", err.Error()))
		return domain.Transaction{}, err
	}

	s.logger.Info("transaction committed",
		slog.String("transaction_id", tx.ID),
		slog.String("type", string(tx.Type)),
		slog.String("symbol", tx.Symbol),
		slog.Int64("quantity", tx.Quantity),
		slog.String("value", tx.Value().String()),
		slog.String("cash_balance", e.Account.CashBalance().String()),
	)
	return tx, nil
}

// validateAmount rejects amounts outside the int64 cents range and
// positive amounts with sub-cent precision. Sign checks belong to the
// ledger so non-positive amounts surface as domain.ErrInvalidAmount.
func validateAmount(amount decimal.Decimal) error {
	_, err := domain.DollarsToCents(amount)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrAmountOutOfRange) || amount.IsPositive() {
		return &domain.ValidationError{Message: "amount: " + err.Error()}
	}
	return nil
}

func validateSymbol(symbol string) (string, error) {
	sym := pricing.NormalizeSymbol(symbol)
	if !pricing.ValidSymbol(sym) {
		return "", &domain.ValidationError{
			Message: fmt.Sprintf("symbol must match ^[A-Z]{1,10}$, got %q", symbol),
		}
	}
	return sym, nil
}
