package handler

import (
	"net/http"
	"time"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/report"
	"github.com/efreitasn/papertrade/internal/service"
	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02T15:04:05Z"

// AccountHandler handles HTTP requests for the account endpoints.
type AccountHandler struct {
	ledger *service.LedgerService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledger *service.LedgerService) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

// amountRequest is the JSON body for deposits and withdrawals. Amounts
// may be sent as JSON numbers or strings.
type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// tradeRequest is the JSON body for buys and sells.
type tradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

// transactionResponse is a single ledger transaction.
type transactionResponse struct {
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     string          `json:"timestamp"`
}

// mutationResponse is returned by deposit, withdraw, buy and sell.
type mutationResponse struct {
	Message     string              `json:"message"`
	Transaction transactionResponse `json:"transaction"`
}

// openResponse is returned by POST /account.
type openResponse struct {
	Message  string `json:"message"`
	OpenedAt string `json:"opened_at"`
}

// positionResponse is a single position marked to market.
type positionResponse struct {
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	MarketValue decimal.Decimal `json:"market_value"`
}

// summaryResponse is the JSON response for GET /account.
type summaryResponse struct {
	CashBalance      decimal.Decimal    `json:"cash_balance"`
	InitialDeposit   *decimal.Decimal   `json:"initial_deposit"`
	PortfolioValue   decimal.Decimal    `json:"portfolio_value"`
	ProfitLoss       decimal.Decimal    `json:"profit_loss"`
	Positions        []positionResponse `json:"positions"`
	TransactionCount int                `json:"transaction_count"`
	OpenedAt         string             `json:"opened_at"`
	Text             string             `json:"text"`
}

// holdingResponse is a single holding.
type holdingResponse struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

// holdingsResponse is the JSON response for GET /account/holdings.
type holdingsResponse struct {
	Holdings []holdingResponse `json:"holdings"`
	Text     string            `json:"text"`
}

// transactionsResponse is the JSON response for GET /account/transactions.
type transactionsResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
	Text         string                `json:"text"`
}

// Open handles POST /account.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	e := h.ledger.OpenAccount()
	WriteJSON(w, http.StatusCreated, openResponse{
		Message:  report.AccountOpened(),
		OpenedAt: formatTime(e.OpenedAt),
	})
}

// Deposit handles POST /account/deposit.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.writeMutation(w)(h.ledger.Deposit(req.Amount))
}

// Withdraw handles POST /account/withdraw.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.writeMutation(w)(h.ledger.Withdraw(req.Amount))
}

// Buy handles POST /account/buy.
func (h *AccountHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.writeMutation(w)(h.ledger.Buy(req.Symbol, req.Quantity))
}

// Sell handles POST /account/sell.
func (h *AccountHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.writeMutation(w)(h.ledger.Sell(req.Symbol, req.Quantity))
}

// writeMutation returns a sink for a ledger call's results, so handlers
// can pass the call through directly.
func (h *AccountHandler) writeMutation(w http.ResponseWriter) func(domain.Transaction, error) {
	return func(tx domain.Transaction, err error) {
		if err != nil {
			mapLedgerError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, mutationResponse{
			Message:     report.Transaction(tx),
			Transaction: toTransactionResponse(tx),
		})
	}
}

// Summary handles GET /account.
func (h *AccountHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum := h.ledger.Summary()

	positions := make([]positionResponse, len(sum.Positions))
	for i, p := range sum.Positions {
		positions[i] = positionResponse{
			Symbol:      p.Symbol,
			Quantity:    p.Quantity,
			Price:       p.Price,
			MarketValue: p.MarketValue,
		}
	}

	WriteJSON(w, http.StatusOK, summaryResponse{
		CashBalance:      sum.CashBalance,
		InitialDeposit:   sum.InitialDeposit,
		PortfolioValue:   sum.PortfolioValue,
		ProfitLoss:       sum.ProfitLoss,
		Positions:        positions,
		TransactionCount: sum.TransactionCount,
		OpenedAt:         formatTime(sum.OpenedAt),
		Text:             report.PortfolioValue(sum.PortfolioValue) + "\n" + report.ProfitLoss(sum.ProfitLoss),
	})
}

// Holdings handles GET /account/holdings.
func (h *AccountHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	positions := h.ledger.Holdings()

	holdings := make([]holdingResponse, len(positions))
	for i, p := range positions {
		holdings[i] = holdingResponse{Symbol: p.Symbol, Quantity: p.Quantity}
	}

	WriteJSON(w, http.StatusOK, holdingsResponse{
		Holdings: holdings,
		Text:     report.Holdings(positions),
	})
}

// Transactions handles GET /account/transactions.
func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	history := h.ledger.History()

	txs := make([]transactionResponse, len(history))
	for i, tx := range history {
		txs[i] = toTransactionResponse(tx)
	}

	WriteJSON(w, http.StatusOK, transactionsResponse{
		Transactions: txs,
		Total:        len(txs),
		Text:         report.History(history),
	})
}

func toTransactionResponse(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		TransactionID: tx.ID,
		Type:          string(tx.Type),
		Symbol:        tx.Symbol,
		Quantity:      tx.Quantity,
		Price:         tx.Price,
		Amount:        tx.Amount,
		Timestamp:     tx.Timestamp,
	}
}

// formatTime renders t in the API's timestamp layout.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
