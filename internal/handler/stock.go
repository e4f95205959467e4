package handler

import (
	"errors"
	"net/http"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/report"
	"github.com/efreitasn/papertrade/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// StockHandler handles HTTP requests for quote endpoints.
type StockHandler struct {
	ledger *service.LedgerService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ledger *service.LedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// quoteResponse is a single symbol's current price.
type quoteResponse struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Text   string          `json:"text"`
}

// quoteListResponse is the JSON response for GET /stocks.
type quoteListResponse struct {
	Quotes []quoteResponse `json:"quotes"`
}

// List handles GET /stocks.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes := h.ledger.Quotes()
	resp := quoteListResponse{Quotes: make([]quoteResponse, len(quotes))}
	for i, q := range quotes {
		resp.Quotes[i] = toQuoteResponse(q)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetPrice handles GET /stocks/{symbol}/price.
func (h *StockHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	q, err := h.ledger.Quote(chi.URLParam(r, "symbol"))
	if err != nil {
		if errors.Is(err, domain.ErrPriceUnavailable) {
			WriteError(w, http.StatusNotFound, "symbol_not_found", err.Error())
			return
		}
		mapLedgerError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toQuoteResponse(q))
}

func toQuoteResponse(q service.Quote) quoteResponse {
	return quoteResponse{
		Symbol: q.Symbol,
		Price:  q.Price,
		Text:   report.Quote(q.Symbol, q.Price),
	}
}
