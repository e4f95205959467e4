package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

// Client talks to a papertrade server over its JSON API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the server at baseURL. A nil hc uses a
// client with a 10 second timeout.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type summaryResponse struct {
	CashBalance    decimal.Decimal  `json:"cash_balance"`
	InitialDeposit *decimal.Decimal `json:"initial_deposit"`
	PortfolioValue decimal.Decimal  `json:"portfolio_value"`
	ProfitLoss     decimal.Decimal  `json:"profit_loss"`
}

type textResponse struct {
	Text string `json:"text"`
}

type quoteListResponse struct {
	Quotes []textResponse `json:"quotes"`
}

// Open replaces the server's account with an empty one.
func (c *Client) Open(ctx context.Context) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, "/account", nil, &resp)
	return resp.Message, err
}

// Deposit adds amount to the account.
func (c *Client) Deposit(ctx context.Context, amount decimal.Decimal) (string, error) {
	return c.mutate(ctx, "/account/deposit", map[string]any{"amount": amount})
}

// Withdraw removes amount from the account.
func (c *Client) Withdraw(ctx context.Context, amount decimal.Decimal) (string, error) {
	return c.mutate(ctx, "/account/withdraw", map[string]any{"amount": amount})
}

// Buy purchases quantity shares of symbol.
func (c *Client) Buy(ctx context.Context, symbol string, quantity int64) (string, error) {
	return c.mutate(ctx, "/account/buy", map[string]any{"symbol": symbol, "quantity": quantity})
}

// Sell sells quantity shares of symbol.
func (c *Client) Sell(ctx context.Context, symbol string, quantity int64) (string, error) {
	return c.mutate(ctx, "/account/sell", map[string]any{"symbol": symbol, "quantity": quantity})
}

func (c *Client) mutate(ctx context.Context, path string, body any) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, path, body, &resp)
	return resp.Message, err
}

func (c *Client) summary(ctx context.Context) (summaryResponse, error) {
	var resp summaryResponse
	err := c.do(ctx, http.MethodGet, "/account", nil, &resp)
	return resp, err
}

// PortfolioValue returns cash plus the market value of all positions.
func (c *Client) PortfolioValue(ctx context.Context) (decimal.Decimal, error) {
	s, err := c.summary(ctx)
	return s.PortfolioValue, err
}

// ProfitLoss returns the portfolio value relative to the first deposit.
func (c *Client) ProfitLoss(ctx context.Context) (decimal.Decimal, error) {
	s, err := c.summary(ctx)
	return s.ProfitLoss, err
}

// Holdings returns the server-rendered holdings listing.
func (c *Client) Holdings(ctx context.Context) (string, error) {
	var resp textResponse
	err := c.do(ctx, http.MethodGet, "/account/holdings", nil, &resp)
	return resp.Text, err
}

// History returns the server-rendered transaction history.
func (c *Client) History(ctx context.Context) (string, error) {
	var resp textResponse
	err := c.do(ctx, http.MethodGet, "/account/transactions", nil, &resp)
	return resp.Text, err
}

// Quote returns the rendered price of symbol, or of every listed symbol
// when symbol is empty.
func (c *Client) Quote(ctx context.Context, symbol string) (string, error) {
	if symbol != "" {
		var resp textResponse
		err := c.do(ctx, http.MethodGet, "/stocks/"+symbol+"/price", nil, &resp)
		return resp.Text, err
	}

	var resp quoteListResponse
	if err := c.do(ctx, http.MethodGet, "/stocks", nil, &resp); err != nil {
		return "", err
	}
	lines := make([]string, len(resp.Quotes))
	for i, q := range resp.Quotes {
		lines[i] = q.Text
	}
	return strings.Join(lines, "\n"), nil
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr) // a bare status is still reported
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
