package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efreitasn/papertrade/internal/domain"
	"github.com/efreitasn/papertrade/internal/handler"
	"github.com/efreitasn/papertrade/internal/pricing"
	"github.com/efreitasn/papertrade/internal/service"
	"github.com/efreitasn/papertrade/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	prices := pricing.DefaultTable()
	accounts := store.NewAccountStore(domain.NewAccount(prices))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := service.NewLedgerService(accounts, prices, logger)

	srv := httptest.NewServer(handler.NewRouter(ledger, logger))
	t.Cleanup(srv.Close)
	return srv
}

// run executes the CLI against srv and returns its output.
func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--server", srv.URL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_Session(t *testing.T) {
	srv := newTestServer(t)

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"open"}, "Account created successfully.\n"},
		{[]string{"deposit", "10000"}, "Deposited $10,000.00 successfully.\n"},
		{[]string{"buy", "AAPL", "10"}, "Bought 10 shares of AAPL.\n"},
		{[]string{"buy", "tsla", "1"}, "Bought 1 share of TSLA.\n"},
		{[]string{"sell", "AAPL", "4"}, "Sold 4 shares of AAPL.\n"},
		{[]string{"withdraw", "$100.50"}, "Withdrew $100.50 successfully.\n"},
		{[]string{"value"}, "Total Portfolio Value: $9,899.50\n"},
		{[]string{"pnl"}, "Profit/Loss since initial deposit: -$100.50\n"},
		{[]string{"holdings"}, "AAPL: 6 shares\nTSLA: 1 share\n"},
	}

	for _, s := range steps {
		out, err := run(t, srv, s.args...)
		require.NoError(t, err, "args %v", s.args)
		assert.Equal(t, s.want, out, "args %v", s.args)
	}

	out, err := run(t, srv, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Deposit $10,000.00")
	assert.Contains(t, out, "Buy 10 AAPL at $150.00")
	assert.Contains(t, out, "Sell 4 AAPL at $150.00")
	assert.Contains(t, out, "Withdraw $100.50")
}

func TestCLI_Quote(t *testing.T) {
	srv := newTestServer(t)

	out, err := run(t, srv, "quote", "googl")
	require.NoError(t, err)
	assert.Equal(t, "GOOGL: $2,800.00\n", out)

	out, err = run(t, srv, "quote")
	require.NoError(t, err)
	assert.Equal(t, "AAPL: $150.00\nGOOGL: $2,800.00\nTSLA: $700.00\n", out)
}

func TestCLI_ServerErrors(t *testing.T) {
	srv := newTestServer(t)

	_, err := run(t, srv, "buy", "AAPL", "1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "insufficient_funds", apiErr.Code)

	_, err = run(t, srv, "withdraw", "0")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid_amount", apiErr.Code)

	_, err = run(t, srv, "quote", "NOPE")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestCLI_ArgumentErrors(t *testing.T) {
	srv := newTestServer(t)

	_, err := run(t, srv, "deposit", "lots")
	assert.ErrorContains(t, err, `invalid amount "lots"`)

	_, err = run(t, srv, "buy", "AAPL", "1.5")
	assert.ErrorContains(t, err, `invalid quantity "1.5"`)

	_, err = run(t, srv, "sell", "AAPL")
	assert.Error(t, err)
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "server returned 502", (&APIError{Status: 502}).Error())
	assert.Equal(t, "boom", (&APIError{Status: 500, Message: "boom"}).Error())
}
