// Package cli implements papertradectl, a command-line client for the
// papertrade HTTP API.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/efreitasn/papertrade/internal/report"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// DefaultServer is used when neither --server nor PAPERTRADE_URL is set.
const DefaultServer = "http://localhost:8080"

// ServerEnv names the environment variable holding the server URL.
const ServerEnv = "PAPERTRADE_URL"

// New builds the root command. Commands write their results to the
// command's configured output.
func New() *cobra.Command {
	var server string

	client := func() *Client { return NewClient(server, nil) }

	cmd := &cobra.Command{
		Use:           "papertradectl",
		Short:         "Manage a papertrade brokerage account",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultServer := os.Getenv(ServerEnv)
	if defaultServer == "" {
		defaultServer = DefaultServer
	}
	cmd.PersistentFlags().StringVar(&server, "server", defaultServer, "papertrade server URL (env "+ServerEnv+")")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "open",
			Short: "Open a new, empty account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				msg, err := client().Open(cmd.Context())
				return printResult(cmd, msg, err)
			},
		},
		&cobra.Command{
			Use:   "deposit AMOUNT",
			Short: "Deposit cash into the account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				msg, err := client().Deposit(cmd.Context(), amount)
				return printResult(cmd, msg, err)
			},
		},
		&cobra.Command{
			Use:   "withdraw AMOUNT",
			Short: "Withdraw cash from the account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				msg, err := client().Withdraw(cmd.Context(), amount)
				return printResult(cmd, msg, err)
			},
		},
		&cobra.Command{
			Use:   "buy SYMBOL QUANTITY",
			Short: "Buy shares at the current price",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				msg, err := client().Buy(cmd.Context(), args[0], qty)
				return printResult(cmd, msg, err)
			},
		},
		&cobra.Command{
			Use:   "sell SYMBOL QUANTITY",
			Short: "Sell shares at the current price",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				msg, err := client().Sell(cmd.Context(), args[0], qty)
				return printResult(cmd, msg, err)
			},
		},
		&cobra.Command{
			Use:   "value",
			Short: "Show the total portfolio value",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := client().PortfolioValue(cmd.Context())
				if err != nil {
					return err
				}
				return printResult(cmd, report.PortfolioValue(v), nil)
			},
		},
		&cobra.Command{
			Use:   "pnl",
			Short: "Show profit or loss since the initial deposit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				pl, err := client().ProfitLoss(cmd.Context())
				if err != nil {
					return err
				}
				return printResult(cmd, report.ProfitLoss(pl), nil)
			},
		},
		&cobra.Command{
			Use:   "holdings",
			Short: "List shares held per symbol",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				text, err := client().Holdings(cmd.Context())
				return printResult(cmd, text, err)
			},
		},
		&cobra.Command{
			Use:   "history",
			Short: "List every committed transaction",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				text, err := client().History(cmd.Context())
				return printResult(cmd, text, err)
			},
		},
		&cobra.Command{
			Use:   "quote [SYMBOL]",
			Short: "Show the current price of one or all symbols",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var symbol string
				if len(args) == 1 {
					symbol = args[0]
				}
				text, err := client().Quote(cmd.Context(), symbol)
				return printResult(cmd, text, err)
			},
		},
	)

	return cmd
}

func printResult(cmd *cobra.Command, text string, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func parseQuantity(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return n, nil
}
