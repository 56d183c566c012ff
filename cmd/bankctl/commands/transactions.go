package commands

import (
	"net/url"

	"github.com/spf13/cobra"
)

var (
	txFrom string
	txTo   string
)

var transactionsCmd = &cobra.Command{
	Use:   "tx",
	Short: "Register and inspect transactions",
}

var depositCmd = &cobra.Command{
	Use:   "deposit <account-number> <amount>",
	Short: "Register a deposit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return registerTransaction(args[0], "DEPOSIT", args[1])
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <account-number> <amount>",
	Short: "Register a withdrawal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return registerTransaction(args[0], "WITHDRAWAL", args[1])
	},
}

var txListCmd = &cobra.Command{
	Use:   "list <account-number>",
	Short: "List an account's transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("account_number", args[0])
		if txFrom != "" {
			q.Set("from", txFrom)
		}
		if txTo != "" {
			q.Set("to", txTo)
		}
		return getJSON("/api/v1/transactions?" + q.Encode())
	},
}

func registerTransaction(accountNumber, txType, amount string) error {
	return postJSON("/api/v1/transactions", map[string]any{
		"account_number": accountNumber,
		"type":           txType,
		"amount":         amount,
	})
}

func init() {
	txListCmd.Flags().StringVar(&txFrom, "from", "", "Range start (2006-01-02)")
	txListCmd.Flags().StringVar(&txTo, "to", "", "Range end (2006-01-02)")

	transactionsCmd.AddCommand(depositCmd, withdrawCmd, txListCmd)
	rootCmd.AddCommand(transactionsCmd)
}
