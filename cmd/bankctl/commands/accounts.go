package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	accountType    string
	initialBalance string
	customerID     string
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage accounts",
}

var accountsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON("/api/v1/accounts", map[string]any{
			"account_type":    accountType,
			"initial_balance": initialBalance,
			"customer_id":     customerID,
		})
	},
}

var accountsGetCmd = &cobra.Command{
	Use:   "get <account-number>",
	Short: "Show one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getJSON("/api/v1/accounts/" + url.PathEscape(args[0]))
	},
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getJSON("/api/v1/accounts")
	},
}

func init() {
	accountsCreateCmd.Flags().StringVar(&accountType, "type", "SAVINGS", "Account type: SAVINGS | CHECKING")
	accountsCreateCmd.Flags().StringVar(&initialBalance, "balance", "0", "Opening balance")
	accountsCreateCmd.Flags().StringVar(&customerID, "customer", "", "Owning customer id (required)")
	if err := accountsCreateCmd.MarkFlagRequired("customer"); err != nil {
		fmt.Println(err)
	}

	accountsCmd.AddCommand(accountsCreateCmd, accountsGetCmd, accountsListCmd)
	rootCmd.AddCommand(accountsCmd)
}
