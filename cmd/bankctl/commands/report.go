package commands

import (
	"net/url"

	"github.com/spf13/cobra"
)

var (
	reportFrom string
	reportTo   string
)

var reportCmd = &cobra.Command{
	Use:   "report <customer-id>",
	Short: "Account-statement report for a customer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("customer", args[0])
		if reportFrom != "" {
			q.Set("from", reportFrom)
		}
		if reportTo != "" {
			q.Set("to", reportTo)
		}
		return getJSON("/api/v1/reports?" + q.Encode())
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "Range start (2006-01-02)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "Range end (2006-01-02)")
	rootCmd.AddCommand(reportCmd)
}
