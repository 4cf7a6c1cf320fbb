package cmd

import (
	"github.com/spf13/cobra"
)

var (
	flagServer string
	flagDB     string
)

var rootCmd = &cobra.Command{
	Use:   "bahikhata",
	Short: "Double-entry voucher bookkeeping with cached ledger balances",
	Long:  "A double-entry bookkeeping engine backed by SQLite: typed vouchers, sequential voucher numbers, ledger statements, day book, and bulk import from exported books.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:8888", "Server address")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "bahikhata.db", "SQLite database path")
}

func Execute() error {
	return rootCmd.Execute()
}
