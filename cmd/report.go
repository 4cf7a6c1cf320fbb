package cmd

import (
	"context"
	"fmt"

	"github.com/kmehta/bahikhata/internal/client"
	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/spf13/cobra"
)

var (
	reportCompany string
	reportFrom    string
	reportTo      string
)

var statementCmd = &cobra.Command{
	Use:   "statement [ledger-id]",
	Short: "Show a ledger statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		stmt, err := c.LedgerStatement(context.Background(), args[0], reportFrom, reportTo)
		if err != nil {
			return err
		}

		fmt.Printf("\nStatement for %s (%s)\n", stmt.LedgerName, stmt.Group)
		fmt.Printf("Period: %s to %s\n\n", stmt.From.Format(ledger.DateLayout), stmt.To.Format(ledger.DateLayout))
		fmt.Printf("%-12s %-10s %-30s %12s %12s %14s\n", "DATE", "VCH NO", "PARTICULARS", "DEBIT", "CREDIT", "BALANCE")
		fmt.Printf("%-12s %-10s %-30s %12s %12s %14s\n", "----", "------", "-----------", "-----", "------", "-------")
		fmt.Printf("%-12s %-10s %-30s %12s %12s %14s\n", "", "", "Opening balance", "", "", stmt.OpeningBalance.String())

		for _, row := range stmt.Rows {
			part := row.Particulars
			if len(part) > 28 {
				part = part[:26] + ".."
			}
			debit, credit := "", ""
			if row.Debit.IsPositive() {
				debit = row.Debit.String()
			}
			if row.Credit.IsPositive() {
				credit = row.Credit.String()
			}
			fmt.Printf("%-12s %-10s %-30s %12s %12s %14s\n",
				row.Date.Format(ledger.DateLayout), row.VoucherNumber, part, debit, credit, row.Balance.String())
		}

		fmt.Printf("%-12s %-10s %-30s %12s %12s %14s\n", "", "", "Closing balance", "", "", stmt.ClosingBalance.String())
		return nil
	},
}

var daybookCmd = &cobra.Command{
	Use:   "daybook",
	Short: "Show the day book for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		book, err := c.DayBook(context.Background(), reportCompany, reportFrom, reportTo)
		if err != nil {
			return err
		}
		if len(book) == 0 {
			fmt.Println("No vouchers in the period.")
			return nil
		}

		for _, v := range book {
			status := ""
			if v.Status == ledger.StatusCancelled {
				status = " [CANCELLED]"
			}
			fmt.Printf("\n%s  %s  %s%s\n", v.Date.Format(ledger.DateLayout), v.Number, v.Type, status)
			if v.Narration != "" {
				fmt.Printf("  %s\n", v.Narration)
			}
			for _, e := range v.Entries {
				side, amount := "Dr", e.Debit
				if e.Credit.IsPositive() {
					side, amount = "Cr", e.Credit
				}
				fmt.Printf("  %s %-25s %12s\n", side, e.LedgerName, amount.String())
			}
		}
		return nil
	},
}

func init() {
	statementCmd.Flags().StringVar(&reportFrom, "from", "", "Period start (YYYY-MM-DD)")
	statementCmd.Flags().StringVar(&reportTo, "to", "", "Period end (YYYY-MM-DD)")

	daybookCmd.Flags().StringVar(&reportCompany, "company", "", "Company ID")
	daybookCmd.Flags().StringVar(&reportFrom, "from", "", "Period start (YYYY-MM-DD)")
	daybookCmd.Flags().StringVar(&reportTo, "to", "", "Period end (YYYY-MM-DD)")
	daybookCmd.MarkFlagRequired("company")

	rootCmd.AddCommand(statementCmd)
	rootCmd.AddCommand(daybookCmd)
}
