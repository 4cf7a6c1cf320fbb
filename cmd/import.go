package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/kmehta/bahikhata/internal/client"
	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	importCompany      string
	importTrialBalance string
	importTransactions string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import books from exported CSV files",
	Long: `Import a company's books from two CSV exports.

The trial balance CSV has columns: name, group, debit, credit.
The transactions CSV has columns: voucher_number, date, type, ledger_name, debit, credit, narration.
Both files are expected to carry a header row. The import replaces any
existing ledgers and vouchers of the company.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := readTrialBalanceCSV(importTrialBalance)
		if err != nil {
			return err
		}

		var txns []client.TransactionImportRow
		if importTransactions != "" {
			txns, err = readTransactionsCSV(importTransactions)
			if err != nil {
				return err
			}
		}

		c := client.New(flagServer)
		res, err := c.BulkImport(context.Background(), importCompany, tb, txns)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d ledgers, %d vouchers, %d entries.\n", res.Ledgers, res.Vouchers, res.Entries)
		return nil
	},
}

func readTrialBalanceCSV(path string) ([]ledger.TrialBalanceRow, error) {
	records, err := readCSV(path, 4)
	if err != nil {
		return nil, err
	}

	rows := make([]ledger.TrialBalanceRow, 0, len(records))
	for i, rec := range records {
		debit, err := csvAmount(rec[2])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		credit, err := csvAmount(rec[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		rows = append(rows, ledger.TrialBalanceRow{
			Name:   rec[0],
			Group:  rec[1],
			Debit:  debit,
			Credit: credit,
		})
	}
	return rows, nil
}

func readTransactionsCSV(path string) ([]client.TransactionImportRow, error) {
	records, err := readCSV(path, 7)
	if err != nil {
		return nil, err
	}

	rows := make([]client.TransactionImportRow, 0, len(records))
	for i, rec := range records {
		debit, err := csvAmount(rec[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		credit, err := csvAmount(rec[5])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		rows = append(rows, client.TransactionImportRow{
			VoucherNumber: rec[0],
			Date:          rec[1],
			Type:          rec[2],
			LedgerName:    rec[3],
			Debit:         debit,
			Credit:        credit,
			Narration:     rec[6],
		})
	}
	return rows, nil
}

// readCSV returns the data records of a headered CSV, requiring at
// least minFields columns per row.
func readCSV(path string, minFields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	for i, rec := range records[1:] {
		if len(rec) < minFields {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", path, i+2, minFields, len(rec))
		}
	}
	return records[1:], nil
}

func csvAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func init() {
	importCmd.Flags().StringVar(&importCompany, "company", "", "Company ID")
	importCmd.Flags().StringVar(&importTrialBalance, "trial-balance", "", "Path to the trial balance CSV")
	importCmd.Flags().StringVar(&importTransactions, "transactions", "", "Path to the transactions CSV")
	importCmd.MarkFlagRequired("company")
	importCmd.MarkFlagRequired("trial-balance")

	rootCmd.AddCommand(importCmd)
}
