package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/kmehta/bahikhata/internal/client"
	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var voucherCmd = &cobra.Command{
	Use:   "voucher",
	Short: "Manage vouchers",
}

var (
	voucherCompany   string
	voucherType      string
	voucherDate      string
	voucherNarration string
	voucherActor     string
	voucherEntries   []string // format: "ledger_id:dr|cr:amount"
)

func parseEntryFlags(raw []string) ([]ledger.EntryLine, error) {
	var lines []ledger.EntryLine
	for _, e := range raw {
		parts := strings.SplitN(e, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid entry format %q, expected ledger_id:dr|cr:amount", e)
		}
		amount, err := decimal.NewFromString(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q in entry %q: %w", parts[2], e, err)
		}
		line := ledger.EntryLine{LedgerID: parts[0]}
		switch strings.ToLower(parts[1]) {
		case "dr":
			line.Debit = amount
		case "cr":
			line.Credit = amount
		default:
			return nil, fmt.Errorf("invalid side %q in entry %q, expected dr or cr", parts[1], e)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func printVoucher(v *ledger.Voucher) {
	fmt.Printf("ID:        %s\n", v.ID)
	fmt.Printf("Number:    %s\n", v.Number)
	fmt.Printf("Type:      %s\n", v.Type)
	fmt.Printf("Date:      %s\n", v.Date.Format(ledger.DateLayout))
	fmt.Printf("Status:    %s\n", v.Status)
	if v.Narration != "" {
		fmt.Printf("Narration: %s\n", v.Narration)
	}
	fmt.Printf("Entries:\n")
	fmt.Printf("  %-25s %12s %12s\n", "LEDGER", "DEBIT", "CREDIT")
	for _, e := range v.Entries {
		name := e.LedgerName
		if name == "" {
			name = e.LedgerID
		}
		debit, credit := "", ""
		if e.Debit.IsPositive() {
			debit = e.Debit.String()
		}
		if e.Credit.IsPositive() {
			credit = e.Credit.String()
		}
		fmt.Printf("  %-25s %12s %12s\n", name, debit, credit)
	}
}

var voucherCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new voucher",
	Long: `Create a balanced voucher.
Each --entry is formatted as "ledger_id:dr|cr:amount" (e.g. "f3a1...:dr:500.00")`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		lines, err := parseEntryFlags(voucherEntries)
		if err != nil {
			return err
		}

		created, err := c.CreateVoucher(context.Background(), voucherCompany,
			ledger.VoucherType(voucherType), voucherDate, voucherNarration, voucherActor, lines)
		if err != nil {
			return err
		}

		fmt.Printf("Voucher created: %s\n", created.Number)
		printVoucher(created)
		return nil
	},
}

var voucherListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vouchers of a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		vouchers, err := c.ListVouchers(context.Background(), voucherCompany, ledger.VoucherType(voucherType))
		if err != nil {
			return err
		}
		if len(vouchers) == 0 {
			fmt.Println("No vouchers found.")
			return nil
		}

		fmt.Printf("%-38s %-10s %-10s %-12s %-10s %s\n", "ID", "NUMBER", "TYPE", "DATE", "STATUS", "NARRATION")
		fmt.Printf("%-38s %-10s %-10s %-12s %-10s %s\n", "----", "------", "----", "----", "------", "---------")
		for _, v := range vouchers {
			narr := v.Narration
			if len(narr) > 40 {
				narr = narr[:38] + ".."
			}
			fmt.Printf("%-38s %-10s %-10s %-12s %-10s %s\n",
				v.ID, v.Number, v.Type, v.Date.Format(ledger.DateLayout), v.Status, narr)
		}
		return nil
	},
}

var voucherGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get voucher details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		v, err := c.GetVoucher(context.Background(), args[0])
		if err != nil {
			return err
		}
		printVoucher(v)
		return nil
	},
}

var voucherUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace a voucher's date, narration, and entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		lines, err := parseEntryFlags(voucherEntries)
		if err != nil {
			return err
		}

		updated, err := c.UpdateVoucher(context.Background(), args[0], voucherDate, voucherNarration, lines)
		if err != nil {
			return err
		}

		fmt.Printf("Voucher updated: %s\n", updated.Number)
		printVoucher(updated)
		return nil
	},
}

var voucherCancelCmd = &cobra.Command{
	Use:   "cancel [id]",
	Short: "Cancel a voucher, reversing its effect",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		cancelled, err := c.CancelVoucher(context.Background(), args[0], voucherActor)
		if err != nil {
			return err
		}
		fmt.Printf("Voucher cancelled: %s\n", cancelled.Number)
		return nil
	},
}

var voucherDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a voucher outright",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		if err := c.DeleteVoucher(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Voucher deleted.")
		return nil
	},
}

var (
	transferFrom   string
	transferTo     string
	transferAmount string
)

var voucherTransferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Move cash between two ledgers as a contra voucher",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		amount, err := decimal.NewFromString(transferAmount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", transferAmount, err)
		}

		v, err := c.TransferCash(context.Background(), voucherCompany, transferFrom, transferTo, amount, voucherActor)
		if err != nil {
			return err
		}
		fmt.Printf("Transfer recorded: %s\n", v.Number)
		printVoucher(v)
		return nil
	},
}

func init() {
	voucherCreateCmd.Flags().StringVar(&voucherCompany, "company", "", "Company ID")
	voucherCreateCmd.Flags().StringVar(&voucherType, "type", "", "Voucher type (receipt, payment, sales, purchase, journal, contra)")
	voucherCreateCmd.Flags().StringVar(&voucherDate, "date", "", "Voucher date (YYYY-MM-DD)")
	voucherCreateCmd.Flags().StringVar(&voucherNarration, "narration", "", "Narration")
	voucherCreateCmd.Flags().StringVar(&voucherActor, "by", "", "Creating operator")
	voucherCreateCmd.Flags().StringSliceVar(&voucherEntries, "entry", nil, "Entry in format ledger_id:dr|cr:amount (can be repeated)")
	voucherCreateCmd.MarkFlagRequired("company")
	voucherCreateCmd.MarkFlagRequired("type")
	voucherCreateCmd.MarkFlagRequired("date")
	voucherCreateCmd.MarkFlagRequired("entry")

	voucherListCmd.Flags().StringVar(&voucherCompany, "company", "", "Company ID")
	voucherListCmd.Flags().StringVar(&voucherType, "type", "", "Filter by voucher type")
	voucherListCmd.MarkFlagRequired("company")

	voucherUpdateCmd.Flags().StringVar(&voucherDate, "date", "", "Voucher date (YYYY-MM-DD)")
	voucherUpdateCmd.Flags().StringVar(&voucherNarration, "narration", "", "Narration")
	voucherUpdateCmd.Flags().StringSliceVar(&voucherEntries, "entry", nil, "Entry in format ledger_id:dr|cr:amount (can be repeated)")
	voucherUpdateCmd.MarkFlagRequired("date")
	voucherUpdateCmd.MarkFlagRequired("entry")

	voucherCancelCmd.Flags().StringVar(&voucherActor, "by", "cli", "Cancelling operator")

	voucherTransferCmd.Flags().StringVar(&voucherCompany, "company", "", "Company ID")
	voucherTransferCmd.Flags().StringVar(&transferFrom, "from", "", "Source ledger ID")
	voucherTransferCmd.Flags().StringVar(&transferTo, "to", "", "Destination ledger ID")
	voucherTransferCmd.Flags().StringVar(&transferAmount, "amount", "", "Amount to move")
	voucherTransferCmd.Flags().StringVar(&voucherActor, "by", "cli", "Operator")
	voucherTransferCmd.MarkFlagRequired("company")
	voucherTransferCmd.MarkFlagRequired("from")
	voucherTransferCmd.MarkFlagRequired("to")
	voucherTransferCmd.MarkFlagRequired("amount")

	voucherCmd.AddCommand(voucherCreateCmd)
	voucherCmd.AddCommand(voucherListCmd)
	voucherCmd.AddCommand(voucherGetCmd)
	voucherCmd.AddCommand(voucherUpdateCmd)
	voucherCmd.AddCommand(voucherCancelCmd)
	voucherCmd.AddCommand(voucherDeleteCmd)
	voucherCmd.AddCommand(voucherTransferCmd)

	rootCmd.AddCommand(voucherCmd)
}
