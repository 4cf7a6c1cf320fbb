package cmd

import (
	"context"
	"fmt"

	"github.com/kmehta/bahikhata/internal/client"
	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Manage ledgers",
}

var (
	ledgerCompany  string
	ledgerName     string
	ledgerGroup    string
	ledgerSubGroup string
	ledgerOpening  string
	ledgerOperator string
)

var ledgerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		opening, err := decimal.NewFromString(ledgerOpening)
		if err != nil {
			return fmt.Errorf("invalid opening balance %q: %w", ledgerOpening, err)
		}

		created, err := c.CreateLedger(context.Background(), ledgerCompany, &ledger.Ledger{
			Name:               ledgerName,
			Group:              ledger.Group(ledgerGroup),
			SubGroup:           ledgerSubGroup,
			OpeningBalance:     opening,
			AssignedOperatorID: ledgerOperator,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Ledger created: %s (%s) [%s] opening %s\n",
			created.ID, created.Name, created.Group, created.OpeningBalance.String())
		return nil
	},
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledgers of a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		ledgers, err := c.ListLedgers(context.Background(), ledgerCompany, ledgerGroup)
		if err != nil {
			return err
		}
		if len(ledgers) == 0 {
			fmt.Println("No ledgers found.")
			return nil
		}

		fmt.Printf("%-38s %-25s %-22s %15s\n", "ID", "NAME", "GROUP", "BALANCE")
		fmt.Printf("%-38s %-25s %-22s %15s\n", "----", "----", "-----", "-------")
		for _, l := range ledgers {
			name := l.Name
			if len(name) > 23 {
				name = name[:21] + ".."
			}
			fmt.Printf("%-38s %-25s %-22s %15s\n", l.ID, name, l.Group, l.CurrentBalance.String())
		}
		return nil
	},
}

var ledgerGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get ledger details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		l, err := c.GetLedger(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:       %s\n", l.ID)
		fmt.Printf("Name:     %s\n", l.Name)
		fmt.Printf("Group:    %s\n", l.Group)
		if l.SubGroup != "" {
			fmt.Printf("Subgroup: %s\n", l.SubGroup)
		}
		fmt.Printf("Nature:   %s\n", l.Nature())
		fmt.Printf("Opening:  %s\n", l.OpeningBalance.String())
		fmt.Printf("Balance:  %s\n", l.CurrentBalance.String())
		fmt.Printf("Created:  %s\n", l.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var ledgerDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a ledger with no postings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		if err := c.DeleteLedger(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Ledger deleted.")
		return nil
	},
}

var recomputeRepair bool

var ledgerRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Check cached balances against the entries, optionally repairing drift",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		res, err := c.RecomputeBalances(context.Background(), ledgerCompany, recomputeRepair)
		if err != nil {
			return err
		}
		if len(res.Drifts) == 0 {
			fmt.Println("All balances agree with the entries.")
			return nil
		}

		fmt.Printf("%-25s %15s %15s\n", "LEDGER", "STORED", "COMPUTED")
		for _, d := range res.Drifts {
			fmt.Printf("%-25s %15s %15s\n", d.LedgerName, d.Stored.String(), d.Computed.String())
		}
		if res.Repaired {
			fmt.Printf("\n%d balance(s) repaired.\n", len(res.Drifts))
		} else {
			fmt.Printf("\n%d drift(s) found. Re-run with --repair to fix.\n", len(res.Drifts))
		}
		return nil
	},
}

func init() {
	ledgerCreateCmd.Flags().StringVar(&ledgerCompany, "company", "", "Company ID")
	ledgerCreateCmd.Flags().StringVar(&ledgerName, "name", "", "Ledger name")
	ledgerCreateCmd.Flags().StringVar(&ledgerGroup, "group", "", "Account group (e.g. \"Cash-in-hand\", \"Sundry Debtors\")")
	ledgerCreateCmd.Flags().StringVar(&ledgerSubGroup, "sub-group", "", "Free-form subgroup")
	ledgerCreateCmd.Flags().StringVar(&ledgerOpening, "opening", "0", "Opening balance")
	ledgerCreateCmd.Flags().StringVar(&ledgerOperator, "operator", "", "Assigned operator ID")
	ledgerCreateCmd.MarkFlagRequired("company")
	ledgerCreateCmd.MarkFlagRequired("name")
	ledgerCreateCmd.MarkFlagRequired("group")

	ledgerListCmd.Flags().StringVar(&ledgerCompany, "company", "", "Company ID")
	ledgerListCmd.Flags().StringVar(&ledgerGroup, "group", "", "Filter by group")
	ledgerListCmd.MarkFlagRequired("company")

	ledgerRecomputeCmd.Flags().StringVar(&ledgerCompany, "company", "", "Company ID")
	ledgerRecomputeCmd.Flags().BoolVar(&recomputeRepair, "repair", false, "Rewrite drifted balances")
	ledgerRecomputeCmd.MarkFlagRequired("company")

	ledgerCmd.AddCommand(ledgerCreateCmd)
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerGetCmd)
	ledgerCmd.AddCommand(ledgerDeleteCmd)
	ledgerCmd.AddCommand(ledgerRecomputeCmd)

	rootCmd.AddCommand(ledgerCmd)
}
