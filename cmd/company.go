package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/kmehta/bahikhata/internal/client"
	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/spf13/cobra"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage companies",
}

var (
	companyName    string
	companyFYStart string
	companyFYEnd   string
)

var companyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new company",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		created, err := c.CreateCompany(context.Background(), companyName, companyFYStart, companyFYEnd)
		if err != nil {
			return err
		}

		fmt.Printf("Company created: %s (%s)\n", created.ID, created.Name)
		printFY(created)
		return nil
	},
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		companies, err := c.ListCompanies(context.Background())
		if err != nil {
			return err
		}
		if len(companies) == 0 {
			fmt.Println("No companies found.")
			return nil
		}

		fmt.Printf("%-38s %-30s %-12s %s\n", "ID", "NAME", "FY START", "FY END")
		fmt.Printf("%-38s %-30s %-12s %s\n", "----", "----", "--------", "------")
		for _, co := range companies {
			fmt.Printf("%-38s %-30s %-12s %s\n", co.ID, co.Name, fyLabel(co.FYStart), fyLabel(co.FYEnd))
		}
		return nil
	},
}

var companyGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get company details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		co, err := c.GetCompany(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:      %s\n", co.ID)
		fmt.Printf("Name:    %s\n", co.Name)
		printFY(co)
		fmt.Printf("Created: %s\n", co.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var companyUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update company name or financial year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		updated, err := c.UpdateCompany(context.Background(), args[0], companyName, companyFYStart, companyFYEnd)
		if err != nil {
			return err
		}

		fmt.Printf("Company updated: %s (%s)\n", updated.ID, updated.Name)
		printFY(updated)
		return nil
	},
}

var companyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a company and all its books",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		if err := c.DeleteCompany(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Company deleted.")
		return nil
	},
}

func printFY(co *ledger.Company) {
	if co.FYStart != nil || co.FYEnd != nil {
		fmt.Printf("FY:      %s to %s\n", fyLabel(co.FYStart), fyLabel(co.FYEnd))
	}
}

func fyLabel(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(ledger.DateLayout)
}

func init() {
	companyCreateCmd.Flags().StringVar(&companyName, "name", "", "Company name")
	companyCreateCmd.Flags().StringVar(&companyFYStart, "fy-start", "", "Financial year start (YYYY-MM-DD)")
	companyCreateCmd.Flags().StringVar(&companyFYEnd, "fy-end", "", "Financial year end (YYYY-MM-DD)")
	companyCreateCmd.MarkFlagRequired("name")

	companyUpdateCmd.Flags().StringVar(&companyName, "name", "", "Company name")
	companyUpdateCmd.Flags().StringVar(&companyFYStart, "fy-start", "", "Financial year start (YYYY-MM-DD)")
	companyUpdateCmd.Flags().StringVar(&companyFYEnd, "fy-end", "", "Financial year end (YYYY-MM-DD)")

	companyCmd.AddCommand(companyCreateCmd)
	companyCmd.AddCommand(companyListCmd)
	companyCmd.AddCommand(companyGetCmd)
	companyCmd.AddCommand(companyUpdateCmd)
	companyCmd.AddCommand(companyDeleteCmd)

	rootCmd.AddCommand(companyCmd)
}
