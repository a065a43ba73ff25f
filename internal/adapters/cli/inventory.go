package cli

import (
	"github.com/spf13/cobra"

	"pawnledger/internal/core/access"
	"pawnledger/internal/core/services"
)

func newConvertCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert-to-unclaimed <loan-code> <estimated-value>",
		Short: "Move the collateral of an overdue loan to unclaimed inventory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := parseID("loan-code", args[0])
			if err != nil {
				return a.fail(err)
			}
			deps, _, err := a.authorize(cmd.Context(), access.AddUnclaimed)
			if err != nil {
				return a.fail(err)
			}

			item, err := deps.Registry.Unclaimed.ConvertToUnclaimed(cmd.Context(), &services.ConvertInput{
				LoanCode:       code,
				EstimatedValue: args[1],
			})
			if err != nil {
				return a.fail(err)
			}
			return a.succeed(item.ToResponse(false))
		},
	}
}

func newRecordSaleCommand(a *app) *cobra.Command {
	var saleDate string

	cmd := &cobra.Command{
		Use:   "record-sale <article> <seller-id>",
		Short: "Record the sale of an unclaimed item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := parseID("article", args[0])
			if err != nil {
				return a.fail(err)
			}
			seller, err := parseID("seller-id", args[1])
			if err != nil {
				return a.fail(err)
			}
			deps, _, err := a.authorize(cmd.Context(), access.AddSales)
			if err != nil {
				return a.fail(err)
			}

			sale, err := deps.Registry.Sales.RecordSale(cmd.Context(), &services.RecordSaleInput{
				Article:  article,
				SellerID: seller,
				SaleDate: saleDate,
			})
			if err != nil {
				return a.fail(err)
			}
			return a.succeed(sale.ToResponse())
		},
	}
	cmd.Flags().StringVar(&saleDate, "date", "", "sale date YYYY-MM-DD (default: today)")
	return cmd
}
