package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuanvumaihuynh/store-ledger/cmd/sl-cli/output"
	"github.com/tuanvumaihuynh/store-ledger/internal/service"
)

func newSaleCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record and list sales",
	}

	cmd.AddCommand(newSaleRecordCmd(opts), newSaleListCmd(opts))
	return cmd
}

func newSaleRecordCmd(opts *options) *cobra.Command {
	var params service.RecordSaleParams

	cmd := &cobra.Command{
		Use:     "record",
		Short:   "Record a sale and decrement the product's stock",
		Example: `  sl-cli sale record --product-id 1 --quantity 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sale, err := opts.sales.RecordSale(cmd.Context(), params)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return output.SaleJSON(cmd.OutOrStdout(), sale)
			}
			output.Success(cmd.OutOrStdout(), "%s", output.SaleRecordedMessage(sale))
			return nil
		},
	}

	cmd.Flags().Int64Var(&params.ProductID, "product-id", 0, "Product ID (>= 1)")
	cmd.Flags().IntVar(&params.QuantitySold, "quantity", 0, "Units sold (>= 1)")
	_ = cmd.MarkFlagRequired("product-id")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}

func newSaleListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sales in storage order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sales, err := opts.sales.ListSales(cmd.Context())
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return output.SalesJSON(cmd.OutOrStdout(), sales)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), output.SalesTable(sales))
			return err
		},
	}
}
