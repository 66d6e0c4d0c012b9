package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tuanvumaihuynh/store-ledger/cmd/sl-cli/output"
	"github.com/tuanvumaihuynh/store-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/store-ledger/internal/service"
)

func newProductCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}

	cmd.AddCommand(newProductAddCmd(opts), newProductListCmd(opts))
	return cmd
}

func newProductAddCmd(opts *options) *cobra.Command {
	var (
		id       int64
		name     string
		quantity int
		price    string
	)

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a product",
		Example: `  sl-cli product add --id 1 --name Widget --quantity 10 --price 2.50`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			perUnitPrice, err := decimal.NewFromString(price)
			if err != nil {
				return apperr.ValidationErr.WithMsg("Error: invalid input: price must be a number")
			}

			product, err := opts.products.AddProduct(cmd.Context(), service.AddProductParams{
				ID:           id,
				Name:         name,
				Quantity:     quantity,
				PerUnitPrice: perUnitPrice,
			})
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return output.ProductJSON(cmd.OutOrStdout(), product)
			}
			output.Success(cmd.OutOrStdout(), "%s", output.ProductAddedMessage(product))
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Product ID (>= 1)")
	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Units in stock (>= 1)")
	cmd.Flags().StringVar(&price, "price", "", "Per unit price (>= 0)")
	for _, flag := range []string{"id", "name", "quantity", "price"} {
		_ = cmd.MarkFlagRequired(flag)
	}

	return cmd
}

func newProductListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List products in storage order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := opts.products.ListProducts(cmd.Context())
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return output.ProductsJSON(cmd.OutOrStdout(), products)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), output.ProductsTable(products))
			return err
		},
	}
}
