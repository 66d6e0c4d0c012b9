package commands

import (
	"github.com/spf13/cobra"

	"github.com/tuanvumaihuynh/store-ledger/cmd/sl-cli/tui"
)

func newMenuCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tui.RunMenu(cmd.Context(), opts.products, opts.sales)
		},
	}
}
