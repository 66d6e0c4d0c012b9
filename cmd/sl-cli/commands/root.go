package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuanvumaihuynh/store-ledger/cmd/sl-cli/output"
	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/log"
	"github.com/tuanvumaihuynh/store-ledger/internal/metric"
	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
	"github.com/tuanvumaihuynh/store-ledger/internal/service"
	"github.com/tuanvumaihuynh/store-ledger/pkg/cmdutil"
	"github.com/tuanvumaihuynh/store-ledger/pkg/validator"
)

// Config is everything the CLI reads from the environment.
type Config struct {
	Log      config.Log
	Storage  config.Storage
	Ledger   config.Ledger
	Postgres config.Postgres
}

// options holds the persistent flags and the services opened for a run.
type options struct {
	storage    string
	dataDir    string
	jsonOutput bool

	products service.ProductService
	sales    service.SaleService
	cleanup  repository.CleanupFunc
}

// NewRootCmd builds the sl-cli command tree.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sl-cli",
		Short: "Store ledger - products and sales from the terminal",
		Long: `sl-cli records products and sales in the store ledger.

Run "sl-cli menu" for the interactive menu, or use the product and sale
subcommands for scripting. Storage is configured with STORAGE_* environment
variables, overridable with --storage and --data-dir.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.open(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.storage, "storage", "", "Storage backend: csv, postgres or memory (env: STORAGE_BACKEND)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory holding the CSV tables (env: STORAGE_DIR)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(
		newProductCmd(opts),
		newSaleCmd(opts),
		newMenuCmd(opts),
	)

	return cmd, opts
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-cmdutil.InterruptChan()
		cancel()
	}()

	cmd, opts := newRootCmd()
	if err := execute(ctx, cmd, opts); err != nil {
		output.Error(os.Stderr, "%s", output.ErrorMessage(err))
		cancel()
		os.Exit(1)
	}
}

// execute runs cmd and releases the opened store whether or not it failed.
// Cobra skips post-run hooks when a command returns an error.
func execute(ctx context.Context, cmd *cobra.Command, opts *options) error {
	defer opts.close()
	return cmd.ExecuteContext(ctx)
}

func (o *options) open(cmd *cobra.Command) error {
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if cmd.Flags().Changed("storage") {
		if err := cfg.Storage.Backend.UnmarshalText([]byte(o.storage)); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.Storage.Dir = o.dataDir
	}

	cfg.Log.Stderr = true
	logger := log.NewSlogLogger(cfg.Log)

	ctx := cmd.Context()
	store, cleanup, err := repository.Open(ctx, cfg.Storage, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error opening store: %w", err)
	}
	o.cleanup = cleanup

	logger.DebugContext(ctx, "store opened", slog.String("backend", cfg.Storage.Backend.String()))

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	metrics := metric.NewNop()
	o.products = service.NewProductService(cfg.Ledger, store, v, metrics)
	o.sales = service.NewSaleService(store, o.products, v, metrics)

	return nil
}

func (o *options) close() {
	if o.cleanup != nil {
		o.cleanup()
		o.cleanup = nil
	}
}
