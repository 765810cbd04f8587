package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/it-manager/internal/api/dto"
	"github.com/spec-kit/it-manager/internal/config"
	"github.com/spec-kit/it-manager/internal/inkstock"
	"github.com/spec-kit/it-manager/internal/observability"
)

var (
	apiURL     string
	token      string
	deliveryTo string
)

var rootCmd = &cobra.Command{
	Use:           "inkctl",
	Short:         "Manage printer ink cartridges through the IT manager API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var printersCmd = &cobra.Command{
	Use:   "printers",
	Short: "List printers and their ink stock",
	Args:  cobra.NoArgs,
	RunE:  runPrinters,
}

var statusCmd = &cobra.Command{
	Use:   "status <printer-id>",
	Short: "Show one printer and the colors that ran out",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var addCmd = &cobra.Command{
	Use:   "add <printer-id> <color>",
	Short: "Register one incoming cartridge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChange(cmd, args, func(ctx context.Context, store *inkstock.Store) error {
			return store.AddInk(ctx, args[0], args[1])
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <printer-id> <color>",
	Short: "Register one cartridge taken from stock",
	Long: `Register one cartridge taken from stock.

With --to the outgoing cartridge is recorded as delivered to that person or sector.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChange(cmd, args, func(ctx context.Context, store *inkstock.Store) error {
			if deliveryTo != "" {
				return store.DeliverInk(ctx, args[0], args[1], deliveryTo)
			}
			return store.RemoveInk(ctx, args[0], args[1])
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <printer-id>",
	Short: "Show the ink stock ledger of a printer",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (defaults to INK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer token for protected routes")
	removeCmd.Flags().StringVar(&deliveryTo, "to", "", "who received the cartridge")

	rootCmd.AddCommand(printersCmd, statusCmd, addCmd, removeCmd, historyCmd)
}

// newStore wires a Store to the configured API.
func newStore() (*inkstock.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}

	base := cfg.Client.APIURL
	if apiURL != "" {
		base = apiURL
	}
	var opts []inkstock.Option
	if token != "" {
		opts = append(opts, inkstock.WithBearerToken(token))
	}
	client := inkstock.NewClient(base, cfg.Client.Timeout(), opts...)
	return inkstock.NewStore(client, logger.With(zap.String("component", "inkctl"))), cfg, nil
}

// selectPrinter loads printers and selects printerID.
func selectPrinter(cmd *cobra.Command, printerID string) (*inkstock.Store, context.Context, context.CancelFunc, error) {
	store, cfg, err := newStore()
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 3*cfg.Client.Timeout())
	if err := store.LoadPrinters(ctx); err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("load printers: %w", err)
	}
	if err := store.SelectPrinter(ctx, printerID); err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("select printer %s: %w", printerID, err)
	}
	return store, ctx, cancel, nil
}

func runPrinters(cmd *cobra.Command, _ []string) error {
	store, cfg, err := newStore()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Client.Timeout())
	defer cancel()

	if err := store.LoadPrinters(ctx); err != nil {
		return fmt.Errorf("load printers: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDEPARTMENT\tSTOCK")
	for _, p := range store.Printers() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Department, formatStock(p.Stock))
	}
	return w.Flush()
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, _, cancel, err := selectPrinter(cmd, args[0])
	if err != nil {
		return err
	}
	defer cancel()

	printStatus(cmd.OutOrStdout(), store)
	return nil
}

func runChange(cmd *cobra.Command, args []string, change func(context.Context, *inkstock.Store) error) error {
	store, ctx, cancel, err := selectPrinter(cmd, args[0])
	if err != nil {
		return err
	}
	defer cancel()

	if err := change(ctx, store); err != nil {
		return fmt.Errorf("update %s ink: %w", args[1], err)
	}
	printStatus(cmd.OutOrStdout(), store)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, _, cancel, err := selectPrinter(cmd, args[0])
	if err != nil {
		return err
	}
	defer cancel()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tCOLOR\tAMOUNT\tDELIVERED TO")
	for _, entry := range store.InkStockHistory() {
		to := "-"
		if entry.DeliveryTo != nil {
			to = *entry.DeliveryTo
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", entry.Date.Local().Format(time.DateTime), entry.Type, entry.Color, entry.Amount, to)
	}
	return w.Flush()
}

func printStatus(out io.Writer, store *inkstock.Store) {
	printer, ok := store.SelectedPrinter()
	if !ok {
		return
	}
	fmt.Fprintf(out, "%s (%s, %s)\n", printer.Name, printer.ID, printer.Department)
	fmt.Fprintf(out, "stock: %s\n", formatStock(printer.Stock))
	if store.HasInkStockAlert() {
		colors := make([]string, 0, len(printer.Stock))
		for _, ink := range store.PrinterEmptyInkStock() {
			colors = append(colors, ink.Color)
		}
		fmt.Fprintf(out, "out of ink: %s\n", strings.Join(colors, ", "))
	}
}

func formatStock(stock []dto.InkStockPayload) string {
	parts := make([]string, 0, len(stock))
	for _, ink := range stock {
		parts = append(parts, fmt.Sprintf("%s=%d", ink.Color, ink.Amount))
	}
	return strings.Join(parts, " ")
}
