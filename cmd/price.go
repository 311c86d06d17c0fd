package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mselser95/crypto-tracker/internal/app"
	"github.com/mselser95/crypto-tracker/pkg/config"
	"github.com/mselser95/crypto-tracker/pkg/format"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var priceCmd = &cobra.Command{
	Use:   "price [SYMBOL...]",
	Short: "Show current USD prices",
	Long: `Fetches current USD prices for the given symbols.
Without arguments the DASHBOARD_SYMBOLS list is used.`,
	RunE: runPrice,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewConsoleLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	symbols := cfg.Symbols()
	if len(args) > 0 {
		symbols = config.ParseSymbols(strings.Join(args, ","))
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols given")
	}

	accessor, marketCache, err := app.NewMarketAccessor(cfg, logger)
	if err != nil {
		return fmt.Errorf("create market accessor: %w", err)
	}
	defer marketCache.Close()

	prices := accessor.CurrentPrices(ctx, symbols)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SYMBOL\tPRICE (USD)\n")
	fmt.Fprintf(w, "------\t-----------\n")
	for _, symbol := range symbols {
		price, ok := prices[symbol]
		if !ok {
			fmt.Fprintf(w, "%s\tunavailable\n", symbol)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", symbol, format.USD(price))
	}
	w.Flush()

	if len(prices) == 0 {
		return fmt.Errorf("no price data available")
	}

	return nil
}
