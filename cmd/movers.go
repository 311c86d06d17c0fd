package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mselser95/crypto-tracker/internal/app"
	"github.com/mselser95/crypto-tracker/internal/market"
	"github.com/mselser95/crypto-tracker/pkg/config"
	"github.com/mselser95/crypto-tracker/pkg/format"
	"github.com/mselser95/crypto-tracker/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var moversCmd = &cobra.Command{
	Use:   "movers",
	Short: "Show top gainers and losers by 24h change",
	Long: `Fetches the top coins by 24h volume and shows the biggest gainers and
losers among them. Use --trending to list the top coins by volume instead.`,
	RunE: runMovers,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(moversCmd)
	moversCmd.Flags().IntP("limit", "l", market.DefaultMoversLimit, "Number of coins per list")
	moversCmd.Flags().BoolP("trending", "t", false, "List top coins by 24h volume")
}

func runMovers(cmd *cobra.Command, args []string) error {
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

	// Get flags
	limit, _ := cmd.Flags().GetInt("limit")
	trending, _ := cmd.Flags().GetBool("trending")

	if limit < 1 {
		return &types.ValidationError{Field: "limit", Value: fmt.Sprint(limit), Message: "must be positive"}
	}

	accessor, marketCache, err := app.NewMarketAccessor(cfg, logger)
	if err != nil {
		return fmt.Errorf("create market accessor: %w", err)
	}
	defer marketCache.Close()

	if trending {
		coins, ok := accessor.Trending(ctx, limit)
		if !ok {
			return fmt.Errorf("trending data unavailable")
		}
		fmt.Println("Trending (by 24h volume):")
		printCoins(os.Stdout, coins)
		return nil
	}

	movers, ok := accessor.TopMovers(ctx, limit)
	if !ok {
		return fmt.Errorf("top movers data unavailable")
	}

	fmt.Println("Top Gainers:")
	printCoins(os.Stdout, movers.Gainers)
	fmt.Println("\nTop Losers:")
	printCoins(os.Stdout, movers.Losers)

	return nil
}

func printCoins(out io.Writer, coins []types.CoinEntry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SYMBOL\tNAME\tPRICE\t24H\tVOLUME\n")
	fmt.Fprintf(w, "------\t----\t-----\t---\t------\n")
	for _, c := range coins {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.Name,
			c.FullName,
			format.USD(c.PriceUSD),
			format.Percent(c.ChangePct24h),
			format.USD(c.TotalVolume24h))
	}
	w.Flush()
}
