package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mselser95/crypto-tracker/internal/alerts"
	"github.com/mselser95/crypto-tracker/internal/app"
	"github.com/mselser95/crypto-tracker/internal/market"
	"github.com/mselser95/crypto-tracker/pkg/config"
	"github.com/mselser95/crypto-tracker/pkg/format"
	"github.com/mselser95/crypto-tracker/pkg/types"
	"github.com/spf13/cobra"
)

const (
	maxTrendDays = 30
	divider      = "--------------------------------------------------"
)

//nolint:gochecknoglobals // Cobra boilerplate
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive tracker menu",
	Long: `Starts the interactive menu: current prices, price trends, global
statistics, price alert management and side-by-side comparison.

Alerts set here live only for the session and are checked each time the
menu is shown.`,
	RunE: runMenu,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
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

	accessor, marketCache, err := app.NewMarketAccessor(cfg, logger)
	if err != nil {
		return fmt.Errorf("create market accessor: %w", err)
	}
	defer marketCache.Close()

	m := &menu{
		in:        bufio.NewScanner(os.Stdin),
		out:       os.Stdout,
		market:    accessor,
		evaluator: alerts.NewEvaluator(&alerts.Config{Logger: logger}),
	}

	return m.run(cmd.Context())
}

// menuMarket is the market data the menu reads.
type menuMarket interface {
	CurrentPrice(ctx context.Context, symbol string) (*types.PriceSnapshot, bool)
	CurrentPrices(ctx context.Context, symbols []string) map[string]float64
	Historical(ctx context.Context, symbol string, days int) (*types.HistoricalSeries, bool)
	GlobalStats(ctx context.Context) (*types.GlobalStats, bool)
}

type menu struct {
	in        *bufio.Scanner
	out       io.Writer
	market    menuMarket
	evaluator *alerts.Evaluator
}

// run loops until the user picks Exit. End of input also ends the loop.
func (m *menu) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		m.checkAlerts(ctx)
		m.printMainMenu()

		choice, ok := m.prompt("\nEnter your choice (1-6): ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			m.currentPrice(ctx)
		case "2":
			m.priceTrend(ctx)
		case "3":
			m.globalStats(ctx)
		case "4":
			m.manageAlerts()
		case "5":
			m.compare(ctx)
		case "6":
			fmt.Fprintln(m.out, "\nExiting Cryptocurrency Tracker...")
			return nil
		default:
			fmt.Fprintln(m.out, "\nInvalid choice. Please try again.")
		}
	}
}

func (m *menu) printMainMenu() {
	fmt.Fprintln(m.out, "\nCryptocurrency Tracker Menu:")
	fmt.Fprintln(m.out, "1. Get Current Price")
	fmt.Fprintln(m.out, "2. View Price Trend")
	fmt.Fprintln(m.out, "3. Show Global Stats")
	fmt.Fprintln(m.out, "4. Manage Price Alerts")
	fmt.Fprintln(m.out, "5. Compare Cryptocurrencies")
	fmt.Fprintln(m.out, "6. Exit")
}

func (m *menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) promptSymbol(label string) (string, bool) {
	raw, ok := m.prompt(label)
	if !ok {
		return "", false
	}
	return market.NormalizeSymbol(raw), true
}

func (m *menu) currentPrice(ctx context.Context) {
	symbol, ok := m.promptSymbol("Enter cryptocurrency symbol (e.g., BTC): ")
	if !ok {
		return
	}

	snapshot, found := m.market.CurrentPrice(ctx, symbol)
	if !found {
		fmt.Fprintf(m.out, "Unable to fetch price data for %s\n", symbol)
		return
	}

	fmt.Fprintf(m.out, "\n%s: %s\n", symbol, format.USD(snapshot.USDPrice))
}

func (m *menu) priceTrend(ctx context.Context) {
	symbol, ok := m.promptSymbol("Enter cryptocurrency symbol (e.g., BTC): ")
	if !ok {
		return
	}

	raw, ok := m.prompt(fmt.Sprintf("Enter number of days for trend (1-%d): ", maxTrendDays))
	if !ok {
		return
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(m.out, "Please enter a valid number")
		return
	}
	if days < 1 || days > maxTrendDays {
		fmt.Fprintf(m.out, "Please enter a number between 1 and %d\n", maxTrendDays)
		return
	}

	series, found := m.market.Historical(ctx, symbol, days)
	if !found {
		fmt.Fprintf(m.out, "Unable to fetch historical data for %s\n", symbol)
		return
	}

	m.printTrend(series)
}

func (m *menu) printTrend(series *types.HistoricalSeries) {
	fmt.Fprintf(m.out, "\n%s price trend (%d days):\n", series.Symbol, series.Days)
	fmt.Fprintln(m.out, divider)

	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\tCLOSE\tHIGH\tLOW\n")
	for _, p := range series.Points {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.Timestamp().UTC().Format("2006-01-02"),
			format.USD(p.Close),
			format.USD(p.High),
			format.USD(p.Low))
	}
	w.Flush()

	closes := series.Closes()
	if len(closes) >= 2 && closes[0] != 0 {
		change := (closes[len(closes)-1] - closes[0]) / closes[0] * 100
		fmt.Fprintf(m.out, "\nChange over period: %s\n", format.Percent(change))
	}
}

func (m *menu) globalStats(ctx context.Context) {
	stats, found := m.market.GlobalStats(ctx)
	if !found {
		fmt.Fprintln(m.out, "Unable to fetch global statistics")
		return
	}

	fmt.Fprintln(m.out, "\nGlobal Cryptocurrency Statistics:")
	fmt.Fprintln(m.out, divider)
	fmt.Fprintf(m.out, "Total Market Cap: %s\n", format.USD(stats.TotalMarketCap))
	fmt.Fprintf(m.out, "Total Volume (24h): %s\n", format.USD(stats.TotalVolume24h))
	fmt.Fprintf(m.out, "Active Cryptocurrencies: %s\n", format.Count(stats.ActiveCryptocurrencies))
}

func (m *menu) manageAlerts() {
	for {
		fmt.Fprintln(m.out, "\nAlert Management:")
		fmt.Fprintln(m.out, "1. Set New Alert")
		fmt.Fprintln(m.out, "2. View Current Alerts")
		fmt.Fprintln(m.out, "3. Remove Alert")
		fmt.Fprintln(m.out, "4. Back to Main Menu")

		choice, ok := m.prompt("\nEnter your choice (1-4): ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			m.setAlert()
		case "2":
			m.listAlerts()
		case "3":
			m.removeAlert()
		case "4":
			return
		}
	}
}

func (m *menu) setAlert() {
	symbol, ok := m.promptSymbol("Enter cryptocurrency symbol: ")
	if !ok {
		return
	}
	highRaw, ok := m.prompt("Enter high price threshold (USD): ")
	if !ok {
		return
	}
	lowRaw, ok := m.prompt("Enter low price threshold (USD): ")
	if !ok {
		return
	}

	high, low, err := alerts.ParseThresholds(highRaw, lowRaw)
	if err != nil {
		fmt.Fprintln(m.out, "Please enter valid numbers for thresholds")
		return
	}

	m.evaluator.Set(symbol, high, low)
	fmt.Fprintf(m.out, "\nAlert set for %s\n", symbol)
}

func (m *menu) listAlerts() {
	list := m.evaluator.List()
	if len(list) == 0 {
		fmt.Fprintln(m.out, "No active alerts")
		return
	}

	fmt.Fprintln(m.out, "\nCurrent Alerts:")
	fmt.Fprintln(m.out, divider)
	for _, t := range list {
		fmt.Fprintf(m.out, "%s:\n", t.Symbol)
		fmt.Fprintf(m.out, "  High: %s\n", format.USD(t.High))
		fmt.Fprintf(m.out, "  Low: %s\n", format.USD(t.Low))
	}
}

func (m *menu) removeAlert() {
	symbol, ok := m.promptSymbol("Enter cryptocurrency symbol to remove alert: ")
	if !ok {
		return
	}

	if m.evaluator.Remove(symbol) {
		fmt.Fprintf(m.out, "Alert removed for %s\n", symbol)
		return
	}
	fmt.Fprintf(m.out, "No alert found for %s\n", symbol)
}

func (m *menu) compare(ctx context.Context) {
	raw, ok := m.prompt("Enter cryptocurrency symbols separated by comma (e.g., BTC,ETH): ")
	if !ok {
		return
	}
	symbols := config.ParseSymbols(raw)
	prices := m.market.CurrentPrices(ctx, symbols)

	fmt.Fprintln(m.out, "\nComparison Results:")
	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SYMBOL\tPRICE (USD)\n")
	fmt.Fprintf(w, "------\t-----------\n")
	for _, symbol := range symbols {
		price, found := prices[symbol]
		if !found {
			fmt.Fprintf(w, "%s\tError fetching data\n", symbol)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", symbol, format.USD(price))
	}
	w.Flush()
}

// checkAlerts evaluates the session's alerts against current prices and
// prints any that fired.
func (m *menu) checkAlerts(ctx context.Context) {
	symbols := m.evaluator.Symbols()
	if len(symbols) == 0 {
		return
	}

	events := m.evaluator.Check(m.market.CurrentPrices(ctx, symbols))
	for _, e := range events {
		threshold := e.High
		if e.Direction == alerts.Below {
			threshold = e.Low
		}
		fmt.Fprintf(m.out, "\n🔔 ALERT: %s is %s %s (current: %s, %s)\n",
			e.Symbol, e.Direction, format.USD(threshold), format.USD(e.Price),
			e.TriggeredAt.Format(time.Kitchen))
	}
}
