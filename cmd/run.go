package cmd

import (
	"fmt"
	"strings"

	"github.com/mselser95/crypto-tracker/internal/alerts"
	"github.com/mselser95/crypto-tracker/internal/app"
	"github.com/mselser95/crypto-tracker/internal/market"
	"github.com/mselser95/crypto-tracker/pkg/config"
	"github.com/mselser95/crypto-tracker/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the dashboard API and alert watcher",
	Long: `Starts the crypto tracker service, which will:
1. Serve the dashboard API (prices, history, global stats, movers, trending)
2. Serve /metrics, /health and /ready
3. Check price alerts on ALERT_CHECK_SCHEDULE and record triggered events

Use --alert SYMBOL:HIGH:LOW (repeatable) to arm alerts at startup.`,
	RunE: runService,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceP("alert", "a", nil, "Arm an alert at startup, as SYMBOL:HIGH:LOW")
}

func runService(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create logger
	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Get flags
	alertFlags, _ := cmd.Flags().GetStringSlice("alert")

	seeded := make([]alerts.Thresholds, 0, len(alertFlags))
	for _, raw := range alertFlags {
		t, parseErr := parseAlertFlag(raw)
		if parseErr != nil {
			return parseErr
		}
		seeded = append(seeded, t)
	}

	application, err := app.New(cfg, logger, &app.Options{Alerts: seeded})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	// Run app
	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}

// parseAlertFlag parses SYMBOL:HIGH:LOW.
func parseAlertFlag(raw string) (alerts.Thresholds, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
		return alerts.Thresholds{}, &types.ValidationError{
			Field:   "alert",
			Value:   raw,
			Message: "expected SYMBOL:HIGH:LOW",
		}
	}

	high, low, err := alerts.ParseThresholds(parts[1], parts[2])
	if err != nil {
		return alerts.Thresholds{}, err
	}

	return alerts.Thresholds{
		Symbol: market.NormalizeSymbol(parts[0]),
		High:   high,
		Low:    low,
	}, nil
}
