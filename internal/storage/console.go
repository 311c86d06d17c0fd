package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mselser95/crypto-tracker/internal/alerts"
	"github.com/mselser95/crypto-tracker/pkg/format"
	"go.uber.org/zap"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// ConsoleStorage implements Storage by pretty-printing events.
type ConsoleStorage struct {
	out    io.Writer
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage writing to stdout.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		out:    os.Stdout,
		logger: logger,
	}
}

// StoreEvent pretty-prints a triggered alert.
func (c *ConsoleStorage) StoreEvent(ctx context.Context, event *alerts.Event) error {
	icon := "📈"
	threshold := event.High
	if event.Direction == alerts.Below {
		icon = "📉"
		threshold = event.Low
	}

	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "%s PRICE ALERT: %s is %s %s\n", icon, event.Symbol, event.Direction, format.USD(threshold))
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "  Price:   %s\n", format.USD(event.Price))
	fmt.Fprintf(c.out, "  High:    %s\n", format.USD(event.High))
	fmt.Fprintf(c.out, "  Low:     %s\n", format.USD(event.Low))
	fmt.Fprintf(c.out, "  Time:    %s\n", event.TriggeredAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(c.out, "  Next:    not before %s\n", event.TriggeredAt.Add(alerts.Cooldown).Format("15:04:05"))
	fmt.Fprintln(c.out, rule)

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
