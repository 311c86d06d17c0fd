package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/mselser95/crypto-tracker/internal/alerts"
	"go.uber.org/zap"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

const createEventsTable = `
	CREATE TABLE IF NOT EXISTS alert_events (
		id            UUID PRIMARY KEY,
		symbol        TEXT NOT NULL,
		price         DOUBLE PRECISION NOT NULL,
		direction     TEXT NOT NULL,
		high          DOUBLE PRECISION NOT NULL,
		low           DOUBLE PRECISION NOT NULL,
		triggered_at  TIMESTAMPTZ NOT NULL
	)
`

// NewPostgresStorage connects to PostgreSQL and ensures the events table exists.
func NewPostgresStorage(ctx context.Context, cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	storage, err := newPostgresStorage(ctx, db, cfg.Logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return storage, nil
}

func newPostgresStorage(ctx context.Context, db *sql.DB, logger *zap.Logger) (*PostgresStorage, error) {
	err := db.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = db.ExecContext(ctx, createEventsTable)
	if err != nil {
		return nil, fmt.Errorf("create alert_events table: %w", err)
	}

	return &PostgresStorage{
		db:     db,
		logger: logger,
	}, nil
}

// StoreEvent inserts a triggered alert event.
func (p *PostgresStorage) StoreEvent(ctx context.Context, event *alerts.Event) error {
	query := `
		INSERT INTO alert_events (
			id, symbol, price, direction, high, low, triggered_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		event.ID,
		event.Symbol,
		event.Price,
		string(event.Direction),
		event.High,
		event.Low,
		event.TriggeredAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert event: %w", err)
	}

	p.logger.Debug("alert-event-stored",
		zap.String("event-id", event.ID),
		zap.String("symbol", event.Symbol))

	return nil
}

// Ping verifies the database connection is alive.
func (p *PostgresStorage) Ping(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
