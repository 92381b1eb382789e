package pgx

import (
	"context"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const ProviderName = "pgx"

type Postgres struct {
	conn   *sqlx.DB
	config *Config
}

func NewPostgres(ctx context.Context, config *Config) (*Postgres, error) {
	if config == nil {
		return nil, errors.New("invalid passed options pointer")
	}

	return &Postgres{config: config.SetDefault()}, nil
}

func (p *Postgres) GetConn() *sqlx.DB {
	return p.conn
}

// Start establishes the connection and launches the connection watcher.
func (p *Postgres) Start(ctx context.Context, errorGroup *errgroup.Group) error {
	logger := p.GetLogger(ctx)

	if p.conn != nil {
		return nil
	}
	logger.Info().Msg("establishing connection...")

	var err error
	p.conn, err = sqlx.ConnectContext(ctx, ProviderName, p.config.DSN)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	logger.Info().Msg("connection established")

	p.conn.SetConnMaxLifetime(p.config.MaxConnectionLifetime)
	p.conn.SetMaxIdleConns(p.config.MaxIdleConnections)
	p.conn.SetMaxOpenConns(p.config.MaxOpenedConnections)

	errorGroup.Go(func() error {
		return p.startWatcher(ctx)
	})

	return nil
}

func (p *Postgres) GetLogger(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx).With().Str("name", "pgx").Logger()

	return &logger
}

func (p *Postgres) startWatcher(ctx context.Context) error {
	p.GetLogger(ctx).Info().Msg("starting connection watcher")

	for {
		select {
		case <-ctx.Done():
			p.GetLogger(ctx).Info().Msg("connection watcher stopped")
			return ctx.Err()
		default:
			if err := p.Ping(ctx); err != nil {
				p.GetLogger(ctx).Error().Err(err).Msg("connection lost")
			}
		}
		time.Sleep(p.config.Timeout)
	}
}

// Shutdown closes the connection to the database.
func (p *Postgres) Shutdown(ctx context.Context) error {
	if p.conn == nil {
		return nil
	}
	p.GetLogger(ctx).Info().Msg("closing connection...")

	if err := p.conn.Close(); err != nil {
		return errors.Wrap(err, "failed to close connection")
	}
	p.conn = nil

	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if p.conn == nil {
		return nil
	}

	if err := p.conn.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping connection")
	}

	return nil
}
