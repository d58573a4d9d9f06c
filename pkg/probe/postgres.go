package probe

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/platinummonkey/ragstack/pkg/config"
)

// PostgresProbe pings the relational database
type PostgresProbe struct {
	db *sql.DB
}

// NewPostgresProbe opens a small pool against the database in cfg. sslMode,
// when set, is passed to lib/pq as the sslmode parameter.
func NewPostgresProbe(cfg config.PostgresSettings, sslMode string) (*PostgresProbe, error) {
	db, err := sql.Open("postgres", postgresDSN(cfg, sslMode))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresProbe{db: db}, nil
}

// postgresDSN builds the connection URL from the section fields so that
// credentials are escaped. DatabaseURL stays raw interpolation.
func postgresDSN(cfg config.PostgresSettings, sslMode string) string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.DB,
	}
	if sslMode != "" {
		u.RawQuery = url.Values{"sslmode": {sslMode}}.Encode()
	}
	return u.String()
}

// Name returns "postgres"
func (p *PostgresProbe) Name() string { return config.SectionPostgres }

// Check pings the database and runs SELECT 1
func (p *PostgresProbe) Check(ctx context.Context) error {
	return traced(ctx, p.Name(), func(ctx context.Context) error {
		if err := p.db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}

		var one int
		if err := p.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		return nil
	})
}

// Stats exposes the pool statistics of the probe connection
func (p *PostgresProbe) Stats() sql.DBStats {
	return p.db.Stats()
}

// Close closes the connection pool
func (p *PostgresProbe) Close() error {
	return p.db.Close()
}
