package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"rentals/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConns = 10
	maxOpenConns = 10
)

// Connection holds the read replica pool and the primary pool. Repositories select on
// Read and write on Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one database server as configured under DB_POSTGRES_READ_* or DB_POSTGRES_WRITE_*.
type Endpoint struct {
	Role     string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
}

func ReadEndpoint(cfg *config.Config) Endpoint {
	r := cfg.DB.Postgres.Read

	return Endpoint{
		Role: "read", Host: r.Host, Port: r.Port, Username: r.Username, Password: r.Password,
		Name: cfg.DB.Postgres.Prefix + r.Name, SSLMode: r.SSLMode,
	}
}

func WriteEndpoint(cfg *config.Config) Endpoint {
	w := cfg.DB.Postgres.Write

	return Endpoint{
		Role: "write", Host: w.Host, Port: w.Port, Username: w.Username, Password: w.Password,
		Name: cfg.DB.Postgres.Prefix + w.Name, SSLMode: w.SSLMode,
	}
}

// DSN renders a postgres:// URL for the endpoint. extra is appended to the query string.
func (e Endpoint) DSN(extra url.Values) string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// New opens both pools and stops the process when either cannot be reached.
func New(cfg *config.Config) *Connection {
	attempts := max(cfg.DB.Postgres.MaxRetry, 1)
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second

	conn := &Connection{
		Read:  connect(ReadEndpoint(cfg), attempts, wait),
		Write: connect(WriteEndpoint(cfg), attempts, wait),
	}

	if conn.Read == nil || conn.Write == nil {
		log.Fatal().
			Str("readHost", cfg.DB.Postgres.Read.Host).
			Str("writeHost", cfg.DB.Postgres.Write.Host).
			Msg("Database is unreachable, refusing to start")
	}

	return conn
}

func connect(endpoint Endpoint, attempts int, wait time.Duration) *sqlx.DB {
	logCtx := log.With().
		Str("role", endpoint.Role).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", endpoint.Name).
		Logger()

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect("postgres", endpoint.DSN(nil))
		if err == nil {
			db.SetMaxIdleConns(maxIdleConns)
			db.SetMaxOpenConns(maxOpenConns)
			logCtx.Info().Msg("Connected to database")

			return db
		}

		logCtx.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database")

		if attempt < attempts {
			time.Sleep(wait)
		}
	}

	return nil
}

// Close releases both pools.
func (c *Connection) Close() error {
	var errs []error

	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close database: %w", errors.Join(errs...))
	}

	return nil
}
