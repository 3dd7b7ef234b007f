package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"rentals/config"
	"rentals/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

const (
	ActionUp     = "up"
	ActionStepUp = "step-up"
	ActionDown   = "down"
	ActionDrop   = "drop"
)

var errUnknownAction = errors.New("invalid direction, use up, step-up, down or drop")

// actions maps a direction to its migrate call. down rolls back one step, drop rolls back all.
var actions = map[string]func(*migrate.Migrate) error{
	ActionUp:     (*migrate.Migrate).Up,
	ActionStepUp: func(m *migrate.Migrate) error { return m.Steps(1) },
	ActionDown:   func(m *migrate.Migrate) error { return m.Steps(-1) },
	ActionDrop:   (*migrate.Migrate).Down,
}

// Runner applies the migrations under migrations/postgres against the write database.
func Runner(cfg *config.Config, action string) error {
	run, ok := actions[action]
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownAction, action)
	}

	extra := url.Values{}
	if cfg.DB.Postgres.MigrationTable != "" {
		extra.Set("x-migrations-table", cfg.DB.Postgres.MigrationTable)
	}

	mig, err := migrate.New(migrationsSource, postgres.WriteEndpoint(cfg).DSN(extra))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}
	defer mig.Close()

	if err = run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("Database migration finished")

	return nil
}

// Up applies every pending migration.
func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}
