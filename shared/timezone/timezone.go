package timezone

import (
	"errors"
	"fmt"
	"rentals/config"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrUnparseable = errors.New("unrecognised date")

var (
	appLocation *time.Location
	once        sync.Once
)

// Location returns the application timezone, loading it from config on first use.
func Location() *time.Location {
	once.Do(func() {
		appLocation = load(config.Get().App.Timezone)
	})

	return appLocation
}

// Use overrides the application timezone.
func Use(name string) {
	once.Do(func() {})

	appLocation = load(name)
}

func load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

func Now() time.Time {
	return time.Now().In(Location())
}

func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// Day parses value with the first matching layout and returns its calendar day as midnight UTC.
func Day(value string, layouts ...string) (time.Time, error) {
	value = strings.TrimSpace(value)
	loc := Location()

	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}

		year, month, day := t.In(loc).Date()

		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, value)
}
