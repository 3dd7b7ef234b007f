package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Postgres is one database server. The read and write pools are configured separately.
type Postgres struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Server struct {
	Env      string `envconfig:"ENV"       default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     string `envconfig:"PORT"      default:"8000"`
	Host     string `envconfig:"HOST"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name     string `envconfig:"APP_NAME" default:"rentals"`
	Timezone string `envconfig:"TIMEZONE"`
	CORS     struct {
		AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS" default:"true"`
		AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
		AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
		AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
		Enable           bool     `envconfig:"ENABLE"`
		MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
	} `envconfig:"CORS"`
	RateLimiter struct {
		Enable        bool `envconfig:"ENABLE"`
		MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"100"`
		WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
	} `envconfig:"RATE_LIMITER"`
	Listing struct {
		// ApplyZeroPatches switches listing updates from "present and non-zero" to "present".
		ApplyZeroPatches bool `envconfig:"APPLY_ZERO_PATCHES"`
	} `envconfig:"LISTING"`
}

type Config struct {
	Server Server `envconfig:"SERVER"`
	App    App    `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"     default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		// TTL is in seconds.
		TTL int `envconfig:"TTL" default:"300"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"15"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int      `envconfig:"MAX_RETRY"       default:"3"`
			RetryWaitTime  int      `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MigrationTable string   `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool     `envconfig:"AUTO_MIGRATE"`
			Prefix         string   `envconfig:"PREFIX"`
			Read           Postgres `envconfig:"READ"`
			Write          Postgres `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			Bookings string `envconfig:"BOOKINGS" default:"rentals.bookings"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	Storage struct {
		Driver string `envconfig:"DRIVER" default:"local"`
		Local  struct {
			Directory string `envconfig:"DIRECTORY" default:"public/uploads"`
		} `envconfig:"LOCAL"`
	} `envconfig:"STORAGE"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

const envFile = ".env"

var (
	conf Config
	once sync.Once
)

// Load reads the optional dotenv files into the environment, then decodes the environment.
// Variables already set win over the files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env files: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}

	return cfg, nil
}

// Get returns the process configuration, loading it on first use. A broken environment
// stops the process.
func Get() *Config {
	once.Do(func() {
		var err error

		conf, err = Load(envFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
	})

	return &conf
}
