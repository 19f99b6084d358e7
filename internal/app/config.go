package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/moviegraph-backend/internal/platform/envutil"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
)

// Config holds the tunables of the ingestion service. Values come from an
// optional YAML file named by CONFIG_FILE, with environment variables taking
// precedence over both the file and the defaults.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	MovieConcurrency  int  `yaml:"movie_concurrency"`
	PersonConcurrency int  `yaml:"person_concurrency"`
	AllOrNothing      bool `yaml:"all_or_nothing"`

	FetchMaxAttempts int           `yaml:"fetch_max_attempts"`
	FetchBaseBackoff time.Duration `yaml:"fetch_base_backoff"`

	RatingsEnabled bool `yaml:"ratings_enabled"`
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		HTTPAddr:          ":8080",
		MovieConcurrency:  4,
		PersonConcurrency: 8,
		FetchMaxAttempts:  4,
		FetchBaseBackoff:  500 * time.Millisecond,
		RatingsEnabled:    true,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.HTTPAddr = envutil.String("HTTP_ADDR", cfg.HTTPAddr)
	cfg.MovieConcurrency = envutil.Int("INGEST_MOVIE_CONCURRENCY", cfg.MovieConcurrency)
	cfg.PersonConcurrency = envutil.Int("INGEST_PERSON_CONCURRENCY", cfg.PersonConcurrency)
	cfg.AllOrNothing = envutil.Bool("INGEST_ALL_OR_NOTHING", cfg.AllOrNothing)
	cfg.FetchMaxAttempts = envutil.Int("INGEST_FETCH_MAX_ATTEMPTS", cfg.FetchMaxAttempts)
	cfg.FetchBaseBackoff = envutil.Duration("INGEST_FETCH_BASE_BACKOFF", cfg.FetchBaseBackoff)
	cfg.RatingsEnabled = envutil.Bool("INGEST_RATINGS_ENABLED", cfg.RatingsEnabled)

	return cfg, nil
}
