package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "FLIGHTSURETY"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config is centralized process configuration.
// Values resolve as defaults, then the YAML file, then FLIGHTSURETY_* env.
type Config struct {
	ServiceName string `yaml:"serviceName" split_words:"true"`
	HTTPPort    string `yaml:"httpPort"    envconfig:"HTTP_PORT"`

	StoreDriver string `yaml:"storeDriver" split_words:"true"`
	PostgresDSN string `yaml:"postgresDsn" envconfig:"POSTGRES_DSN"`
	SQLitePath  string `yaml:"sqlitePath"  envconfig:"SQLITE_PATH"`

	OwnerID           string   `yaml:"ownerId"           envconfig:"OWNER_ID"`
	SeedAirlineID     string   `yaml:"seedAirlineId"     envconfig:"SEED_AIRLINE_ID"`
	SeedAirlineName   string   `yaml:"seedAirlineName"   envconfig:"SEED_AIRLINE_NAME"`
	AuthorizedCallers []string `yaml:"authorizedCallers" split_words:"true"`

	RelayInterval  time.Duration `yaml:"relayInterval"  split_words:"true"`
	RelayBatchSize int           `yaml:"relayBatchSize" split_words:"true"`
	Brokers        []string      `yaml:"brokers"`

	MetricsEnabled bool `yaml:"metricsEnabled" split_words:"true"`
}

func Default() Config {
	return Config{
		ServiceName:    "flightsurety-admission",
		HTTPPort:       "8080",
		StoreDriver:    StoreMemory,
		RelayInterval:  2 * time.Second,
		RelayBatchSize: 100,
		Brokers:        []string{"localhost:9092"},
		MetricsEnabled: true,
	}
}

// Load reads the optional YAML file at path and applies environment
// overrides on top of it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.OwnerID = strings.TrimSpace(c.OwnerID)
	c.SeedAirlineID = strings.TrimSpace(c.SeedAirlineID)
	c.SeedAirlineName = strings.TrimSpace(c.SeedAirlineName)
	c.AuthorizedCallers = compact(c.AuthorizedCallers)
	c.Brokers = compact(c.Brokers)
}

func (c Config) Validate() error {
	var errs []error
	if c.OwnerID == "" {
		errs = append(errs, errors.New("owner id is required"))
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, errors.New("postgres dsn is required for the postgres store"))
		}
	case StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.StoreDriver))
	}
	if (c.SeedAirlineID == "") != (c.SeedAirlineName == "") {
		errs = append(errs, errors.New("seed airline id and name must be set together"))
	}
	if c.RelayBatchSize < 0 {
		errs = append(errs, errors.New("relay batch size must not be negative"))
	}
	return errors.Join(errs...)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
