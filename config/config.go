package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	GinMode        string `yaml:"gin_mode" env:"GIN_MODE" env-default:"release"`
	SwaggerEnabled bool   `yaml:"swagger_enabled" env:"HTTP_SWAGGER_ENABLED"`
}

type GRPCConfig struct {
	Address string `yaml:"address" env:"GRPC_ADDRESS" env-default:":9090"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"flightbooking"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"flightbooking"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSLMODE" env-default:"disable"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig with an empty Addr disables the search cache and seat locks.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

// KafkaConfig with no brokers disables booking events.
type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	BookingEventsTopic string   `yaml:"booking_events_topic" env:"KAFKA_BOOKING_EVENTS_TOPIC" env-default:"booking-events"`
	GroupID            string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"inventory-worker"`
}

type BookingConfig struct {
	CancellationWindowHours int    `yaml:"cancellation_window_hours" env:"BOOKING_CANCELLATION_WINDOW_HOURS" env-default:"24"`
	SeatLockTTLSeconds      int    `yaml:"seat_lock_ttl_seconds" env:"BOOKING_SEAT_LOCK_TTL_SECONDS" env-default:"30"`
	PNRPrefix               string `yaml:"pnr_prefix" env:"BOOKING_PNR_PREFIX" env-default:"PNR"`
	FlightsCacheTTL         int    `yaml:"flights_cache_ttl_seconds" env:"BOOKING_FLIGHTS_CACHE_TTL_SECONDS" env-default:"60"`
	// Timezone is the IANA zone whose calendar dates flight search matches.
	Timezone string `yaml:"timezone" env:"BOOKING_TIMEZONE" env-default:"Asia/Kolkata"`
}

func (b BookingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("booking.timezone: %w", err)
	}
	return loc, nil
}

type WorkerConfig struct {
	ReconcileIntervalMinutes int    `yaml:"reconcile_interval_minutes" env:"WORKER_RECONCILE_INTERVAL_MINUTES" env-default:"10"`
	MetricsAddress           string `yaml:"metrics_address" env:"WORKER_METRICS_ADDRESS" env-default:":9100"`
}

// LoadConfig reads the YAML file at path and then applies environment
// overrides and defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Booking.CancellationWindowHours < 0 {
		return errors.New("booking.cancellation_window_hours must not be negative")
	}
	if c.Worker.ReconcileIntervalMinutes <= 0 {
		return errors.New("worker.reconcile_interval_minutes must be positive")
	}
	if _, err := c.Booking.Location(); err != nil {
		return err
	}
	if c.Booking.PNRPrefix == "" {
		return errors.New("booking.pnr_prefix is required")
	}
	return nil
}
