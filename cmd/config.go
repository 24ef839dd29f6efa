package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/domain/services"

	"github.com/lib/pq"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	NotifyRedis  = "redis"
	NotifyPubSub = "pubsub"
	NotifyLog    = "log"

	// MinTickInterval is the finest interval the cron scheduler can honour.
	MinTickInterval = time.Second
)

type Config struct {
	HTTPPort string

	// DatabaseURL, when set, replaces the DB_* parts.
	DatabaseURL string
	urlDSN      string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AppEnv                string
	StatusTickInterval    time.Duration
	StatusBatchSize       int
	ScheduledTickInterval time.Duration
	DwellThresholds       services.DwellThresholds

	DeliveryFee kernel.Money
	TaxRate     float64

	NotifyBackend string
	RedisURL      string
	PubSubProject string
	PubSubTopic   string

	StripeAPIKey string

	LogLevel slog.Level
}

// DSN renders the PostgreSQL connection string.
func (c Config) DSN() string {
	if c.urlDSN != "" {
		return c.urlDSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// IsProduction reports whether APP_ENV selects the production defaults.
func (c Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// LoadConfig reads the configuration through getenv, applying defaults for
// unset variables. All invalid values are reported together.
func LoadConfig(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		HTTPPort:      env("HTTP_PORT", "8080"),
		DatabaseURL:   env("DATABASE_URL", ""),
		DBHost:        env("DB_HOST", "localhost"),
		DBPort:        env("DB_PORT", "5432"),
		DBUser:        env("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD"),
		DBName:        env("DB_NAME", "orders"),
		DBSslMode:     env("DB_SSLMODE", "disable"),
		AppEnv:        strings.ToLower(env("APP_ENV", EnvDevelopment)),
		RedisURL:      env("REDIS_URL", ""),
		PubSubProject: env("PUBSUB_PROJECT", ""),
		PubSubTopic:   env("PUBSUB_TOPIC", "order-events"),
		StripeAPIKey:  env("STRIPE_API_KEY", ""),
	}

	defaultTick := 10 * time.Second
	defaultDwell := services.DevelopmentDwellThresholds()
	if cfg.IsProduction() {
		defaultTick = 30 * time.Second
		defaultDwell = services.ProductionDwellThresholds()
	}

	var errList []error
	collect := func(err error) {
		if err != nil {
			errList = append(errList, err)
		}
	}

	var err error
	if cfg.DatabaseURL != "" {
		cfg.urlDSN, err = pq.ParseURL(cfg.DatabaseURL)
		if err != nil {
			collect(fmt.Errorf("DATABASE_URL: %w", err))
		}
	}

	cfg.StatusTickInterval, err = ParseTickInterval("STATUS_TICK_INTERVAL", getenv("STATUS_TICK_INTERVAL"), defaultTick)
	collect(err)
	cfg.ScheduledTickInterval, err = ParseTickInterval("SCHEDULED_TICK_INTERVAL", getenv("SCHEDULED_TICK_INTERVAL"), time.Minute)
	collect(err)
	cfg.StatusBatchSize, err = ParsePositiveInt("STATUS_BATCH_SIZE", getenv("STATUS_BATCH_SIZE"), 10)
	collect(err)

	fee, err := ParseNonNegativeInt("DELIVERY_FEE", getenv("DELIVERY_FEE"), 299)
	collect(err)
	cfg.DeliveryFee = kernel.Money(fee)
	cfg.TaxRate, err = ParseRate("TAX_RATE", getenv("TAX_RATE"), 0.08)
	collect(err)

	cfg.DwellThresholds, err = ParseDwellThresholds(getenv, defaultDwell)
	collect(err)

	cfg.NotifyBackend, err = ParseNotifyBackend(getenv("NOTIFY_BACKEND"), cfg.RedisURL)
	collect(err)
	if cfg.NotifyBackend == NotifyPubSub && cfg.PubSubProject == "" {
		collect(errors.New("PUBSUB_PROJECT is required when NOTIFY_BACKEND is pubsub"))
	}
	if cfg.NotifyBackend == NotifyRedis && cfg.RedisURL == "" {
		collect(errors.New("REDIS_URL is required when NOTIFY_BACKEND is redis"))
	}

	cfg.LogLevel, err = ParseLogLevel(getenv("LOG_LEVEL"))
	collect(err)

	if err = errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseDuration parses a Go duration such as "30s" or "2m".
func ParseDuration(key, raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, raw)
	}
	return d, nil
}

// ParseTickInterval parses a job interval of at least MinTickInterval.
func ParseTickInterval(key, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDuration(key, raw, def)
	if err != nil {
		return 0, err
	}
	if d < MinTickInterval {
		return 0, fmt.Errorf("%s: must be at least %s, got %s", key, MinTickInterval, d)
	}
	return d, nil
}

func ParsePositiveInt(key, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}

// ParseNonNegativeInt accepts zero, e.g. free delivery.
func ParseNonNegativeInt(key, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %d", key, n)
	}
	return n, nil
}

// ParseRate parses a fraction in [0, 1].
func ParseRate(key, raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("%s: must be between 0 and 1, got %s", key, raw)
	}
	return f, nil
}

// DwellEnvKey is the variable overriding the dwell time of status, e.g. DWELL_ON_THE_WAY.
func DwellEnvKey(status order.Status) string {
	return "DWELL_" + strings.ToUpper(status.String())
}

// ParseDwellThresholds applies DWELL_<STATUS> overrides to defaults.
func ParseDwellThresholds(getenv func(string) string, defaults services.DwellThresholds) (services.DwellThresholds, error) {
	overrides := services.DwellThresholds{}
	var errList []error
	for _, status := range order.InFlightStatuses() {
		key := DwellEnvKey(status)
		raw := getenv(key)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		d, err := ParseDuration(key, raw, 0)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		overrides[status] = d
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	thresholds := defaults.With(overrides)
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return thresholds, nil
}

// ParseNotifyBackend picks the notification channel. Without an explicit choice,
// redis is used when REDIS_URL is set and the log channel otherwise.
func ParseNotifyBackend(raw, redisURL string) (string, error) {
	switch backend := strings.ToLower(strings.TrimSpace(raw)); backend {
	case "":
		if redisURL != "" {
			return NotifyRedis, nil
		}
		return NotifyLog, nil
	case NotifyRedis, NotifyPubSub, NotifyLog:
		return backend, nil
	default:
		return "", fmt.Errorf("NOTIFY_BACKEND: unknown backend %q", raw)
	}
}

func ParseLogLevel(raw string) (slog.Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
