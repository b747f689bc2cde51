package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bookhaus/pkg/logger"
)

type Config struct {
	Port string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	KafkaBrokers           []string
	KafkaNotificationTopic string

	FirstDayOfWeek        string
	AutoNotifyWaitingList bool

	DayStart                  string
	DayEnd                    string
	DefaultBookingDurationMin int
	SuggestionMaxResults      int

	FuelCostPerMile float64

	FlushDebounce time.Duration

	RequestTimeout  time.Duration
	MaxRequestSize  int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log *logger.Logger
}

func Load(serviceName string) *Config {
	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		KafkaBrokers:           strings.Split(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers), ","),
		KafkaNotificationTopic: getEnvStr(EnvKafkaNotificationTopic, DefaultKafkaNotificationTopic),

		FirstDayOfWeek:        strings.ToLower(getEnvStr(EnvFirstDayOfWeek, DefaultFirstDayOfWeek)),
		AutoNotifyWaitingList: getEnvBool(EnvAutoNotifyWaitingList, DefaultAutoNotifyWaitingList),

		DayStart:                  getEnvStr(EnvDayStart, DefaultDayStart),
		DayEnd:                    getEnvStr(EnvDayEnd, DefaultDayEnd),
		DefaultBookingDurationMin: getEnvNum(EnvDefaultBookingDurationMin, DefaultDefaultBookingDurationMin),
		SuggestionMaxResults:      getEnvNum(EnvSuggestionMaxResults, DefaultSuggestionMaxResults),

		FuelCostPerMile: getEnvFloat(EnvFuelCostPerMile, DefaultFuelCostPerMile),

		FlushDebounce: getEnvDuration(EnvFlushDebounce, DefaultFlushDebounce),

		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize:  getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FirstWeekday maps the configured first-day-of-week name onto time.Weekday.
func (cfg *Config) FirstWeekday() time.Weekday {
	if cfg.FirstDayOfWeek == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

var timeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if len(cfg.KafkaBrokers) == 0 {
		errs = append(errs, "KafkaBrokers cannot be empty")
	}
	if cfg.KafkaNotificationTopic == "" {
		errs = append(errs, "KafkaNotificationTopic cannot be empty")
	}

	if cfg.FirstDayOfWeek != "monday" && cfg.FirstDayOfWeek != "sunday" {
		errs = append(errs, fmt.Sprintf("FirstDayOfWeek must be 'monday' or 'sunday', got: %s", cfg.FirstDayOfWeek))
	}

	if !timeRegex.MatchString(cfg.DayStart) {
		errs = append(errs, fmt.Sprintf("DayStart must be in HH:MM format, got: %s", cfg.DayStart))
	}
	if !timeRegex.MatchString(cfg.DayEnd) {
		errs = append(errs, fmt.Sprintf("DayEnd must be in HH:MM format, got: %s", cfg.DayEnd))
	}
	if cfg.DayStart >= cfg.DayEnd {
		errs = append(errs, fmt.Sprintf("DayStart (%s) must be before DayEnd (%s)", cfg.DayStart, cfg.DayEnd))
	}

	if cfg.DefaultBookingDurationMin <= 0 {
		errs = append(errs, fmt.Sprintf("DefaultBookingDurationMin must be positive, got: %d", cfg.DefaultBookingDurationMin))
	}
	if cfg.SuggestionMaxResults <= 0 {
		errs = append(errs, fmt.Sprintf("SuggestionMaxResults must be positive, got: %d", cfg.SuggestionMaxResults))
	}
	if cfg.FuelCostPerMile < 0 {
		errs = append(errs, fmt.Sprintf("FuelCostPerMile cannot be negative, got: %f", cfg.FuelCostPerMile))
	}
	if cfg.FlushDebounce <= 0 {
		errs = append(errs, fmt.Sprintf("FlushDebounce must be positive, got: %s", cfg.FlushDebounce))
	}

	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errs) > 0 {
		msg := "Configuration validation failed:\n"
		for i, e := range errs {
			msg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"kafka_brokers", strings.Join(cfg.KafkaBrokers, ","),
		"kafka_notification_topic", cfg.KafkaNotificationTopic,
		"first_day_of_week", cfg.FirstDayOfWeek,
		"auto_notify_waiting_list", cfg.AutoNotifyWaitingList,
		"day_start", cfg.DayStart,
		"day_end", cfg.DayEnd,
		"default_booking_duration_min", cfg.DefaultBookingDurationMin,
		"suggestion_max_results", cfg.SuggestionMaxResults,
		"fuel_cost_per_mile", cfg.FuelCostPerMile,
		"flush_debounce", cfg.FlushDebounce,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}
