package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvKafkaBrokers           = "KAFKA_BROKERS"
	EnvKafkaNotificationTopic = "KAFKA_NOTIFICATION_TOPIC"

	EnvFirstDayOfWeek        = "FIRST_DAY_OF_WEEK"
	EnvAutoNotifyWaitingList = "AUTO_NOTIFY_WAITING_LIST"

	EnvDayStart                  = "DAY_START"
	EnvDayEnd                    = "DAY_END"
	EnvDefaultBookingDurationMin = "DEFAULT_BOOKING_DURATION_MIN"
	EnvSuggestionMaxResults      = "SUGGESTION_MAX_RESULTS"

	EnvFuelCostPerMile = "FUEL_COST_PER_MILE"

	EnvFlushDebounce = "FLUSH_DEBOUNCE"

	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvMaxRequestSize  = "MAX_REQUEST_SIZE"
	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
