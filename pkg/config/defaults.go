package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bookhaus"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultKafkaBrokers           = "localhost:9092"
	DefaultKafkaNotificationTopic = "waitlist-notifications"

	DefaultFirstDayOfWeek        = "monday"
	DefaultAutoNotifyWaitingList = false

	DefaultDayStart                  = "08:00"
	DefaultDayEnd                    = "18:00"
	DefaultDefaultBookingDurationMin = 60
	DefaultSuggestionMaxResults      = 3

	DefaultFuelCostPerMile = 0.45

	DefaultFlushDebounce = 2 * time.Second

	DefaultRequestTimeout  = 30 * time.Second
	DefaultMaxRequestSize  = 1 * 1024 * 1024 // 1MB
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)

// Booking lifecycle. Transitions are one-directional: Scheduled may move to
// Completed or Cancelled; terminal states never transition again.
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Resource types.
const (
	ResourceVehicle = "VEHICLE"
	ResourceOther   = "OTHER"
)
