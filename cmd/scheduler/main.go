package main

import (
	"context"

	"bookhaus/internal/compliance"
	"bookhaus/internal/mileage"
	"bookhaus/internal/notify"
	"bookhaus/internal/scheduling/handler"
	"bookhaus/internal/scheduling/service"
	"bookhaus/internal/scheduling/validator"
	"bookhaus/internal/store"
	"bookhaus/pkg/app"
	"bookhaus/pkg/config"
	"bookhaus/pkg/kafka"
	"bookhaus/pkg/model"
)

const ServiceName = "scheduler"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Scheduler service")

	mongoClient := store.Connect(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	flusher := store.NewMongoFlusher(mongoClient, cfg.MongoDatabaseName, cfg.Log)

	st := store.New()
	restoreState(cfg, st, flusher)
	st.StartFlusher(flusher, cfg.FlushDebounce, cfg.Log)

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaNotificationTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	engine := initEngine(cfg, st, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewEngineHandler(engine, cfg.Log),
		handler.NewHealthHandler(mongoClient, cfg.Log),
	)
	serverApp.OnShutdown(func(ctx context.Context) error {
		return st.StopFlusher(ctx)
	})
	serverApp.OnShutdown(func(context.Context) error {
		return producer.Close()
	})
	serverApp.OnShutdown(func(ctx context.Context) error {
		return mongoClient.Disconnect(ctx)
	})
	serverApp.Run()
}

func initEngine(cfg *config.Config, st *store.Store, producer *kafka.Producer) service.Engine {
	candidateValidator := validator.NewCandidateValidator(cfg.Log)
	gate := compliance.NewGate(st, cfg.Log)
	ledger := mileage.NewLedger(st, cfg.FuelCostPerMile, cfg.Log)
	notifier := notify.NewKafkaNotifier(producer, cfg.Log)

	engine := service.NewEngine(st, candidateValidator, gate, ledger, notifier, cfg)
	cfg.Log.Info("Scheduling engine initialized", "database", cfg.MongoDatabaseName)
	return engine
}

// restoreState loads the last persisted snapshot, falling back to an empty
// store seeded with configured settings.
func restoreState(cfg *config.Config, st *store.Store, flusher *store.MongoFlusher) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	snap, found, err := flusher.Load(ctx)
	if err != nil {
		cfg.Log.Fatal("Failed to load persisted state", "error", err)
	}
	if found {
		st.Restore(snap)
		cfg.Log.Info("State restored from snapshot",
			"bookings", len(snap.Bookings),
			"resources", len(snap.Resources),
			"taken_at", snap.TakenAt,
		)
		return
	}

	st.SetSettings(model.Settings{
		FirstDayOfWeek:        cfg.FirstDayOfWeek,
		AutoNotifyWaitingList: cfg.AutoNotifyWaitingList,
	})
	cfg.Log.Info("No persisted state found, starting with configured settings")
}
