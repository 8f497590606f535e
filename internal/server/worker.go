package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/C241-PS090/backend-api/config"
	"github.com/C241-PS090/backend-api/internal/db"
	"github.com/C241-PS090/backend-api/internal/mq"
	"github.com/C241-PS090/backend-api/internal/services"
	"github.com/C241-PS090/backend-api/internal/store"
)

// predictionsChannel is where the predict service publishes its results.
const predictionsChannel = "predictions"

// Worker consumes prediction events from the configured broker and
// stores them for the API to serve.
type Worker struct {
	broker *mq.MQ
	svc    *services.PredictionService
	db     *sql.DB
	log    *logrus.Logger
}

// NewWorker wires the ingest worker from config.
func NewWorker(ctx context.Context, cfg config.Config) (*Worker, error) {
	log := NewLogger(cfg)

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	backend, err := newMQBackend(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	predictionRepo := store.NewPredictionRepository(dbConn)
	predictionService := services.NewPredictionService(predictionRepo, log)

	return &Worker{
		broker: mq.New(backend),
		svc:    predictionService,
		db:     dbConn,
		log:    log,
	}, nil
}

// Run consumes prediction events until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	w.log.WithField("channel", predictionsChannel).Info("prediction ingest worker started")
	return w.broker.Subscribe(ctx, predictionsChannel, w.svc.Ingest)
}

// Close releases the broker and database handles.
func (w *Worker) Close() error {
	if w.db != nil {
		_ = w.db.Close()
	}
	return w.broker.Close()
}

func newMQBackend(ctx context.Context, cfg config.Config) (mq.Backend, error) {
	switch cfg.MQBackend {
	case config.MQBackendPubSub:
		return mq.NewPubSubClient(ctx, cfg.PubSub)
	case config.MQBackendRabbitMQ:
		return mq.NewRabbitMQClient(cfg.RabbitMQ)
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQBackend)
	}
}
