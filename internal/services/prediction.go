package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/C241-PS090/backend-api/internal/mq"
	"github.com/C241-PS090/backend-api/types"
	"github.com/sirupsen/logrus"
)

// PredictionRepository defines persistence operations for predictions.
type PredictionRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]types.Prediction, error)
	Create(ctx context.Context, p types.Prediction) (types.Prediction, error)
}

// PredictionService reads predictions for the API and ingests
// prediction events published by the predict service.
type PredictionService struct {
	repo PredictionRepository
	log  *logrus.Logger
}

func NewPredictionService(repo PredictionRepository, log *logrus.Logger) *PredictionService {
	return &PredictionService{repo: repo, log: log}
}

func (s *PredictionService) ListByUserID(ctx context.Context, userID string) ([]types.Prediction, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// predictionEvent is the wire shape published by the predict service.
// created_at is an ISO-8601 timestamp, with or without a zone.
type predictionEvent struct {
	UserID     string  `json:"userId"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	CreatedAt  string  `json:"created_at"`
}

// Ingest handles one prediction event. Malformed payloads are logged
// and dropped; store failures are returned so the broker redelivers.
func (s *PredictionService) Ingest(ctx context.Context, msg mq.Message) error {
	var event predictionEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.log.WithError(err).WithField("messageId", msg.ID).Warn("dropping malformed prediction event")
		return nil
	}
	if strings.TrimSpace(event.UserID) == "" || strings.TrimSpace(event.Class) == "" {
		s.log.WithField("messageId", msg.ID).Warn("dropping prediction event with missing fields")
		return nil
	}

	prediction := types.Prediction{
		UserID:     event.UserID,
		Class:      event.Class,
		Confidence: event.Confidence,
		CreatedAt:  parseEventTime(event.CreatedAt),
	}

	stored, err := s.repo.Create(ctx, prediction)
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"predictionId": stored.ID,
		"userId":       stored.UserID,
		"class":        stored.Class,
	}).Info("prediction ingested")
	return nil
}

// parseEventTime accepts RFC 3339 timestamps as well as the zoneless
// form the predict service emits. Unparseable values yield the zero
// time and the store stamps the row itself.
func parseEventTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
