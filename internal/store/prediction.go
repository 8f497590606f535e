package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/C241-PS090/backend-api/types"
	"github.com/google/uuid"
)

// PredictionRepository handles persistence for predictions. The HTTP
// surface only reads; Create is used by the ingest worker.
type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// ListByUserID returns all predictions belonging to a user, possibly
// none.
func (r *PredictionRepository) ListByUserID(ctx context.Context, userID string) ([]types.Prediction, error) {
	const query = `
		SELECT id, user_id, class, confidence, created_at
		FROM predictions
		WHERE user_id = $1
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := []types.Prediction{}
	for rows.Next() {
		var p types.Prediction
		if err := rows.Scan(&p.ID, &p.UserID, &p.Class, &p.Confidence, &p.CreatedAt); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

// Create inserts a prediction row, generating an ID when none is set.
func (r *PredictionRepository) Create(ctx context.Context, p types.Prediction) (types.Prediction, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	const query = `
		INSERT INTO predictions (id, user_id, class, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Class, p.Confidence, p.CreatedAt); err != nil {
		return types.Prediction{}, err
	}
	return p, nil
}
