package types

import "time"

// Prediction is a classification result produced for a user by the
// predict service. This API only reads predictions; rows are written by
// the ingest worker.
type Prediction struct {
	// ID is the opaque unique identifier of the prediction.
	ID string `json:"id" db:"id"`

	// UserID identifies the user the prediction belongs to.
	UserID string `json:"userId" db:"user_id"`

	// Class is the predicted class label.
	Class string `json:"class" db:"class"`

	// Confidence is the model confidence for Class, as a percentage.
	Confidence float64 `json:"confidence" db:"confidence"`

	// CreatedAt is the timestamp the prediction was made.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
