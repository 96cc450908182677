package models

import (
	"time"

	"github.com/google/uuid"
)

// StressReading is one wearable sample. The dashboard only ever reads the
// latest row per user; readings are written by the ingestion pipeline, not
// by this service.
type StressReading struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	StressScore     int       `json:"stress_score"`
	HeartRate       *float64  `json:"heart_rate"`
	HRV             *float64  `json:"hrv"`
	RespiratoryRate *float64  `json:"respiratory_rate"`
	SkinTemp        *float64  `json:"skin_temp"`
	RecordedAt      time.Time `json:"recorded_at"`
}

func (r StressReading) EntityID() uuid.UUID { return r.ID }
