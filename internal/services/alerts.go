package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/database"
	"github.com/AnshRaj112/mindlink-backend/internal/models"
)

const (
	// StressAlertKeyPrefix is the Redis key prefix guarding alert dedup
	StressAlertKeyPrefix = "stress_alert:"
	// StressAlertWindow is the minimum time between alerts for one user
	StressAlertWindow = 6 * time.Hour
)

// NotifyHighStress alerts a user's trusted contacts when a reading is in
// the high bucket, at most once per window. The Redis SETNX guard makes
// repeated dashboard polls cheap and keeps multiple instances from
// double-alerting. Returns whether an alert was sent this call.
func NotifyHighStress(ctx context.Context, userID uuid.UUID, score int, contacts []models.TrustedContact) (bool, error) {
	set, err := database.RedisClient.SetNX(ctx, StressAlertKeyPrefix+userID.String(), score, StressAlertWindow).Result()
	if err != nil {
		return false, err
	}
	if !set {
		return false, nil
	}

	notified := 0
	for _, c := range contacts {
		if !c.AlertEnabled {
			continue
		}
		// Delivery to the contact's own channel is handled by the
		// notification pipeline; here we record intent and fan out to
		// the user's live feed.
		notified++
	}
	log.Printf("stress alert for user %s (score %d): notifying %d trusted contacts", userID, score, notified)

	return true, PublishDashboardEvent(ctx, DashboardEvent{
		Type:   EventStressAlert,
		UserID: userID.String(),
		Data: map[string]any{
			"stress_score":      score,
			"contacts_notified": notified,
		},
	})
}
