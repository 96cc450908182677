package handlers

import (
	"log"
	"net/http"

	"github.com/AnshRaj112/mindlink-backend/internal/dashboard"
	"github.com/AnshRaj112/mindlink-backend/internal/services"
	"github.com/AnshRaj112/mindlink-backend/internal/statesync"
)

// GetStress returns the latest wearable reading with the derived
// presentation values the stress widget renders.
func GetStress(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	// Readings arrive from the ingestion pipeline, so the mirror is
	// refreshed on every request. A failed refresh serves the last good
	// reading instead of erroring out.
	d := Dashboards.For(userID)
	if err := d.RefreshStress(r.Context()); err != nil {
		if d.Stress.Phase() == statesync.Unloaded {
			http.Error(w, "Failed to load stress readings", http.StatusInternalServerError)
			return
		}
		log.Printf("Failed to refresh stress readings for user %s: %v", userID, err)
	}

	reading, found := d.LatestReading()
	if !found {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"has_reading": false,
		})
		return
	}

	level := dashboard.StressLevel(reading.StressScore)

	// High readings fan out to trusted contacts, deduplicated to one
	// alert per window.
	if level == dashboard.StressHigh {
		if err := dashboard.Ensure(r.Context(), d.Trusted); err != nil {
			log.Printf("Failed to load trusted contacts for stress alert: %v", err)
		} else {
			sent, err := services.NotifyHighStress(r.Context(), userID, reading.StressScore, d.Trusted.Rows())
			if err != nil {
				log.Printf("Failed to send high stress alert: %v", err)
			} else if sent {
				log.Printf("High stress alert sent for user %s (score %d)", userID, reading.StressScore)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"has_reading":   true,
		"reading":       reading,
		"stress_level":  level,
		"ring_fraction": dashboard.RingFraction(reading.StressScore),
	})
}
