package handlers

import (
	"net/http"

	"github.com/AnshRaj112/mindlink-backend/internal/dashboard"
	"github.com/AnshRaj112/mindlink-backend/internal/statesync"
)

// GetDashboard loads every widget's state in one request. The initial
// page render uses this instead of six round trips; widgets that fail to
// load are reported individually so the rest of the page still renders.
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	d := Dashboards.For(userID)

	errs := map[string]string{}
	if err := dashboard.Ensure(r.Context(), d.Busy); err != nil {
		errs["busy_mode"] = "failed to load"
	}
	if err := dashboard.Ensure(r.Context(), d.Connections); err != nil {
		errs["connections"] = "failed to load"
	}
	if err := dashboard.Ensure(r.Context(), d.Restricted); err != nil {
		errs["restricted_contacts"] = "failed to load"
	}
	if err := dashboard.Ensure(r.Context(), d.Trusted); err != nil {
		errs["trusted_contacts"] = "failed to load"
	}
	if err := dashboard.Ensure(r.Context(), d.Messages); err != nil {
		errs["messages"] = "failed to load"
	}
	// Stress is refreshed rather than ensured: readings are written by
	// the ingestion pipeline, so an already-loaded mirror is stale.
	if err := d.RefreshStress(r.Context()); err != nil && d.Stress.Phase() == statesync.Unloaded {
		errs["stress"] = "failed to load"
	}

	conns := d.Connections.Rows()
	body := map[string]interface{}{
		"success":             true,
		"busy_mode":           d.BusySetting(),
		"connections":         conns,
		"connected_count":     dashboard.ConnectedCount(conns),
		"connection_total":    dashboard.ConnectionTotal(conns),
		"restricted_contacts": d.Restricted.Rows(),
		"trusted_contacts":    d.Trusted.Rows(),
		"messages":            d.Messages.Rows(),
	}

	if reading, found := d.LatestReading(); found {
		body["stress"] = map[string]interface{}{
			"reading":       reading,
			"stress_level":  dashboard.StressLevel(reading.StressScore),
			"ring_fraction": dashboard.RingFraction(reading.StressScore),
		}
	}
	if len(errs) > 0 {
		body["errors"] = errs
	}

	writeJSON(w, http.StatusOK, body)
}
