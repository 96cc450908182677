package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/dashboard"
	"github.com/AnshRaj112/mindlink-backend/internal/statesync"
)

// Add Restricted Contact Request
type AddRestrictedContactRequest struct {
	ContactName string `json:"contact_name"`
}

// Add Trusted Contact Request
type AddTrustedContactRequest struct {
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// Trusted Alert Toggle Request
type TrustedAlertRequest struct {
	AlertEnabled bool `json:"alert_enabled"`
}

// GetRestrictedContacts lists the user's deny-list entries
func GetRestrictedContacts(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Restricted); err != nil {
		http.Error(w, "Failed to load restricted contacts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"contacts": d.Restricted.Rows(),
	})
}

// AddRestrictedContact creates a deny-list entry
func AddRestrictedContact(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req AddRestrictedContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Restricted); err != nil {
		http.Error(w, "Failed to load restricted contacts", http.StatusInternalServerError)
		return
	}

	contact, err := d.AddRestrictedContact(r.Context(), req.ContactName)
	if err != nil {
		if _, ok := err.(*statesync.Error); ok {
			http.Error(w, "Failed to add contact", http.StatusInternalServerError)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Contact restricted",
		"contact": contact,
	})
}

// RemoveRestrictedContact deletes a deny-list entry
func RemoveRestrictedContact(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	contactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid contact ID", http.StatusBadRequest)
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Restricted); err != nil {
		http.Error(w, "Failed to load restricted contacts", http.StatusInternalServerError)
		return
	}

	if err := d.RemoveRestrictedContact(r.Context(), contactID); err != nil {
		http.Error(w, "Failed to remove contact", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Contact removed",
	})
}

// GetTrustedContacts lists the user's allow-list entries with display
// initials, seeding the demo contacts on a user's first visit.
func GetTrustedContacts(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Trusted); err != nil {
		http.Error(w, "Failed to load trusted contacts", http.StatusInternalServerError)
		return
	}

	contacts := d.Trusted.Rows()
	out := make([]map[string]interface{}, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, map[string]interface{}{
			"id":            c.ID,
			"contact_name":  c.ContactName,
			"contact_email": c.ContactEmail,
			"avatar_url":    c.AvatarURL,
			"alert_enabled": c.AlertEnabled,
			"created_at":    c.CreatedAt,
			"initials":      dashboard.Initials(c.ContactName),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"contacts": out,
	})
}

// AddTrustedContact creates an allow-list entry
func AddTrustedContact(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req AddTrustedContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Trusted); err != nil {
		http.Error(w, "Failed to load trusted contacts", http.StatusInternalServerError)
		return
	}

	contact, err := d.AddTrustedContact(r.Context(), req.ContactName, req.ContactEmail)
	if err != nil {
		if _, ok := err.(*statesync.Error); ok {
			http.Error(w, "Failed to add contact", http.StatusInternalServerError)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Trusted contact added",
		"contact": contact,
	})
}

// SetTrustedAlert toggles high-stress alerts for one trusted contact
func SetTrustedAlert(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	contactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid contact ID", http.StatusBadRequest)
		return
	}

	var req TrustedAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	d := Dashboards.For(userID)
	if err := dashboard.Ensure(r.Context(), d.Trusted); err != nil {
		http.Error(w, "Failed to load trusted contacts", http.StatusInternalServerError)
		return
	}

	if err := d.SetTrustedAlertEnabled(r.Context(), contactID, req.AlertEnabled); err != nil {
		http.Error(w, "Failed to update contact", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Alert preference updated",
	})
}
