// Package dashboard assembles the per-user synchronized states behind the
// wellbeing dashboard: busy mode, app connections, restricted and trusted
// contacts, the recent-message feed and the latest stress reading.
package dashboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/models"
	"github.com/AnshRaj112/mindlink-backend/internal/statesync"
	"github.com/AnshRaj112/mindlink-backend/internal/store"
)

// Dashboard owns one user's view of every dashboard entity. All six
// states share one store client; each keeps its own mirror and fails
// independently of its siblings.
type Dashboard struct {
	userID uuid.UUID

	Busy        *statesync.State[models.BusyModeSetting]
	Connections *statesync.State[models.AppConnection]
	Restricted  *statesync.State[models.RestrictedContact]
	Trusted     *statesync.State[models.TrustedContact]
	Messages    *statesync.State[models.Message]
	Stress      *statesync.State[models.StressReading]
}

// New builds the dashboard for one user. Nothing is fetched until
// EnsureLoaded runs.
func New(client store.Client, userID uuid.UUID) *Dashboard {
	return &Dashboard{
		userID:      userID,
		Busy:        statesync.New(client, busyModeDescriptor(), userID),
		Connections: statesync.New(client, connectionsDescriptor(), userID),
		Restricted:  statesync.New(client, restrictedContactsDescriptor(), userID),
		Trusted:     statesync.New(client, trustedContactsDescriptor(), userID),
		Messages:    statesync.New(client, messagesDescriptor(), userID),
		Stress:      statesync.New(client, stressReadingsDescriptor(), userID),
	}
}

func (d *Dashboard) UserID() uuid.UUID { return d.userID }

// EnsureLoaded brings every entity that is still Unloaded through its
// load-then-seed cycle. Already-loaded entities are untouched, so calling
// this on every request is cheap and retries earlier failures. Errors
// from different entities are joined; one entity failing never blocks
// its siblings.
func (d *Dashboard) EnsureLoaded(ctx context.Context) error {
	return errors.Join(
		Ensure(ctx, d.Busy),
		Ensure(ctx, d.Connections),
		Ensure(ctx, d.Restricted),
		Ensure(ctx, d.Trusted),
		Ensure(ctx, d.Messages),
		Ensure(ctx, d.Stress),
	)
}

// Ensure sequences load before seed for one entity, per the state
// machine: Unloaded -> Loading -> {Empty, Populated}, Empty -> Seeding.
// Handlers call it for just the entity they serve so one widget's
// failure never blocks another.
func Ensure[T statesync.Entity](ctx context.Context, s *statesync.State[T]) error {
	if s.Phase() == statesync.Unloaded {
		if err := s.Load(ctx); err != nil {
			return err
		}
	}
	_, err := s.SeedIfEmpty(ctx)
	return err
}

// Reset returns every entity to Unloaded and discards in-flight
// completions. Called when the session identity changes.
func (d *Dashboard) Reset() {
	d.Busy.Reset()
	d.Connections.Reset()
	d.Restricted.Reset()
	d.Trusted.Reset()
	d.Messages.Reset()
	d.Stress.Reset()
}

// BusySetting returns the user's busy-mode row, or the client-side
// defaults when no row exists yet.
func (d *Dashboard) BusySetting() models.BusyModeSetting {
	rows := d.Busy.Rows()
	if len(rows) > 0 {
		return rows[0]
	}
	return models.BusyModeSetting{
		UserID:            d.userID,
		Enabled:           false,
		AutoReplyTemplate: models.DefaultAutoReplyTemplate,
	}
}

// SetBusyEnabled flips busy mode. The first write creates the row; later
// writes patch it in place.
func (d *Dashboard) SetBusyEnabled(ctx context.Context, enabled bool) (models.BusyModeSetting, error) {
	return d.saveBusy(ctx, store.Row{"enabled": enabled}, func(s *models.BusyModeSetting) {
		s.Enabled = enabled
	})
}

// SetAutoReplyTemplate saves the auto-reply text.
func (d *Dashboard) SetAutoReplyTemplate(ctx context.Context, template string) (models.BusyModeSetting, error) {
	return d.saveBusy(ctx, store.Row{"auto_reply_template": template}, func(s *models.BusyModeSetting) {
		s.AutoReplyTemplate = template
	})
}

func (d *Dashboard) saveBusy(ctx context.Context, patch store.Row, apply func(*models.BusyModeSetting)) (models.BusyModeSetting, error) {
	rows := d.Busy.Rows()
	if len(rows) == 0 {
		setting := d.BusySetting()
		apply(&setting)
		return d.Busy.Insert(ctx, setting)
	}
	if err := d.Busy.Update(ctx, rows[0].ID, patch); err != nil {
		return models.BusyModeSetting{}, err
	}
	return d.BusySetting(), nil
}

// ToggleConnection flips one app connection between connected and
// disconnected and returns its new state.
func (d *Dashboard) ToggleConnection(ctx context.Context, id uuid.UUID) (models.AppConnection, error) {
	var current *models.AppConnection
	for _, c := range d.Connections.Rows() {
		if c.ID == id {
			conn := c
			current = &conn
			break
		}
	}
	if current == nil {
		return models.AppConnection{}, statesync.ErrRowNotFound
	}

	next := !current.IsConnected
	if err := d.Connections.Update(ctx, id, store.Row{"is_connected": next}); err != nil {
		return models.AppConnection{}, err
	}
	current.IsConnected = next
	return *current, nil
}

// AddRestrictedContact appends a deny-list entry. Blank names are
// rejected before anything is sent to the store.
func (d *Dashboard) AddRestrictedContact(ctx context.Context, name string) (models.RestrictedContact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.RestrictedContact{}, errors.New("contact name is required")
	}
	return d.Restricted.Insert(ctx, models.RestrictedContact{UserID: d.userID, ContactName: name})
}

// RemoveRestrictedContact deletes a deny-list entry by its id.
func (d *Dashboard) RemoveRestrictedContact(ctx context.Context, id uuid.UUID) error {
	return d.Restricted.Delete(ctx, id)
}

// AddTrustedContact creates an allow-list entry with alerts enabled.
func (d *Dashboard) AddTrustedContact(ctx context.Context, name, email string) (models.TrustedContact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.TrustedContact{}, errors.New("contact name is required")
	}
	return d.Trusted.Insert(ctx, models.TrustedContact{
		UserID:       d.userID,
		ContactName:  name,
		ContactEmail: strings.TrimSpace(email),
		AlertEnabled: true,
		CreatedAt:    time.Now().UTC(),
	})
}

// SetTrustedAlertEnabled toggles stress alerts for one trusted contact.
func (d *Dashboard) SetTrustedAlertEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	return d.Trusted.Update(ctx, id, store.Row{"alert_enabled": enabled})
}

// SetTrustedAvatar records an uploaded avatar URL on a trusted contact.
func (d *Dashboard) SetTrustedAvatar(ctx context.Context, id uuid.UUID, url string) error {
	return d.Trusted.Update(ctx, id, store.Row{"avatar_url": url})
}

// AppendMessage records an outgoing or auto-reply message in the feed.
func (d *Dashboard) AppendMessage(ctx context.Context, senderName, content string, outgoing, autoReply bool) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, errors.New("message content is required")
	}
	return d.Messages.Insert(ctx, models.Message{
		UserID:      d.userID,
		SenderName:  senderName,
		Content:     content,
		IsOutgoing:  outgoing,
		IsAutoReply: autoReply,
		SentAt:      time.Now().UTC(),
	})
}

// RefreshStress re-fetches the latest stress reading. Readings are
// written by the wearable ingestion pipeline, not through this process,
// so unlike the other widgets the stress mirror goes stale between
// requests and must be reloaded on every read. A failed refresh keeps
// the previous mirror.
func (d *Dashboard) RefreshStress(ctx context.Context) error {
	return d.Stress.Load(ctx)
}

// LatestReading returns the newest stress sample, if any.
func (d *Dashboard) LatestReading() (models.StressReading, bool) {
	rows := d.Stress.Rows()
	if len(rows) == 0 {
		return models.StressReading{}, false
	}
	return rows[0], true
}
