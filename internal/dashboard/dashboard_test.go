package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mindlink-backend/internal/models"
	"github.com/AnshRaj112/mindlink-backend/internal/statesync"
	"github.com/AnshRaj112/mindlink-backend/internal/store"
)

func newTestDashboard(t *testing.T) (*Dashboard, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	d := New(mem, uuid.New())
	require.NoError(t, d.EnsureLoaded(context.Background()))
	return d, mem
}

func TestFirstVisitSeedsDefaults(t *testing.T) {
	d, _ := newTestDashboard(t)

	conns := d.Connections.Rows()
	require.Len(t, conns, 4)

	// Display order follows the known-provider order; the staggered seed
	// timestamps keep created_at sorting from tying within the batch.
	providers := make([]string, 0, len(conns))
	for _, c := range conns {
		providers = append(providers, c.Provider)
	}
	assert.Equal(t, models.KnownProviders, providers)

	byProvider := map[string]models.AppConnection{}
	for _, c := range conns {
		byProvider[c.Provider] = c
	}
	assert.True(t, byProvider[models.ProviderWhatsApp].IsConnected)
	assert.True(t, byProvider[models.ProviderInstagram].IsConnected)
	assert.False(t, byProvider[models.ProviderMessages].IsConnected)
	assert.False(t, byProvider[models.ProviderTelegram].IsConnected)
	assert.Contains(t, byProvider[models.ProviderWhatsApp].Features, "Auto-reply")

	trusted := d.Trusted.Rows()
	require.Len(t, trusted, 3)
	assert.Equal(t, "Sarah Miller", trusted[0].ContactName)
	assert.Equal(t, "James Lee", trusted[1].ContactName)
	assert.Equal(t, "Alex Chen", trusted[2].ContactName)
	for _, c := range trusted {
		assert.True(t, c.AlertEnabled)
	}

	assert.Len(t, d.Messages.Rows(), 5)
	assert.Empty(t, d.Restricted.Rows())
	assert.Equal(t, statesync.Empty, d.Busy.Phase())
	assert.Equal(t, statesync.Empty, d.Stress.Phase())
}

func TestSecondSessionLoadsInsteadOfReseeding(t *testing.T) {
	d, mem := newTestDashboard(t)
	userID := d.UserID()

	conn := d.Connections.Rows()[0]
	_, err := d.ToggleConnection(context.Background(), conn.ID)
	require.NoError(t, err)

	// A fresh dashboard for the same user (new session) loads the stored
	// rows, toggle included, instead of writing defaults again.
	d2 := New(mem, userID)
	require.NoError(t, d2.EnsureLoaded(context.Background()))
	require.Len(t, d2.Connections.Rows(), 4)
	for i, c := range d2.Connections.Rows() {
		assert.Equal(t, models.KnownProviders[i], c.Provider, "stored order survives reload")
		if c.ID == conn.ID {
			assert.Equal(t, !conn.IsConnected, c.IsConnected)
		}
	}
}

func TestToggleConnectionAdjustsCount(t *testing.T) {
	d, _ := newTestDashboard(t)
	ctx := context.Background()

	conns := d.Connections.Rows()
	assert.Equal(t, 2, ConnectedCount(conns))

	var whatsapp models.AppConnection
	for _, c := range conns {
		if c.Provider == models.ProviderWhatsApp {
			whatsapp = c
		}
	}
	require.NotEqual(t, uuid.Nil, whatsapp.ID)

	toggled, err := d.ToggleConnection(ctx, whatsapp.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsConnected)
	assert.Equal(t, 1, ConnectedCount(d.Connections.Rows()))

	toggled, err = d.ToggleConnection(ctx, whatsapp.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsConnected)
	assert.Equal(t, 2, ConnectedCount(d.Connections.Rows()))
}

func TestToggleUnknownConnection(t *testing.T) {
	d, _ := newTestDashboard(t)
	_, err := d.ToggleConnection(context.Background(), uuid.New())
	assert.ErrorIs(t, err, statesync.ErrRowNotFound)
}

func TestBusyModeUpsert(t *testing.T) {
	d, mem := newTestDashboard(t)
	ctx := context.Background()

	// Before the first save the widget renders client-side defaults.
	setting := d.BusySetting()
	assert.False(t, setting.Enabled)
	assert.Equal(t, models.DefaultAutoReplyTemplate, setting.AutoReplyTemplate)

	// First write creates the row.
	setting, err := d.SetBusyEnabled(ctx, true)
	require.NoError(t, err)
	assert.True(t, setting.Enabled)
	assert.Equal(t, models.DefaultAutoReplyTemplate, setting.AutoReplyTemplate)

	// Later writes patch the same row rather than creating another.
	setting, err = d.SetAutoReplyTemplate(ctx, "Back soon.")
	require.NoError(t, err)
	assert.True(t, setting.Enabled)
	assert.Equal(t, "Back soon.", setting.AutoReplyTemplate)

	rows, err := mem.Select(ctx, store.CollectionBusyModeSettings, store.Filter{UserID: d.UserID()}, nil, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Back soon.", store.String(rows[0], "auto_reply_template"))
}

func TestRestrictedContactLifecycle(t *testing.T) {
	d, _ := newTestDashboard(t)
	ctx := context.Background()

	contact, err := d.AddRestrictedContact(ctx, "  Jordan  ")
	require.NoError(t, err)
	assert.Equal(t, "Jordan", contact.ContactName)
	assert.NotEqual(t, uuid.Nil, contact.ID)
	require.Len(t, d.Restricted.Rows(), 1)

	_, err = d.AddRestrictedContact(ctx, "   ")
	require.Error(t, err)
	assert.Len(t, d.Restricted.Rows(), 1)

	require.NoError(t, d.RemoveRestrictedContact(ctx, contact.ID))
	assert.Empty(t, d.Restricted.Rows())
	assert.Equal(t, statesync.Populated, d.Restricted.Phase())
}

func TestAddTrustedContactSortsNewestFirst(t *testing.T) {
	d, _ := newTestDashboard(t)

	contact, err := d.AddTrustedContact(context.Background(), "Riley Park", "riley@example.com")
	require.NoError(t, err)
	assert.True(t, contact.AlertEnabled)

	trusted := d.Trusted.Rows()
	require.Len(t, trusted, 4)
	assert.Equal(t, "Riley Park", trusted[0].ContactName)
}

func TestSetTrustedAlertEnabled(t *testing.T) {
	d, _ := newTestDashboard(t)
	ctx := context.Background()

	target := d.Trusted.Rows()[1]
	require.NoError(t, d.SetTrustedAlertEnabled(ctx, target.ID, false))

	for _, c := range d.Trusted.Rows() {
		if c.ID == target.ID {
			assert.False(t, c.AlertEnabled)
		} else {
			assert.True(t, c.AlertEnabled)
		}
	}
}

func TestMessageFeedKeepsLatestTen(t *testing.T) {
	d, _ := newTestDashboard(t)
	ctx := context.Background()

	require.Len(t, d.Messages.Rows(), 5)
	for i := 0; i < 7; i++ {
		_, err := d.AppendMessage(ctx, "You", fmt.Sprintf("update %d", i), true, false)
		require.NoError(t, err)
	}

	msgs := d.Messages.Rows()
	require.Len(t, msgs, 10)
	assert.Equal(t, "update 6", msgs[0].Content)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i-1].SentAt.Before(msgs[i].SentAt), "feed stays newest first")
	}
}

func TestLatestReading(t *testing.T) {
	d, mem := newTestDashboard(t)
	ctx := context.Background()

	_, found := d.LatestReading()
	assert.False(t, found)

	now := time.Now().UTC()
	_, err := mem.Insert(ctx, store.CollectionStressReadings, []store.Row{
		{"user_id": d.UserID(), "stress_score": int64(45), "recorded_at": now.Add(-time.Hour)},
		{"user_id": d.UserID(), "stress_score": int64(72), "recorded_at": now},
	})
	require.NoError(t, err)

	require.NoError(t, d.RefreshStress(ctx))
	reading, found := d.LatestReading()
	require.True(t, found)
	assert.Equal(t, 72, reading.StressScore)
	assert.Equal(t, StressHigh, StressLevel(reading.StressScore))
}

func TestStressRefreshSeesIngestedReadings(t *testing.T) {
	d, mem := newTestDashboard(t)
	ctx := context.Background()

	// First visit: no readings yet.
	require.NoError(t, d.RefreshStress(ctx))
	_, found := d.LatestReading()
	require.False(t, found)

	// The ingestion pipeline writes a reading behind the dashboard's
	// back; the next request's refresh must surface it.
	_, err := mem.Insert(ctx, store.CollectionStressReadings, []store.Row{
		{"user_id": d.UserID(), "stress_score": int64(85), "recorded_at": time.Now().UTC()},
	})
	require.NoError(t, err)

	require.NoError(t, d.RefreshStress(ctx))
	reading, found := d.LatestReading()
	require.True(t, found, "a reading ingested mid-session is visible on the next refresh")
	assert.Equal(t, 85, reading.StressScore)
}

// downStore fails every select once toggled, for exercising refresh
// failure behavior.
type downStore struct {
	store.Client
	down bool
}

func (s *downStore) Select(ctx context.Context, collection string, f store.Filter, order *store.Order, limit int) ([]store.Row, error) {
	if s.down {
		return nil, errors.New("store unavailable")
	}
	return s.Client.Select(ctx, collection, f, order, limit)
}

func TestStressRefreshFailureKeepsLastReading(t *testing.T) {
	mem := store.NewMemory()
	ds := &downStore{Client: mem}
	d := New(ds, uuid.New())
	ctx := context.Background()

	_, err := mem.Insert(ctx, store.CollectionStressReadings, []store.Row{
		{"user_id": d.UserID(), "stress_score": int64(55), "recorded_at": time.Now().UTC()},
	})
	require.NoError(t, err)
	require.NoError(t, d.RefreshStress(ctx))

	ds.down = true
	require.Error(t, d.RefreshStress(ctx))

	// The stale mirror still serves the last good reading.
	reading, found := d.LatestReading()
	require.True(t, found)
	assert.Equal(t, 55, reading.StressScore)
	assert.Equal(t, statesync.Populated, d.Stress.Phase())
}

func TestOneWidgetFailureDoesNotBlockOthers(t *testing.T) {
	mem := store.NewMemory()
	d := New(mem, uuid.New())
	ctx := context.Background()

	require.NoError(t, Ensure(ctx, d.Connections))
	require.Len(t, d.Connections.Rows(), 4)

	// The messages widget was never touched; connections loaded and
	// seeded independently of it.
	assert.Equal(t, statesync.Unloaded, d.Messages.Phase())
}

func TestRegistryReusesAndDrops(t *testing.T) {
	mem := store.NewMemory()
	reg := NewRegistry(mem)
	userID := uuid.New()

	d1 := reg.For(userID)
	d2 := reg.For(userID)
	assert.Same(t, d1, d2)

	require.NoError(t, d1.EnsureLoaded(context.Background()))
	require.Equal(t, statesync.Populated, d1.Connections.Phase())

	reg.Drop(userID)
	assert.Equal(t, statesync.Unloaded, d1.Connections.Phase(), "dropping resets the dashboard")

	d3 := reg.For(userID)
	assert.NotSame(t, d1, d3)
}
