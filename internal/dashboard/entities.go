package dashboard

import (
	"encoding/json"

	"github.com/AnshRaj112/mindlink-backend/internal/models"
	"github.com/AnshRaj112/mindlink-backend/internal/statesync"
	"github.com/AnshRaj112/mindlink-backend/internal/store"
	"github.com/AnshRaj112/mindlink-backend/pkg/utils"
)

// Descriptors bind each dashboard entity to its collection, display order
// and row codec. Encode never emits "id"; identifiers are assigned by the
// store and adopted into the mirror from insert results.

func busyModeDescriptor() statesync.Descriptor[models.BusyModeSetting] {
	return statesync.Descriptor[models.BusyModeSetting]{
		Collection: store.CollectionBusyModeSettings,
		Limit:      1,
		Decode: func(row store.Row) (models.BusyModeSetting, error) {
			return models.BusyModeSetting{
				ID:                store.UUID(row, "id"),
				UserID:            store.UUID(row, "user_id"),
				Enabled:           store.Bool(row, "enabled"),
				AutoReplyTemplate: store.String(row, "auto_reply_template"),
			}, nil
		},
		Encode: func(s models.BusyModeSetting) store.Row {
			return store.Row{
				"user_id":             s.UserID,
				"enabled":             s.Enabled,
				"auto_reply_template": s.AutoReplyTemplate,
			}
		},
	}
}

func connectionsDescriptor() statesync.Descriptor[models.AppConnection] {
	return statesync.Descriptor[models.AppConnection]{
		Collection: store.CollectionAppConnections,
		Order:      &store.Order{Column: "created_at"},
		Decode: func(row store.Row) (models.AppConnection, error) {
			return models.AppConnection{
				ID:          store.UUID(row, "id"),
				UserID:      store.UUID(row, "user_id"),
				Provider:    store.String(row, "provider"),
				IsConnected: store.Bool(row, "is_connected"),
				Features:    store.StringSlice(row, "features"),
				CreatedAt:   store.Time(row, "created_at"),
			}, nil
		},
		Encode: func(c models.AppConnection) store.Row {
			features, _ := json.Marshal(c.Features)
			row := store.Row{
				"user_id":      c.UserID,
				"provider":     c.Provider,
				"is_connected": c.IsConnected,
				"features":     string(features),
			}
			if !c.CreatedAt.IsZero() {
				row["created_at"] = c.CreatedAt
			}
			return row
		},
		Less: func(a, b models.AppConnection) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		},
		Defaults: defaultConnections,
	}
}

func restrictedContactsDescriptor() statesync.Descriptor[models.RestrictedContact] {
	return statesync.Descriptor[models.RestrictedContact]{
		Collection: store.CollectionRestrictedContacts,
		Order:      &store.Order{Column: "created_at"},
		Decode: func(row store.Row) (models.RestrictedContact, error) {
			return models.RestrictedContact{
				ID:          store.UUID(row, "id"),
				UserID:      store.UUID(row, "user_id"),
				ContactName: store.String(row, "contact_name"),
			}, nil
		},
		Encode: func(c models.RestrictedContact) store.Row {
			return store.Row{
				"user_id":      c.UserID,
				"contact_name": c.ContactName,
			}
		},
	}
}

func trustedContactsDescriptor() statesync.Descriptor[models.TrustedContact] {
	return statesync.Descriptor[models.TrustedContact]{
		Collection: store.CollectionTrustedContacts,
		Order:      &store.Order{Column: "created_at", Desc: true},
		Decode: func(row store.Row) (models.TrustedContact, error) {
			return models.TrustedContact{
				ID:           store.UUID(row, "id"),
				UserID:       store.UUID(row, "user_id"),
				ContactName:  store.String(row, "contact_name"),
				ContactEmail: utils.DecryptOptional(store.String(row, "contact_email")),
				AvatarURL:    store.String(row, "avatar_url"),
				AlertEnabled: store.Bool(row, "alert_enabled"),
				CreatedAt:    store.Time(row, "created_at"),
			}, nil
		},
		Encode: func(c models.TrustedContact) store.Row {
			row := store.Row{
				"user_id":       c.UserID,
				"contact_name":  c.ContactName,
				"contact_email": utils.EncryptOptional(c.ContactEmail),
				"avatar_url":    c.AvatarURL,
				"alert_enabled": c.AlertEnabled,
			}
			if !c.CreatedAt.IsZero() {
				row["created_at"] = c.CreatedAt
			}
			return row
		},
		Less: func(a, b models.TrustedContact) bool {
			return a.CreatedAt.After(b.CreatedAt)
		},
		Defaults: demoTrustedContacts,
	}
}

func messagesDescriptor() statesync.Descriptor[models.Message] {
	return statesync.Descriptor[models.Message]{
		Collection: store.CollectionMessages,
		Order:      &store.Order{Column: "sent_at", Desc: true},
		Limit:      10,
		Decode: func(row store.Row) (models.Message, error) {
			return models.Message{
				ID:          store.UUID(row, "id"),
				UserID:      store.UUID(row, "user_id"),
				SenderName:  store.String(row, "sender_name"),
				Content:     store.String(row, "content"),
				IsOutgoing:  store.Bool(row, "is_outgoing"),
				IsAutoReply: store.Bool(row, "is_auto_reply"),
				SentAt:      store.Time(row, "sent_at"),
			}, nil
		},
		Encode: func(m models.Message) store.Row {
			row := store.Row{
				"user_id":       m.UserID,
				"sender_name":   m.SenderName,
				"content":       m.Content,
				"is_outgoing":   m.IsOutgoing,
				"is_auto_reply": m.IsAutoReply,
			}
			if !m.SentAt.IsZero() {
				row["sent_at"] = m.SentAt
			}
			return row
		},
		Less: func(a, b models.Message) bool {
			return a.SentAt.After(b.SentAt)
		},
		Defaults: demoMessages,
	}
}

func stressReadingsDescriptor() statesync.Descriptor[models.StressReading] {
	return statesync.Descriptor[models.StressReading]{
		Collection: store.CollectionStressReadings,
		Order:      &store.Order{Column: "recorded_at", Desc: true},
		Limit:      1,
		Decode: func(row store.Row) (models.StressReading, error) {
			return models.StressReading{
				ID:              store.UUID(row, "id"),
				UserID:          store.UUID(row, "user_id"),
				StressScore:     store.Int(row, "stress_score"),
				HeartRate:       store.FloatPtr(row, "heart_rate"),
				HRV:             store.FloatPtr(row, "hrv"),
				RespiratoryRate: store.FloatPtr(row, "respiratory_rate"),
				SkinTemp:        store.FloatPtr(row, "skin_temp"),
				RecordedAt:      store.Time(row, "recorded_at"),
			}, nil
		},
		Encode: func(r models.StressReading) store.Row {
			row := store.Row{
				"user_id":          r.UserID,
				"stress_score":     r.StressScore,
				"heart_rate":       floatValue(r.HeartRate),
				"hrv":              floatValue(r.HRV),
				"respiratory_rate": floatValue(r.RespiratoryRate),
				"skin_temp":        floatValue(r.SkinTemp),
			}
			if !r.RecordedAt.IsZero() {
				row["recorded_at"] = r.RecordedAt
			}
			return row
		},
	}
}

func floatValue(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
