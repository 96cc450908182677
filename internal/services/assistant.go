package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/mindlink-backend/internal/database"
)

// AssistantMessage is one analyze request and its result, kept in MongoDB
// for the Chat AI page. This history is conversational, not dashboard
// state; PostgreSQL stays the source of truth for the widgets.
type AssistantMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Input     string             `bson:"input" json:"input"`
	Result    string             `bson:"result" json:"result"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// AnalyzeMessage runs the message clarity analysis. The analysis engine
// is not built yet; this returns the placeholder result the frontend
// shows.
func AnalyzeMessage(input string) string {
	_ = input
	return "AI analysis coming soon — this feature will analyze tone, intent, and suggest improvements for your messages."
}

// EnsureAssistantIndexes configures indexes for the assistant_messages
// collection. Called on startup from main after Mongo has connected.
func EnsureAssistantIndexes(ctx context.Context) error {
	col := database.DB.Collection("assistant_messages")

	// Compound index on (user_id, timestamp) to support efficient pagination.
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("idx_user_timestamp"),
	}

	_, err := col.Indexes().CreateOne(ctx, model)
	return err
}

// SaveAssistantMessageAsync persists an analysis to MongoDB asynchronously.
// The caller should NOT block on this; fire-and-forget is acceptable.
func SaveAssistantMessageAsync(msg AssistantMessage) {
	go func(m AssistantMessage) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if m.Timestamp.IsZero() {
			m.Timestamp = time.Now().UTC()
		}

		col := database.DB.Collection("assistant_messages")
		_, _ = col.InsertOne(ctx, m)
	}(msg)
}

// LoadAssistantHistory returns paginated analysis history for a user.
// Pagination is based on timestamp + limit (newest-first scrolling).
func LoadAssistantHistory(ctx context.Context, userID string, before *time.Time, limit int64) ([]AssistantMessage, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	col := database.DB.Collection("assistant_messages")

	filter := bson.M{"user_id": userID}
	if before != nil {
		filter["timestamp"] = bson.M{"$lt": before.UTC()}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit + 1)

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	var msgs []AssistantMessage
	for cur.Next(ctx) {
		var m AssistantMessage
		if err := cur.Decode(&m); err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	if err := cur.Err(); err != nil {
		return nil, false, err
	}

	hasMore := int64(len(msgs)) > limit
	if hasMore {
		msgs = msgs[:len(msgs)-1]
	}

	return msgs, hasMore, nil
}
