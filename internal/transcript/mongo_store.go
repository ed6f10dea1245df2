package transcript

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// transcriptEntry is the document stored per message.
type transcriptEntry struct {
	ConversationID string    `bson:"conversation_id"`
	Entry          string    `bson:"entry"`
	CreatedAt      time.Time `bson:"created_at"`
}

// MongoStore keeps transcripts as one document per entry, ordered by insert
// time.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a new MongoStore on the given database and collection.
func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{collection: client.Database(database).Collection(collection)}
}

// Append inserts one entry document for the conversation.
func (s *MongoStore) Append(ctx context.Context, conversationID, entry string) error {
	doc := transcriptEntry{
		ConversationID: conversationID,
		Entry:          entry,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to append to transcript '%s': %w", conversationID, err)
	}
	return nil
}

// Load returns the whole conversation, oldest entry first.
func (s *MongoStore) Load(ctx context.Context, conversationID string) (string, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return "", fmt.Errorf("failed to load transcript '%s': %w", conversationID, err)
	}
	defer cursor.Close(ctx)

	var entries []string
	for cursor.Next(ctx) {
		var doc transcriptEntry
		if err := cursor.Decode(&doc); err != nil {
			return "", fmt.Errorf("failed to decode transcript entry: %w", err)
		}
		entries = append(entries, doc.Entry)
	}
	if err := cursor.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate transcript '%s': %w", conversationID, err)
	}
	return strings.Join(entries, "\n"), nil
}
