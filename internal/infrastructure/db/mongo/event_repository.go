package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubcore/members-system/internal/core/domain"
)

const eventCollection = "auth_events"

// MongoEventRepository persists audit-trail entries.
type MongoEventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{coll: db.Collection(eventCollection)}
}

type mongoAuthEvent struct {
	Type      string `bson:"type"`
	Subject   string `bson:"subject"`
	Actor     string `bson:"actor,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *MongoEventRepository) Record(ctx context.Context, event domain.AuthEvent) error {
	doc := mongoAuthEvent{
		Type:      string(event.Type),
		Subject:   event.Subject,
		Actor:     event.Actor,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
