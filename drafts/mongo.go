package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayvia/booking"
)

// MongoStore keeps drafts in a collection with a TTL index. MongoDB's TTL
// monitor runs about once a minute, so reads filter on expires_at as well.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

type mongoDraft struct {
	ID        string    `bson:"id"`
	OwnerID   string    `bson:"owner_id"`
	Payload   string    `bson:"payload"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll, now: time.Now}
}

// EnsureIndexes creates the unique id index and the TTL index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	idxs := []mongo.IndexModel{
		{
			Keys:    bson.M{"id": 1},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	}
	_, err := s.coll.Indexes().CreateMany(ctx, idxs)
	return err
}

func (s *MongoStore) Put(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec.Draft)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", rec.ID, err)
	}
	_, err = s.coll.InsertOne(ctx, mongoDraft{
		ID:        rec.ID,
		OwnerID:   rec.OwnerID,
		Payload:   string(payload),
		ExpiresAt: rec.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("store draft %s: %w", rec.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var doc mongoDraft
	err := s.coll.FindOne(ctx, bson.M{
		"id":         id,
		"expires_at": bson.M{"$gt": s.now()},
	}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load draft %s: %w", id, err)
	}
	var d booking.Draft
	if err := json.Unmarshal([]byte(doc.Payload), &d); err != nil {
		return Record{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return Record{ID: doc.ID, OwnerID: doc.OwnerID, Draft: d, ExpiresAt: doc.ExpiresAt}, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	return err
}
