package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirajyamin/blink-graphql/internal/models"
)

type messageMongoRepository struct {
	coll *mongo.Collection
}

func NewMessageMongoRepository(coll *mongo.Collection) MessageRepository {
	_, _ = coll.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	_, _ = coll.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "sender", Value: 1}},
	})
	_, _ = coll.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "recipient", Value: 1}},
	})
	return &messageMongoRepository{coll: coll}
}

func (r *messageMongoRepository) Save(ctx context.Context, m *models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	filter := bson.M{"_id": m.ID}
	update := bson.M{"$setOnInsert": m}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *messageMongoRepository) decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*models.Message, error) {
	defer cur.Close(ctx)
	out := []*models.Message{}
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

func (r *messageMongoRepository) FindByParticipant(ctx context.Context, userID string) ([]*models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{{"sender": userID}, {"recipient": userID}}}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *messageMongoRepository) Find(ctx context.Context, f MessageFilter) ([]*models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if f.User != "" {
		filter["$or"] = []bson.M{{"sender": f.User}, {"recipient": f.User}}
	}
	if f.ConversationID != "" {
		filter["conversation_id"] = f.ConversationID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *messageMongoRepository) SetConversationID(ctx context.Context, messageID, conversationID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.coll.UpdateByID(ctx, messageID, bson.M{"$set": bson.M{"conversation_id": conversationID}})
	return err
}
