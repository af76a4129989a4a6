package mongo

import (
	"context"
	"errors"
	"time"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messageCollectionName = "messages"

// mongoMessageRepository implements repository.MessageRepository.
type mongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new Message repository.
func NewMongoMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection(messageCollectionName),
	}
}

// Create inserts a new chat message. SentAt is set here; the read flag
// always starts false.
func (r *mongoMessageRepository) Create(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error) {
	if msg.RelationshipID == primitive.NilObjectID || msg.SenderID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("message requires relationshipId and senderId")
	}
	if !msg.SenderRole.IsValid() {
		return primitive.NilObjectID, errors.New("message requires a valid sender role")
	}

	msg.ID = primitive.NewObjectID()
	msg.Read = false
	msg.SentAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted message ID")
	}
	return insertedID, nil
}

// GetByRelationshipID returns the full history for a relationship ordered by
// sentAt ascending.
func (r *mongoMessageRepository) GetByRelationshipID(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.Message, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sentAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"relationshipId": relationshipID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// CountUnread counts unread messages authored by the given role within one
// relationship.
func (r *mongoMessageRepository) CountUnread(ctx context.Context, relationshipID primitive.ObjectID, senderRole domain.SenderRole) (int64, error) {
	filter := bson.M{
		"relationshipId": relationshipID,
		"senderRole":     senderRole,
		"read":           false,
	}
	return r.collection.CountDocuments(ctx, filter)
}

// UnreadCountsByRelationship groups unread counts for a whole set of
// relationships in a single aggregation instead of one count query per
// relationship. Relationships without unread messages produce no group and
// are simply absent from the result map.
func (r *mongoMessageRepository) UnreadCountsByRelationship(ctx context.Context, relationshipIDs []primitive.ObjectID, senderRole domain.SenderRole) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64)
	if len(relationshipIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"relationshipId": bson.M{"$in": relationshipIDs},
			"senderRole":     senderRole,
			"read":           false,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$relationshipId",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []struct {
		RelationshipID primitive.ObjectID `bson:"_id"`
		Count          int64              `bson:"count"`
	}
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	for _, g := range groups {
		counts[g.RelationshipID] = g.Count
	}
	return counts, nil
}

// MarkRead flips the read flag on every unread message from the given sender
// role within a relationship. Returns the number of messages updated; zero
// is not an error.
func (r *mongoMessageRepository) MarkRead(ctx context.Context, relationshipID primitive.ObjectID, senderRole domain.SenderRole) (int64, error) {
	filter := bson.M{
		"relationshipId": relationshipID,
		"senderRole":     senderRole,
		"read":           false,
	}
	update := bson.M{"$set": bson.M{"read": true}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureMessageIndexes creates necessary indexes. Call during startup.
func EnsureMessageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: history for one relationship in send order.
			Keys:    bson.D{{Key: "relationshipId", Value: 1}, {Key: "sentAt", Value: 1}},
			Options: options.Index(),
		},
		{
			// Unread counting: relationship + sender role + read flag.
			Keys:    bson.D{{Key: "relationshipId", Value: 1}, {Key: "senderRole", Value: 1}, {Key: "read", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; counting and history queries still work unindexed.
	}
}
