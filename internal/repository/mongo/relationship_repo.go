package mongo

import (
	"context"
	"errors"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const relationshipCollectionName = "relationships"

// mongoRelationshipRepository implements repository.RelationshipRepository.
type mongoRelationshipRepository struct {
	collection *mongo.Collection
}

// NewMongoRelationshipRepository creates a new Relationship repository.
func NewMongoRelationshipRepository(db *mongo.Database) repository.RelationshipRepository {
	return &mongoRelationshipRepository{
		collection: db.Collection(relationshipCollectionName),
	}
}

// Create inserts a new relationship. The partial unique index on clientId
// (restricted to PENDING/ACTIVE documents) rejects a second non-terminal
// relationship for the same client; that shows up here as ErrConflict.
func (r *mongoRelationshipRepository) Create(ctx context.Context, rel *domain.Relationship) (primitive.ObjectID, error) {
	if rel.ClientID == primitive.NilObjectID || rel.TrainerID == primitive.NilObjectID || rel.Status == "" {
		return primitive.NilObjectID, errors.New("relationship requires clientId, trainerId, and status")
	}

	rel.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, rel)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted relationship ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single relationship by its ID.
func (r *mongoRelationshipRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Relationship, error) {
	var rel domain.Relationship
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rel, nil
}

// UpdateStatus persists a status transition. ClientID, TrainerID and
// EnrolledAt never change after creation.
func (r *mongoRelationshipRepository) UpdateStatus(ctx context.Context, rel *domain.Relationship) error {
	if rel.ID == primitive.NilObjectID {
		return errors.New("relationship ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"status":      rel.Status,
			"respondedAt": rel.RespondedAt,
			"cancelledAt": rel.CancelledAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": rel.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByClientID retrieves every relationship a client has ever had,
// oldest first.
func (r *mongoRelationshipRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Relationship, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

// GetByTrainerID retrieves every relationship owned by a trainer.
func (r *mongoRelationshipRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Relationship, error) {
	return r.find(ctx, bson.M{"trainerId": trainerID})
}

// GetByTrainerIDAndStatus retrieves a trainer's relationships in one status.
func (r *mongoRelationshipRepository) GetByTrainerIDAndStatus(ctx context.Context, trainerID primitive.ObjectID, status domain.RelationshipStatus) ([]domain.Relationship, error) {
	return r.find(ctx, bson.M{"trainerId": trainerID, "status": status})
}

// GetNonTerminalByClientID returns the client's PENDING or ACTIVE
// relationship, if any.
func (r *mongoRelationshipRepository) GetNonTerminalByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.Relationship, error) {
	filter := bson.M{
		"clientId": clientID,
		"status":   bson.M{"$in": domain.NonTerminalStatuses},
	}
	var rel domain.Relationship
	err := r.collection.FindOne(ctx, filter).Decode(&rel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rel, nil
}

// GetByClientIDAndStatus returns the client's relationship in the given
// status, if any.
func (r *mongoRelationshipRepository) GetByClientIDAndStatus(ctx context.Context, clientID primitive.ObjectID, status domain.RelationshipStatus) (*domain.Relationship, error) {
	var rel domain.Relationship
	err := r.collection.FindOne(ctx, bson.M{"clientId": clientID, "status": status}).Decode(&rel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rel, nil
}

func (r *mongoRelationshipRepository) find(ctx context.Context, filter bson.M) ([]domain.Relationship, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "enrolledAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rels []domain.Relationship
	if err = cursor.All(ctx, &rels); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return rels, nil
}

// EnsureRelationshipIndexes creates necessary indexes. Call during startup.
// The partial unique index is the storage-level guard for the "at most one
// PENDING/ACTIVE relationship per client" rule; the service-level check alone
// would race under concurrent bookings.
func EnsureRelationshipIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": domain.NonTerminalStatuses},
				}),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; the service-level conflict check still applies.
	}
}
