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

const (
	workoutPlanCollectionName = "workout_plans"
	mealPlanCollectionName    = "meal_plans"
)

// newestFirst sorts plan listings by assignment time, most recent first.
var newestFirst = options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})

// --- Workout Plans ---

// mongoWorkoutPlanRepository implements repository.WorkoutPlanRepository.
type mongoWorkoutPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutPlanRepository creates a new WorkoutPlan repository.
func NewMongoWorkoutPlanRepository(db *mongo.Database) repository.WorkoutPlanRepository {
	return &mongoWorkoutPlanRepository{
		collection: db.Collection(workoutPlanCollectionName),
	}
}

// Create inserts a new workout plan.
func (r *mongoWorkoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.RelationshipID == primitive.NilObjectID || plan.Title == "" {
		return primitive.NilObjectID, errors.New("workout plan requires relationshipId and title")
	}
	plan.ID = primitive.NewObjectID()
	plan.AssignedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByRelationshipID retrieves all workout plans for a relationship,
// newest first.
func (r *mongoWorkoutPlanRepository) GetByRelationshipID(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"relationshipId": relationshipID}, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.WorkoutPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// --- Meal Plans ---

// mongoMealPlanRepository implements repository.MealPlanRepository.
type mongoMealPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoMealPlanRepository creates a new MealPlan repository.
func NewMongoMealPlanRepository(db *mongo.Database) repository.MealPlanRepository {
	return &mongoMealPlanRepository{
		collection: db.Collection(mealPlanCollectionName),
	}
}

// Create inserts a new meal plan.
func (r *mongoMealPlanRepository) Create(ctx context.Context, plan *domain.MealPlan) (primitive.ObjectID, error) {
	if plan.RelationshipID == primitive.NilObjectID || plan.Title == "" {
		return primitive.NilObjectID, errors.New("meal plan requires relationshipId and title")
	}
	plan.ID = primitive.NewObjectID()
	plan.AssignedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByRelationshipID retrieves all meal plans for a relationship,
// newest first.
func (r *mongoMealPlanRepository) GetByRelationshipID(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.MealPlan, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"relationshipId": relationshipID}, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.MealPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// EnsurePlanIndexes creates necessary indexes for a plan collection.
// Both plan collections share the same access pattern.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "relationshipId", Value: 1}, {Key: "assignedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; listings still work unindexed.
	}
}
