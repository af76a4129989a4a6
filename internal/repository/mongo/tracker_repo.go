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
	workoutLogCollectionName    = "workout_logs"
	mealLogCollectionName       = "meal_logs"
	waterSleepLogCollectionName = "water_sleep_logs"
)

// dateRangeFilter matches entries for one user whose logDate falls within
// [from, to] inclusive. Dates are stored at midnight UTC.
func dateRangeFilter(userID primitive.ObjectID, from, to time.Time) bson.M {
	return bson.M{
		"userId":  userID,
		"logDate": bson.M{"$gte": from, "$lte": to},
	}
}

// --- Workout Logs ---

type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new WorkoutLog repository.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{collection: db.Collection(workoutLogCollectionName)}
}

func (r *mongoWorkoutLogRepository) Create(ctx context.Context, entry *domain.WorkoutLog) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout log requires userId")
	}
	entry.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

func (r *mongoWorkoutLogRepository) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.WorkoutLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "logDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "logDate": date}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.WorkoutLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, cursor.Err()
}

func (r *mongoWorkoutLogRepository) GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutLog, error) {
	cursor, err := r.collection.Find(ctx, dateRangeFilter(userID, from, to))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.WorkoutLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, cursor.Err()
}

// --- Meal Logs ---

type mongoMealLogRepository struct {
	collection *mongo.Collection
}

// NewMongoMealLogRepository creates a new MealLog repository.
func NewMongoMealLogRepository(db *mongo.Database) repository.MealLogRepository {
	return &mongoMealLogRepository{collection: db.Collection(mealLogCollectionName)}
}

func (r *mongoMealLogRepository) Create(ctx context.Context, entry *domain.MealLog) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("meal log requires userId")
	}
	entry.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

func (r *mongoMealLogRepository) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.MealLog, error) {
	// Meals for a day are listed in the order they were eaten.
	findOptions := options.Find().SetSort(bson.D{{Key: "mealTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "logDate": date}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.MealLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, cursor.Err()
}

func (r *mongoMealLogRepository) GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.MealLog, error) {
	cursor, err := r.collection.Find(ctx, dateRangeFilter(userID, from, to))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.MealLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, cursor.Err()
}

// --- Water/Sleep Logs ---

type mongoWaterSleepLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWaterSleepLogRepository creates a new WaterSleepLog repository.
func NewMongoWaterSleepLogRepository(db *mongo.Database) repository.WaterSleepLogRepository {
	return &mongoWaterSleepLogRepository{collection: db.Collection(waterSleepLogCollectionName)}
}

func (r *mongoWaterSleepLogRepository) Create(ctx context.Context, entry *domain.WaterSleepLog) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("water/sleep log requires userId")
	}
	entry.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

func (r *mongoWaterSleepLogRepository) GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.WaterSleepLog, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "logDate": date})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.WaterSleepLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, cursor.Err()
}

func (r *mongoWaterSleepLogRepository) GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.WaterSleepLog, error) {
	cursor, err := r.collection.Find(ctx, dateRangeFilter(userID, from, to))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.WaterSleepLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, cursor.Err()
}

// EnsureLogIndexes creates the shared (userId, logDate) index used by every
// log collection's range queries.
func EnsureLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "logDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; date-range scans still work unindexed.
	}
}
