package repository

import (
	"context"
	"time"

	"wellnest/core-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// RelationshipRepository defines the interface for the engagement registry.
type RelationshipRepository interface {
	Create(ctx context.Context, rel *domain.Relationship) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Relationship, error)
	// UpdateStatus persists a status transition together with its timestamp
	// fields. Only status, respondedAt and cancelledAt are mutable.
	UpdateStatus(ctx context.Context, rel *domain.Relationship) error
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Relationship, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Relationship, error)
	GetByTrainerIDAndStatus(ctx context.Context, trainerID primitive.ObjectID, status domain.RelationshipStatus) ([]domain.Relationship, error)
	// GetNonTerminalByClientID returns the client's PENDING or ACTIVE
	// relationship, if any. ErrNotFound when the client has none.
	GetNonTerminalByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.Relationship, error)
	GetByClientIDAndStatus(ctx context.Context, clientID primitive.ObjectID, status domain.RelationshipStatus) (*domain.Relationship, error)
}

// MessageRepository defines the interface for relationship-scoped chat data.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error)
	GetByRelationshipID(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.Message, error)
	CountUnread(ctx context.Context, relationshipID primitive.ObjectID, senderRole domain.SenderRole) (int64, error)
	// UnreadCountsByRelationship is the grouped variant of CountUnread:
	// one query covering every relationship in the given set.
	UnreadCountsByRelationship(ctx context.Context, relationshipIDs []primitive.ObjectID, senderRole domain.SenderRole) (map[primitive.ObjectID]int64, error)
	MarkRead(ctx context.Context, relationshipID primitive.ObjectID, senderRole domain.SenderRole) (int64, error)
}

// WorkoutPlanRepository stores trainer-assigned workout plans.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByRelationshipID(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.WorkoutPlan, error)
}

// MealPlanRepository stores trainer-assigned meal plans.
type MealPlanRepository interface {
	Create(ctx context.Context, plan *domain.MealPlan) (primitive.ObjectID, error)
	GetByRelationshipID(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.MealPlan, error)
}

// WorkoutLogRepository stores workout activity entries.
type WorkoutLogRepository interface {
	Create(ctx context.Context, entry *domain.WorkoutLog) (primitive.ObjectID, error)
	GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.WorkoutLog, error)
	GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutLog, error)
}

// MealLogRepository stores meal activity entries.
type MealLogRepository interface {
	Create(ctx context.Context, entry *domain.MealLog) (primitive.ObjectID, error)
	GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.MealLog, error)
	GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.MealLog, error)
}

// WaterSleepLogRepository stores water intake and sleep entries.
type WaterSleepLogRepository interface {
	Create(ctx context.Context, entry *domain.WaterSleepLog) (primitive.ObjectID, error)
	GetByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.WaterSleepLog, error)
	GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.WaterSleepLog, error)
}
