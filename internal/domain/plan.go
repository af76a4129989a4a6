package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is a trainer-authored workout prescription attached to a
// relationship. Plans are append-only; newer plans supersede older ones by
// ordering, never by mutation.
type WorkoutPlan struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RelationshipID primitive.ObjectID `bson:"relationshipId" json:"relationshipId"`
	Title          string             `bson:"title" json:"title"`
	Overview       string             `bson:"overview,omitempty" json:"overview,omitempty"`
	Exercises      string             `bson:"exercises" json:"exercises"`
	AssignedAt     time.Time          `bson:"assignedAt" json:"assignedAt"`
}

// MealPlan is the meal variant of a plan. The calorie target is free-form
// text (e.g. "2000 kcal") rather than a number.
type MealPlan struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RelationshipID     primitive.ObjectID `bson:"relationshipId" json:"relationshipId"`
	Title              string             `bson:"title" json:"title"`
	DailyCalorieTarget string             `bson:"dailyCalorieTarget,omitempty" json:"dailyCalorieTarget,omitempty"`
	Meals              string             `bson:"meals" json:"meals"`
	AssignedAt         time.Time          `bson:"assignedAt" json:"assignedAt"`
}
