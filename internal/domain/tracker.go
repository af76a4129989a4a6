package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity log entries are keyed by the owning user and a calendar date.
// LogDate is always stored truncated to midnight UTC so that equality and
// range filters line up with calendar days. Numeric fields a user may leave
// blank are pointers; analytics must not count an absent value as zero when
// averaging.

// WorkoutLog records one exercise session.
type WorkoutLog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ExerciseType    string             `bson:"exerciseType,omitempty" json:"exerciseType,omitempty"`
	DurationMinutes *int               `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	CaloriesBurned  *int               `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	LogDate         time.Time          `bson:"logDate" json:"logDate"`
}

// MealLog records one meal.
type MealLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	MealType    string             `bson:"mealType,omitempty" json:"mealType,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Calories    *int               `bson:"calories,omitempty" json:"calories,omitempty"`
	Protein     *int               `bson:"protein,omitempty" json:"protein,omitempty"`
	Carbs       *int               `bson:"carbs,omitempty" json:"carbs,omitempty"`
	LogDate     time.Time          `bson:"logDate" json:"logDate"`
	MealTime    time.Time          `bson:"mealTime" json:"mealTime"`
}

// WaterSleepLog records daily water intake and sleep for one user.
type WaterSleepLog struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	WaterIntakeLiters *float64           `bson:"waterIntakeLiters,omitempty" json:"waterIntakeLiters,omitempty"`
	SleepHours        *float64           `bson:"sleepHours,omitempty" json:"sleepHours,omitempty"`
	SleepQuality      string             `bson:"sleepQuality,omitempty" json:"sleepQuality,omitempty"`
	LogDate           time.Time          `bson:"logDate" json:"logDate"`
}
