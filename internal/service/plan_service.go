package service

import (
	"context"
	"errors"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanTitleRequired = errors.New("plan title is required")
)

// PlanService stores trainer-authored workout and meal plans scoped to a
// relationship. Plans are append-only and listed newest first.
type PlanService interface {
	AssignWorkout(ctx context.Context, relationshipID primitive.ObjectID, title, overview, exercises string) (*domain.WorkoutPlan, error)
	AssignMeal(ctx context.Context, relationshipID primitive.ObjectID, title, calorieTarget, meals string) (*domain.MealPlan, error)
	ListWorkouts(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	ListMeals(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.MealPlan, error)
}

type planService struct {
	workoutPlanRepo  repository.WorkoutPlanRepository
	mealPlanRepo     repository.MealPlanRepository
	relationshipRepo repository.RelationshipRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	workoutPlanRepo repository.WorkoutPlanRepository,
	mealPlanRepo repository.MealPlanRepository,
	relationshipRepo repository.RelationshipRepository,
) PlanService {
	return &planService{
		workoutPlanRepo:  workoutPlanRepo,
		mealPlanRepo:     mealPlanRepo,
		relationshipRepo: relationshipRepo,
	}
}

func (s *planService) requireRelationship(ctx context.Context, relationshipID primitive.ObjectID) error {
	if _, err := s.relationshipRepo.GetByID(ctx, relationshipID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRelationshipNotFound
		}
		return err
	}
	return nil
}

// AssignWorkout stores a workout plan on the relationship.
func (s *planService) AssignWorkout(ctx context.Context, relationshipID primitive.ObjectID, title, overview, exercises string) (*domain.WorkoutPlan, error) {
	if title == "" {
		return nil, ErrPlanTitleRequired
	}
	if err := s.requireRelationship(ctx, relationshipID); err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		RelationshipID: relationshipID,
		Title:          title,
		Overview:       overview,
		Exercises:      exercises,
	}
	planID, err := s.workoutPlanRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// AssignMeal stores a meal plan on the relationship.
func (s *planService) AssignMeal(ctx context.Context, relationshipID primitive.ObjectID, title, calorieTarget, meals string) (*domain.MealPlan, error) {
	if title == "" {
		return nil, ErrPlanTitleRequired
	}
	if err := s.requireRelationship(ctx, relationshipID); err != nil {
		return nil, err
	}

	plan := &domain.MealPlan{
		RelationshipID:     relationshipID,
		Title:              title,
		DailyCalorieTarget: calorieTarget,
		Meals:              meals,
	}
	planID, err := s.mealPlanRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// ListWorkouts returns the relationship's workout plans newest first. An
// unknown relationship yields an empty list.
func (s *planService) ListWorkouts(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	if err := s.requireRelationship(ctx, relationshipID); err != nil {
		if errors.Is(err, ErrRelationshipNotFound) {
			return []domain.WorkoutPlan{}, nil
		}
		return nil, err
	}
	return s.workoutPlanRepo.GetByRelationshipID(ctx, relationshipID)
}

// ListMeals returns the relationship's meal plans newest first. An unknown
// relationship yields an empty list.
func (s *planService) ListMeals(ctx context.Context, relationshipID primitive.ObjectID) ([]domain.MealPlan, error) {
	if err := s.requireRelationship(ctx, relationshipID); err != nil {
		if errors.Is(err, ErrRelationshipNotFound) {
			return []domain.MealPlan{}, nil
		}
		return nil, err
	}
	return s.mealPlanRepo.GetByRelationshipID(ctx, relationshipID)
}
