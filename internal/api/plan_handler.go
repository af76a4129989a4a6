package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler exposes plan assignment and listing.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type AssignWorkoutPlanRequest struct {
	RelationshipID string `json:"relationshipId" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Overview       string `json:"overview"`
	Exercises      string `json:"exercises" binding:"required"`
}

type AssignMealPlanRequest struct {
	RelationshipID     string `json:"relationshipId" binding:"required"`
	Title              string `json:"title" binding:"required"`
	DailyCalorieTarget string `json:"dailyCalorieTarget"`
	Meals              string `json:"meals" binding:"required"`
}

// WorkoutPlanResponse is the DTO for returning workout plans.
type WorkoutPlanResponse struct {
	ID             string    `json:"id"`
	RelationshipID string    `json:"relationshipId"`
	Title          string    `json:"title"`
	Overview       string    `json:"overview,omitempty"`
	Exercises      string    `json:"exercises"`
	AssignedAt     time.Time `json:"assignedAt"`
}

// MealPlanResponse is the DTO for returning meal plans.
type MealPlanResponse struct {
	ID                 string    `json:"id"`
	RelationshipID     string    `json:"relationshipId"`
	Title              string    `json:"title"`
	DailyCalorieTarget string    `json:"dailyCalorieTarget,omitempty"`
	Meals              string    `json:"meals"`
	AssignedAt         time.Time `json:"assignedAt"`
}

func MapWorkoutPlanToResponse(plan *domain.WorkoutPlan) WorkoutPlanResponse {
	if plan == nil {
		return WorkoutPlanResponse{}
	}
	return WorkoutPlanResponse{
		ID:             plan.ID.Hex(),
		RelationshipID: plan.RelationshipID.Hex(),
		Title:          plan.Title,
		Overview:       plan.Overview,
		Exercises:      plan.Exercises,
		AssignedAt:     plan.AssignedAt,
	}
}

func MapWorkoutPlansToResponse(plans []domain.WorkoutPlan) []WorkoutPlanResponse {
	responses := make([]WorkoutPlanResponse, len(plans))
	for i, plan := range plans {
		responses[i] = MapWorkoutPlanToResponse(&plan)
	}
	return responses
}

func MapMealPlanToResponse(plan *domain.MealPlan) MealPlanResponse {
	if plan == nil {
		return MealPlanResponse{}
	}
	return MealPlanResponse{
		ID:                 plan.ID.Hex(),
		RelationshipID:     plan.RelationshipID.Hex(),
		Title:              plan.Title,
		DailyCalorieTarget: plan.DailyCalorieTarget,
		Meals:              plan.Meals,
		AssignedAt:         plan.AssignedAt,
	}
}

func MapMealPlansToResponse(plans []domain.MealPlan) []MealPlanResponse {
	responses := make([]MealPlanResponse, len(plans))
	for i, plan := range plans {
		responses[i] = MapMealPlanToResponse(&plan)
	}
	return responses
}

// --- Handler Methods ---

// AssignWorkout stores a workout plan on a relationship.
func (h *PlanHandler) AssignWorkout(c *gin.Context) {
	var req AssignWorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	relID, err := primitive.ObjectIDFromHex(req.RelationshipID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid relationship ID format.")
		return
	}

	plan, err := h.planService.AssignWorkout(c.Request.Context(), relID, req.Title, req.Overview, req.Exercises)
	if err != nil {
		h.mapPlanError(c, err, "Failed to assign workout plan.")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutPlanToResponse(plan))
}

// AssignMeal stores a meal plan on a relationship.
func (h *PlanHandler) AssignMeal(c *gin.Context) {
	var req AssignMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	relID, err := primitive.ObjectIDFromHex(req.RelationshipID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid relationship ID format.")
		return
	}

	plan, err := h.planService.AssignMeal(c.Request.Context(), relID, req.Title, req.DailyCalorieTarget, req.Meals)
	if err != nil {
		h.mapPlanError(c, err, "Failed to assign meal plan.")
		return
	}
	c.JSON(http.StatusCreated, MapMealPlanToResponse(plan))
}

// ListWorkouts returns a relationship's workout plans, newest first.
func (h *PlanHandler) ListWorkouts(c *gin.Context) {
	relID, err := primitive.ObjectIDFromHex(c.Param("relationshipId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid relationship ID format.")
		return
	}

	plans, err := h.planService.ListWorkouts(c.Request.Context(), relID)
	if err != nil {
		h.mapPlanError(c, err, "Failed to list workout plans.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutPlansToResponse(plans))
}

// ListMeals returns a relationship's meal plans, newest first.
func (h *PlanHandler) ListMeals(c *gin.Context) {
	relID, err := primitive.ObjectIDFromHex(c.Param("relationshipId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid relationship ID format.")
		return
	}

	plans, err := h.planService.ListMeals(c.Request.Context(), relID)
	if err != nil {
		h.mapPlanError(c, err, "Failed to list meal plans.")
		return
	}
	c.JSON(http.StatusOK, MapMealPlansToResponse(plans))
}

func (h *PlanHandler) mapPlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrRelationshipNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanTitleRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: %s: %v", fallback, err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
