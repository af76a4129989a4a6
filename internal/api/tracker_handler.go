package api

import (
	"log"
	"net/http"
	"time"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// logDateLayout is the wire format for calendar dates.
const logDateLayout = "2006-01-02"

// TrackerHandler exposes the activity log stores and analytics views.
type TrackerHandler struct {
	trackerService service.TrackerService
}

// NewTrackerHandler creates a new TrackerHandler.
func NewTrackerHandler(trackerService service.TrackerService) *TrackerHandler {
	return &TrackerHandler{trackerService: trackerService}
}

// --- DTOs ---

type LogWorkoutRequest struct {
	ExerciseType    string `json:"exerciseType"`
	DurationMinutes *int   `json:"durationMinutes"`
	CaloriesBurned  *int   `json:"caloriesBurned"`
	LogDate         string `json:"logDate"` // YYYY-MM-DD, defaults to today
}

type LogMealRequest struct {
	MealType    string `json:"mealType" binding:"required"`
	Description string `json:"description"`
	Calories    *int   `json:"calories"`
	Protein     *int   `json:"protein"`
	Carbs       *int   `json:"carbs"`
	LogDate     string `json:"logDate"`  // YYYY-MM-DD, defaults to today
	MealTime    string `json:"mealTime"` // RFC 3339, defaults to now
}

type LogWaterSleepRequest struct {
	WaterIntakeLiters *float64 `json:"waterIntakeLiters"`
	SleepHours        *float64 `json:"sleepHours"`
	SleepQuality      string   `json:"sleepQuality"`
	LogDate           string   `json:"logDate"` // YYYY-MM-DD, defaults to today
}

type WorkoutLogResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	ExerciseType    string `json:"exerciseType"`
	DurationMinutes *int   `json:"durationMinutes"`
	CaloriesBurned  *int   `json:"caloriesBurned"`
	LogDate         string `json:"logDate"`
}

type MealLogResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	MealType    string    `json:"mealType"`
	Description string    `json:"description,omitempty"`
	Calories    *int      `json:"calories"`
	Protein     *int      `json:"protein"`
	Carbs       *int      `json:"carbs"`
	LogDate     string    `json:"logDate"`
	MealTime    time.Time `json:"mealTime"`
}

type WaterSleepLogResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"userId"`
	WaterIntakeLiters *float64 `json:"waterIntakeLiters"`
	SleepHours        *float64 `json:"sleepHours"`
	SleepQuality      string   `json:"sleepQuality,omitempty"`
	LogDate           string   `json:"logDate"`
}

func MapWorkoutLogToResponse(entry *domain.WorkoutLog) WorkoutLogResponse {
	if entry == nil {
		return WorkoutLogResponse{}
	}
	return WorkoutLogResponse{
		ID:              entry.ID.Hex(),
		UserID:          entry.UserID.Hex(),
		ExerciseType:    entry.ExerciseType,
		DurationMinutes: entry.DurationMinutes,
		CaloriesBurned:  entry.CaloriesBurned,
		LogDate:         entry.LogDate.Format(logDateLayout),
	}
}

func MapWorkoutLogsToResponse(entries []domain.WorkoutLog) []WorkoutLogResponse {
	responses := make([]WorkoutLogResponse, len(entries))
	for i, entry := range entries {
		responses[i] = MapWorkoutLogToResponse(&entry)
	}
	return responses
}

func MapMealLogToResponse(entry *domain.MealLog) MealLogResponse {
	if entry == nil {
		return MealLogResponse{}
	}
	return MealLogResponse{
		ID:          entry.ID.Hex(),
		UserID:      entry.UserID.Hex(),
		MealType:    entry.MealType,
		Description: entry.Description,
		Calories:    entry.Calories,
		Protein:     entry.Protein,
		Carbs:       entry.Carbs,
		LogDate:     entry.LogDate.Format(logDateLayout),
		MealTime:    entry.MealTime,
	}
}

func MapMealLogsToResponse(entries []domain.MealLog) []MealLogResponse {
	responses := make([]MealLogResponse, len(entries))
	for i, entry := range entries {
		responses[i] = MapMealLogToResponse(&entry)
	}
	return responses
}

func MapWaterSleepLogToResponse(entry *domain.WaterSleepLog) WaterSleepLogResponse {
	if entry == nil {
		return WaterSleepLogResponse{}
	}
	return WaterSleepLogResponse{
		ID:                entry.ID.Hex(),
		UserID:            entry.UserID.Hex(),
		WaterIntakeLiters: entry.WaterIntakeLiters,
		SleepHours:        entry.SleepHours,
		SleepQuality:      entry.SleepQuality,
		LogDate:           entry.LogDate.Format(logDateLayout),
	}
}

func MapWaterSleepLogsToResponse(entries []domain.WaterSleepLog) []WaterSleepLogResponse {
	responses := make([]WaterSleepLogResponse, len(entries))
	for i, entry := range entries {
		responses[i] = MapWaterSleepLogToResponse(&entry)
	}
	return responses
}

// --- Helpers ---

func (h *TrackerHandler) userIDFromToken(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}

func (h *TrackerHandler) userIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// parseLogDate turns an optional YYYY-MM-DD string into a time pointer.
func parseLogDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(logDateLayout, raw, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --- Handler Methods ---

// LogWorkout appends a workout entry for the authenticated user.
func (h *TrackerHandler) LogWorkout(c *gin.Context) {
	userID, ok := h.userIDFromToken(c)
	if !ok {
		return
	}

	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	logDate, err := parseLogDate(req.LogDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "logDate must be formatted YYYY-MM-DD.")
		return
	}

	entry, err := h.trackerService.LogWorkout(c.Request.Context(), userID, req.ExerciseType, req.DurationMinutes, req.CaloriesBurned, logDate)
	if err != nil {
		log.Printf("ERROR: failed to log workout: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to log workout.")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutLogToResponse(entry))
}

// LogMeal appends a meal entry for the authenticated user.
func (h *TrackerHandler) LogMeal(c *gin.Context) {
	userID, ok := h.userIDFromToken(c)
	if !ok {
		return
	}

	var req LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	logDate, err := parseLogDate(req.LogDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "logDate must be formatted YYYY-MM-DD.")
		return
	}
	var mealTime *time.Time
	if req.MealTime != "" {
		t, err := time.Parse(time.RFC3339, req.MealTime)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "mealTime must be an RFC 3339 timestamp.")
			return
		}
		mealTime = &t
	}

	entry, err := h.trackerService.LogMeal(c.Request.Context(), userID, req.MealType, req.Description, req.Calories, req.Protein, req.Carbs, logDate, mealTime)
	if err != nil {
		log.Printf("ERROR: failed to log meal: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to log meal.")
		return
	}
	c.JSON(http.StatusCreated, MapMealLogToResponse(entry))
}

// LogWaterSleep appends a water/sleep entry for the authenticated user.
func (h *TrackerHandler) LogWaterSleep(c *gin.Context) {
	userID, ok := h.userIDFromToken(c)
	if !ok {
		return
	}

	var req LogWaterSleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	logDate, err := parseLogDate(req.LogDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "logDate must be formatted YYYY-MM-DD.")
		return
	}

	entry, err := h.trackerService.LogWaterSleep(c.Request.Context(), userID, req.WaterIntakeLiters, req.SleepHours, req.SleepQuality, logDate)
	if err != nil {
		log.Printf("ERROR: failed to log water/sleep: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to log water/sleep.")
		return
	}
	c.JSON(http.StatusCreated, MapWaterSleepLogToResponse(entry))
}

// TodayWorkouts lists today's workout entries for a user.
func (h *TrackerHandler) TodayWorkouts(c *gin.Context) {
	userID, ok := h.userIDFromPath(c)
	if !ok {
		return
	}

	entries, err := h.trackerService.TodayWorkouts(c.Request.Context(), userID)
	if err != nil {
		log.Printf("ERROR: failed to list today's workouts: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout logs.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutLogsToResponse(entries))
}

// TodayMeals lists today's meal entries for a user in eating order.
func (h *TrackerHandler) TodayMeals(c *gin.Context) {
	userID, ok := h.userIDFromPath(c)
	if !ok {
		return
	}

	entries, err := h.trackerService.TodayMeals(c.Request.Context(), userID)
	if err != nil {
		log.Printf("ERROR: failed to list today's meals: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve meal logs.")
		return
	}
	c.JSON(http.StatusOK, MapMealLogsToResponse(entries))
}

// TodayWaterSleep lists today's water/sleep entries for a user.
func (h *TrackerHandler) TodayWaterSleep(c *gin.Context) {
	userID, ok := h.userIDFromPath(c)
	if !ok {
		return
	}

	entries, err := h.trackerService.TodayWaterSleep(c.Request.Context(), userID)
	if err != nil {
		log.Printf("ERROR: failed to list today's water/sleep logs: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve water/sleep logs.")
		return
	}
	c.JSON(http.StatusOK, MapWaterSleepLogsToResponse(entries))
}

// Dashboard returns the 7-day chart payload for a user.
func (h *TrackerHandler) Dashboard(c *gin.Context) {
	userID, ok := h.userIDFromPath(c)
	if !ok {
		return
	}

	stats, err := h.trackerService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		log.Printf("ERROR: failed to build dashboard stats: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to build dashboard stats.")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Weekly returns the scalar weekly summary for a user.
func (h *TrackerHandler) Weekly(c *gin.Context) {
	userID, ok := h.userIDFromPath(c)
	if !ok {
		return
	}

	stats, err := h.trackerService.Weekly(c.Request.Context(), userID)
	if err != nil {
		log.Printf("ERROR: failed to build weekly stats: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to build weekly stats.")
		return
	}
	c.JSON(http.StatusOK, stats)
}
