package service

import (
	"context"
	"strings"
	"time"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// windowDays is the trailing analytics window, today included.
const windowDays = 7

// sleepHistoryDays is how far back the dashboard's sleep history looks.
const sleepHistoryDays = 3

// WorkoutDataset is one per-exercise-type series of summed minutes across
// the window, aligned with DashboardStats.Labels.
type WorkoutDataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

// SleepHistoryEntry is one day's summed sleep with its derived quality.
type SleepHistoryEntry struct {
	Day     string  `json:"day"`
	Hours   float64 `json:"hours"`
	Quality string  `json:"quality"`
}

// DashboardStats fuses the three activity-log streams over the trailing
// 7-day window into the shape the dashboard charts consume.
type DashboardStats struct {
	Labels           []string            `json:"labels"`
	WorkoutDatasets  []WorkoutDataset    `json:"workoutDatasets"`
	CalorieData      []int               `json:"calorieData"`      // burned per day
	CaloriesConsumed []int               `json:"caloriesConsumed"` // eaten per day
	TodayCalories    int                 `json:"todayCalories"`
	TodayWater       float64             `json:"todayWater"`
	SleepHistory     []SleepHistoryEntry `json:"sleepHistory"`
}

// WeeklyStats summarizes the same window as scalar totals and averages.
// Averages are means over entries that carry a value; days without a log do
// not contribute zeros.
type WeeklyStats struct {
	StartDate            string  `json:"startDate"`
	EndDate              string  `json:"endDate"`
	TotalWorkoutMinutes  int     `json:"totalWorkoutMinutes"`
	TotalWorkoutSessions int     `json:"totalWorkoutSessions"`
	TotalMealCalories    int     `json:"totalMealCalories"`
	AvgWaterIntake       float64 `json:"avgWaterIntake"`
	AvgSleepHours        float64 `json:"avgSleepHours"`
}

// TrackerService appends activity-log entries and derives the dashboard and
// weekly analytics. It is keyed by user id alone and independent of the
// relationship registry.
type TrackerService interface {
	LogWorkout(ctx context.Context, userID primitive.ObjectID, exerciseType string, durationMinutes, caloriesBurned *int, logDate *time.Time) (*domain.WorkoutLog, error)
	LogMeal(ctx context.Context, userID primitive.ObjectID, mealType, description string, calories, protein, carbs *int, logDate, mealTime *time.Time) (*domain.MealLog, error)
	LogWaterSleep(ctx context.Context, userID primitive.ObjectID, waterIntakeLiters, sleepHours *float64, sleepQuality string, logDate *time.Time) (*domain.WaterSleepLog, error)

	TodayWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutLog, error)
	TodayMeals(ctx context.Context, userID primitive.ObjectID) ([]domain.MealLog, error)
	TodayWaterSleep(ctx context.Context, userID primitive.ObjectID) ([]domain.WaterSleepLog, error)

	Dashboard(ctx context.Context, userID primitive.ObjectID) (*DashboardStats, error)
	Weekly(ctx context.Context, userID primitive.ObjectID) (*WeeklyStats, error)
}

type trackerService struct {
	workoutLogRepo    repository.WorkoutLogRepository
	mealLogRepo       repository.MealLogRepository
	waterSleepLogRepo repository.WaterSleepLogRepository
	now               func() time.Time
}

// NewTrackerService creates a new instance of trackerService.
func NewTrackerService(
	workoutLogRepo repository.WorkoutLogRepository,
	mealLogRepo repository.MealLogRepository,
	waterSleepLogRepo repository.WaterSleepLogRepository,
) TrackerService {
	return &trackerService{
		workoutLogRepo:    workoutLogRepo,
		mealLogRepo:       mealLogRepo,
		waterSleepLogRepo: waterSleepLogRepo,
		now:               time.Now,
	}
}

// calendarDay truncates a timestamp to midnight UTC so equality and range
// filters line up with calendar days.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayLabel renders a date as its abbreviated uppercase weekday name (MON).
func dayLabel(t time.Time) string {
	return strings.ToUpper(t.Weekday().String()[:3])
}

func (s *trackerService) today() time.Time {
	return calendarDay(s.now())
}

// LogWorkout appends a workout entry; the date defaults to today.
func (s *trackerService) LogWorkout(ctx context.Context, userID primitive.ObjectID, exerciseType string, durationMinutes, caloriesBurned *int, logDate *time.Time) (*domain.WorkoutLog, error) {
	date := s.today()
	if logDate != nil {
		date = calendarDay(*logDate)
	}

	entry := &domain.WorkoutLog{
		UserID:          userID,
		ExerciseType:    exerciseType,
		DurationMinutes: durationMinutes,
		CaloriesBurned:  caloriesBurned,
		LogDate:         date,
	}
	entryID, err := s.workoutLogRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	return entry, nil
}

// LogMeal appends a meal entry; date and meal time default to now.
func (s *trackerService) LogMeal(ctx context.Context, userID primitive.ObjectID, mealType, description string, calories, protein, carbs *int, logDate, mealTime *time.Time) (*domain.MealLog, error) {
	date := s.today()
	if logDate != nil {
		date = calendarDay(*logDate)
	}
	eatenAt := s.now().UTC()
	if mealTime != nil {
		eatenAt = mealTime.UTC()
	}

	entry := &domain.MealLog{
		UserID:      userID,
		MealType:    mealType,
		Description: description,
		Calories:    calories,
		Protein:     protein,
		Carbs:       carbs,
		LogDate:     date,
		MealTime:    eatenAt,
	}
	entryID, err := s.mealLogRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	return entry, nil
}

// LogWaterSleep appends a water/sleep entry. Missing numeric values are
// stored as explicit zeros, matching the tracker's input forms.
func (s *trackerService) LogWaterSleep(ctx context.Context, userID primitive.ObjectID, waterIntakeLiters, sleepHours *float64, sleepQuality string, logDate *time.Time) (*domain.WaterSleepLog, error) {
	date := s.today()
	if logDate != nil {
		date = calendarDay(*logDate)
	}

	zero := 0.0
	if waterIntakeLiters == nil {
		waterIntakeLiters = &zero
	}
	if sleepHours == nil {
		sleepHours = &zero
	}

	entry := &domain.WaterSleepLog{
		UserID:            userID,
		WaterIntakeLiters: waterIntakeLiters,
		SleepHours:        sleepHours,
		SleepQuality:      sleepQuality,
		LogDate:           date,
	}
	entryID, err := s.waterSleepLogRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	return entry, nil
}

// TodayWorkouts lists the user's workout entries for the current date.
func (s *trackerService) TodayWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	return s.workoutLogRepo.GetByUserAndDate(ctx, userID, s.today())
}

// TodayMeals lists the user's meal entries for the current date in eating
// order.
func (s *trackerService) TodayMeals(ctx context.Context, userID primitive.ObjectID) ([]domain.MealLog, error) {
	return s.mealLogRepo.GetByUserAndDate(ctx, userID, s.today())
}

// TodayWaterSleep lists the user's water/sleep entries for the current date.
func (s *trackerService) TodayWaterSleep(ctx context.Context, userID primitive.ObjectID) ([]domain.WaterSleepLog, error) {
	return s.waterSleepLogRepo.GetByUserAndDate(ctx, userID, s.today())
}

// sleepQualityFor classifies summed nightly hours into the quality bands
// shown on the dashboard. Oversleeping past 9 hours drops back to "Good".
func sleepQualityFor(hours float64) string {
	switch {
	case hours >= 7 && hours <= 9:
		return "Excellent"
	case (hours >= 6 && hours < 7) || hours > 9:
		return "Good"
	case hours >= 5 && hours < 6:
		return "Average"
	default:
		return "Poor"
	}
}

// Dashboard derives the 7-day chart payload from the three log streams.
func (s *trackerService) Dashboard(ctx context.Context, userID primitive.ObjectID) (*DashboardStats, error) {
	today := s.today()
	windowStart := today.AddDate(0, 0, -(windowDays - 1))

	workouts, err := s.workoutLogRepo.GetByUserAndDateRange(ctx, userID, windowStart, today)
	if err != nil {
		return nil, err
	}
	meals, err := s.mealLogRepo.GetByUserAndDateRange(ctx, userID, windowStart, today)
	if err != nil {
		return nil, err
	}
	waterSleepLogs, err := s.waterSleepLogRepo.GetByUserAndDateRange(ctx, userID, windowStart, today)
	if err != nil {
		return nil, err
	}

	// Day labels in chronological order with a date -> slot lookup.
	labels := make([]string, windowDays)
	dayIndex := make(map[time.Time]int, windowDays)
	for i := 0; i < windowDays; i++ {
		d := windowStart.AddDate(0, 0, i)
		labels[i] = dayLabel(d)
		dayIndex[d] = i
	}

	// Workouts: per-type duration series, daily burned calories, and the
	// burned-today scalar.
	typeData := make(map[string][]int)
	calorieData := make([]int, windowDays)
	todayCalories := 0
	for _, w := range workouts {
		idx, ok := dayIndex[calendarDay(w.LogDate)]
		if !ok {
			continue
		}
		exType := w.ExerciseType
		if exType == "" {
			exType = "Other"
		}
		if _, ok := typeData[exType]; !ok {
			typeData[exType] = make([]int, windowDays)
		}
		if w.DurationMinutes != nil {
			typeData[exType][idx] += *w.DurationMinutes
		}
		if w.CaloriesBurned != nil {
			calorieData[idx] += *w.CaloriesBurned
			if calendarDay(w.LogDate).Equal(today) {
				todayCalories += *w.CaloriesBurned
			}
		}
	}
	workoutDatasets := make([]WorkoutDataset, 0, len(typeData))
	for label, data := range typeData {
		workoutDatasets = append(workoutDatasets, WorkoutDataset{Label: label, Data: data})
	}

	// Meals: daily consumed calories, independent of the burned series.
	caloriesConsumed := make([]int, windowDays)
	for _, m := range meals {
		idx, ok := dayIndex[calendarDay(m.LogDate)]
		if !ok {
			continue
		}
		if m.Calories != nil {
			caloriesConsumed[idx] += *m.Calories
		}
	}

	// Water: today's total intake.
	todayWater := 0.0
	for _, l := range waterSleepLogs {
		if calendarDay(l.LogDate).Equal(today) && l.WaterIntakeLiters != nil {
			todayWater += *l.WaterIntakeLiters
		}
	}

	// Sleep: last three days, newest first, skipping days without any
	// recorded hours.
	sleepHistory := make([]SleepHistoryEntry, 0, sleepHistoryDays)
	for i := 0; i < sleepHistoryDays; i++ {
		d := today.AddDate(0, 0, -i)
		total := 0.0
		for _, l := range waterSleepLogs {
			if calendarDay(l.LogDate).Equal(d) && l.SleepHours != nil {
				total += *l.SleepHours
			}
		}
		if total > 0 {
			sleepHistory = append(sleepHistory, SleepHistoryEntry{
				Day:     dayLabel(d),
				Hours:   total,
				Quality: sleepQualityFor(total),
			})
		}
	}

	return &DashboardStats{
		Labels:           labels,
		WorkoutDatasets:  workoutDatasets,
		CalorieData:      calorieData,
		CaloriesConsumed: caloriesConsumed,
		TodayCalories:    todayCalories,
		TodayWater:       todayWater,
		SleepHistory:     sleepHistory,
	}, nil
}

// Weekly derives the scalar summary over the same trailing window. It
// fetches independently of Dashboard.
func (s *trackerService) Weekly(ctx context.Context, userID primitive.ObjectID) (*WeeklyStats, error) {
	endDate := s.today()
	startDate := endDate.AddDate(0, 0, -(windowDays - 1))

	workouts, err := s.workoutLogRepo.GetByUserAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	meals, err := s.mealLogRepo.GetByUserAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	waterSleepLogs, err := s.waterSleepLogRepo.GetByUserAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	totalWorkoutMinutes := 0
	for _, w := range workouts {
		if w.DurationMinutes != nil {
			totalWorkoutMinutes += *w.DurationMinutes
		}
	}

	totalMealCalories := 0
	for _, m := range meals {
		if m.Calories != nil {
			totalMealCalories += *m.Calories
		}
	}

	waterSum, waterCount := 0.0, 0
	sleepSum, sleepCount := 0.0, 0
	for _, l := range waterSleepLogs {
		if l.WaterIntakeLiters != nil {
			waterSum += *l.WaterIntakeLiters
			waterCount++
		}
		if l.SleepHours != nil {
			sleepSum += *l.SleepHours
			sleepCount++
		}
	}
	avgWater, avgSleep := 0.0, 0.0
	if waterCount > 0 {
		avgWater = waterSum / float64(waterCount)
	}
	if sleepCount > 0 {
		avgSleep = sleepSum / float64(sleepCount)
	}

	return &WeeklyStats{
		StartDate:            startDate.Format("2006-01-02"),
		EndDate:              endDate.Format("2006-01-02"),
		TotalWorkoutMinutes:  totalWorkoutMinutes,
		TotalWorkoutSessions: len(workouts),
		TotalMealCalories:    totalMealCalories,
		AvgWaterIntake:       avgWater,
		AvgSleepHours:        avgSleep,
	}, nil
}
