package service

import (
	"context"
	"testing"
	"time"

	"wellnest/core-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fixedNow pins the clock to a Wednesday afternoon so window math and day
// labels are deterministic.
var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

type trackerFixture struct {
	svc     *trackerService
	userID  primitive.ObjectID
	workout *fakeWorkoutLogRepo
	meal    *fakeMealLogRepo
	water   *fakeWaterSleepLogRepo
}

func newTrackerFixture(t *testing.T) *trackerFixture {
	t.Helper()
	workout := newFakeWorkoutLogRepo()
	meal := newFakeMealLogRepo()
	water := newFakeWaterSleepLogRepo()
	svc := NewTrackerService(workout, meal, water).(*trackerService)
	svc.now = func() time.Time { return fixedNow }
	return &trackerFixture{
		svc:     svc,
		userID:  primitive.NewObjectID(),
		workout: workout,
		meal:    meal,
		water:   water,
	}
}

// day returns the calendar day `offset` days from the pinned today.
func day(offset int) time.Time {
	return calendarDay(fixedNow).AddDate(0, 0, offset)
}

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestSleepQualityBands(t *testing.T) {
	cases := []struct {
		hours   float64
		quality string
	}{
		{8, "Excellent"},
		{7, "Excellent"},
		{9, "Excellent"},
		{6.5, "Good"},
		{6, "Good"},
		{9.5, "Good"},
		{5.5, "Average"},
		{5, "Average"},
		{4, "Poor"},
		{4.9, "Poor"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.quality, sleepQualityFor(tc.hours), "hours=%v", tc.hours)
	}
}

func TestLogWorkout_DefaultsToToday(t *testing.T) {
	f := newTrackerFixture(t)

	entry, err := f.svc.LogWorkout(context.Background(), f.userID, "Running", intPtr(30), intPtr(250), nil)
	require.NoError(t, err)
	assert.Equal(t, day(0), entry.LogDate)

	backdated, err := f.svc.LogWorkout(context.Background(), f.userID, "Cycling", intPtr(45), nil, timePtr(fixedNow.AddDate(0, 0, -2)))
	require.NoError(t, err)
	assert.Equal(t, day(-2), backdated.LogDate)
}

func TestLogWaterSleep_DefaultsMissingValuesToZero(t *testing.T) {
	f := newTrackerFixture(t)

	entry, err := f.svc.LogWaterSleep(context.Background(), f.userID, nil, nil, "", nil)
	require.NoError(t, err)
	require.NotNil(t, entry.WaterIntakeLiters)
	require.NotNil(t, entry.SleepHours)
	assert.Equal(t, 0.0, *entry.WaterIntakeLiters)
	assert.Equal(t, 0.0, *entry.SleepHours)
}

func TestTodayListings_ScopedToCurrentDate(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	_, err := f.svc.LogWorkout(ctx, f.userID, "Running", intPtr(30), intPtr(250), nil)
	require.NoError(t, err)
	_, err = f.svc.LogWorkout(ctx, f.userID, "Running", intPtr(60), intPtr(500), timePtr(fixedNow.AddDate(0, 0, -1)))
	require.NoError(t, err)

	today, err := f.svc.TodayWorkouts(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, 30, *today[0].DurationMinutes)
}

func TestDashboard_LabelsChronological(t *testing.T) {
	f := newTrackerFixture(t)

	stats, err := f.svc.Dashboard(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"THU", "FRI", "SAT", "SUN", "MON", "TUE", "WED"}, stats.Labels)
}

func TestDashboard_TodayCaloriesAndBurnedSeries(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	_, err := f.svc.LogWorkout(ctx, f.userID, "Running", intPtr(30), intPtr(300), nil)
	require.NoError(t, err)
	_, err = f.svc.LogWorkout(ctx, f.userID, "Weights", intPtr(40), intPtr(200), nil)
	require.NoError(t, err)
	_, err = f.svc.LogWorkout(ctx, f.userID, "Running", intPtr(20), intPtr(100), timePtr(fixedNow.AddDate(0, 0, -1)))
	require.NoError(t, err)

	stats, err := f.svc.Dashboard(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 500, stats.TodayCalories, "only today's burns count toward the scalar")
	assert.Equal(t, 500, stats.CalorieData[6])
	assert.Equal(t, 100, stats.CalorieData[5])
}

func TestDashboard_WorkoutDatasetsPerExerciseType(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	_, err := f.svc.LogWorkout(ctx, f.userID, "Running", intPtr(30), nil, nil)
	require.NoError(t, err)
	_, err = f.svc.LogWorkout(ctx, f.userID, "Running", intPtr(15), nil, nil)
	require.NoError(t, err)
	// Empty type buckets under "Other"; nil duration contributes zero.
	_, err = f.svc.LogWorkout(ctx, f.userID, "", nil, intPtr(50), nil)
	require.NoError(t, err)

	stats, err := f.svc.Dashboard(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, stats.WorkoutDatasets, 2)

	byLabel := make(map[string][]int)
	for _, ds := range stats.WorkoutDatasets {
		byLabel[ds.Label] = ds.Data
	}
	require.Contains(t, byLabel, "Running")
	require.Contains(t, byLabel, "Other")
	assert.Equal(t, 45, byLabel["Running"][6])
	assert.Equal(t, 0, byLabel["Other"][6])
}

func TestDashboard_ConsumedIndependentOfBurned(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	_, err := f.svc.LogMeal(ctx, f.userID, "Breakfast", "Oats", intPtr(400), intPtr(15), intPtr(60), nil, nil)
	require.NoError(t, err)
	_, err = f.svc.LogMeal(ctx, f.userID, "Lunch", "Chicken", intPtr(600), nil, nil, nil, nil)
	require.NoError(t, err)
	_, err = f.svc.LogWorkout(ctx, f.userID, "Running", intPtr(30), intPtr(300), nil)
	require.NoError(t, err)

	stats, err := f.svc.Dashboard(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1000, stats.CaloriesConsumed[6])
	assert.Equal(t, 300, stats.CalorieData[6])
}

func TestDashboard_WindowExcludesOlderEntries(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	// A week-old entry falls one day outside the trailing 7-day window.
	_, err := f.svc.LogWorkout(ctx, f.userID, "Running", intPtr(90), intPtr(900), timePtr(fixedNow.AddDate(0, 0, -7)))
	require.NoError(t, err)
	_, err = f.svc.LogWorkout(ctx, f.userID, "Running", intPtr(30), intPtr(300), timePtr(fixedNow.AddDate(0, 0, -6)))
	require.NoError(t, err)

	stats, err := f.svc.Dashboard(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, stats.WorkoutDatasets, 1)
	assert.Equal(t, 30, stats.WorkoutDatasets[0].Data[0], "oldest in-window slot")
	assert.Equal(t, 300, stats.CalorieData[0])

	total := 0
	for _, v := range stats.CalorieData {
		total += v
	}
	assert.Equal(t, 300, total, "the week-old entry must not leak in")
}

func TestDashboard_TodayWaterSumsTodayOnly(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	_, err := f.svc.LogWaterSleep(ctx, f.userID, floatPtr(1.5), nil, "", nil)
	require.NoError(t, err)
	_, err = f.svc.LogWaterSleep(ctx, f.userID, floatPtr(0.5), nil, "", nil)
	require.NoError(t, err)
	_, err = f.svc.LogWaterSleep(ctx, f.userID, floatPtr(3.0), nil, "", timePtr(fixedNow.AddDate(0, 0, -1)))
	require.NoError(t, err)

	stats, err := f.svc.Dashboard(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, stats.TodayWater)
}

func TestDashboard_SleepHistoryNewestFirstSkippingEmptyDays(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	_, err := f.svc.LogWaterSleep(ctx, f.userID, nil, floatPtr(8), "", nil)
	require.NoError(t, err)
	_, err = f.svc.LogWaterSleep(ctx, f.userID, nil, floatPtr(6.5), "", timePtr(fixedNow.AddDate(0, 0, -1)))
	require.NoError(t, err)
	// Two days ago: water only, so sleep total is zero and the day is omitted.
	_, err = f.svc.LogWaterSleep(ctx, f.userID, floatPtr(2.0), nil, "", timePtr(fixedNow.AddDate(0, 0, -2)))
	require.NoError(t, err)

	stats, err := f.svc.Dashboard(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, stats.SleepHistory, 2)
	assert.Equal(t, "WED", stats.SleepHistory[0].Day)
	assert.Equal(t, 8.0, stats.SleepHistory[0].Hours)
	assert.Equal(t, "Excellent", stats.SleepHistory[0].Quality)
	assert.Equal(t, "TUE", stats.SleepHistory[1].Day)
	assert.Equal(t, 6.5, stats.SleepHistory[1].Hours)
	assert.Equal(t, "Good", stats.SleepHistory[1].Quality)
}

func TestWeekly_AveragesSkipMissingValues(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	// Water logged on two days, nil on a third; the nil must not drag the
	// average down.
	_, err := f.svc.LogWaterSleep(ctx, f.userID, floatPtr(2.0), floatPtr(7), "", nil)
	require.NoError(t, err)
	f.water.entries = append(f.water.entries, domain.WaterSleepLog{
		ID:      primitive.NewObjectID(),
		UserID:  f.userID,
		LogDate: day(-1),
	})
	_, err = f.svc.LogWaterSleep(ctx, f.userID, floatPtr(3.0), floatPtr(8), "", timePtr(fixedNow.AddDate(0, 0, -2)))
	require.NoError(t, err)

	stats, err := f.svc.Weekly(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, stats.AvgWaterIntake)
	assert.Equal(t, 7.5, stats.AvgSleepHours)
}

func TestWeekly_TotalsAndSessionCount(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	_, err := f.svc.LogWorkout(ctx, f.userID, "Running", intPtr(30), intPtr(300), nil)
	require.NoError(t, err)
	// Session with no duration still counts as a session.
	_, err = f.svc.LogWorkout(ctx, f.userID, "Yoga", nil, nil, timePtr(fixedNow.AddDate(0, 0, -3)))
	require.NoError(t, err)
	_, err = f.svc.LogMeal(ctx, f.userID, "Lunch", "Chicken", intPtr(600), nil, nil, nil, nil)
	require.NoError(t, err)

	stats, err := f.svc.Weekly(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 30, stats.TotalWorkoutMinutes)
	assert.Equal(t, 2, stats.TotalWorkoutSessions)
	assert.Equal(t, 600, stats.TotalMealCalories)
	assert.Equal(t, "2025-03-06", stats.StartDate)
	assert.Equal(t, "2025-03-12", stats.EndDate)
}

func TestWeekly_NoDataYieldsZeroes(t *testing.T) {
	f := newTrackerFixture(t)

	stats, err := f.svc.Weekly(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalWorkoutMinutes)
	assert.Equal(t, 0, stats.TotalWorkoutSessions)
	assert.Equal(t, 0.0, stats.AvgWaterIntake)
	assert.Equal(t, 0.0, stats.AvgSleepHours)
}
