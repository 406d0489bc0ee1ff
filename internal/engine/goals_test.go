package engine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/meltforce/burnlog/internal/models"
)

func newGoal(goalType models.GoalType, period models.GoalPeriod, target float64) models.Goal {
	return models.Goal{
		ID:          uuid.New(),
		UserID:      1,
		Type:        goalType,
		Period:      period,
		TargetValue: target,
		StartDate:   day(2024, 6, 1),
		EndDate:     day(2024, 12, 31),
		Status:      models.GoalActive,
	}
}

func goalEvaluator(store *memStore) *GoalEvaluator {
	return NewGoalEvaluator(store, store, NewStreakCalculator(store))
}

// TestGoalRecomputeByType verifies the per-type aggregation over the rolling
// window: duration sums minutes, calories sums calories, frequency counts,
// distance sums distance, and specific_activity counts only the filtered type.
func TestGoalRecomputeByType(t *testing.T) {
	asOf := day(2024, 6, 15)

	seed := func(store *memStore) {
		// Two activities inside the daily window, one outside it.
		store.addActivity(1, asOf, models.Activity{Type: models.ActivityRunning, DurationMin: 30, Distance: 5, CaloriesBurned: 300})
		store.addActivity(1, asOf, models.Activity{Type: models.ActivityCycling, DurationMin: 60, Distance: 20, CaloriesBurned: 480})
		store.addActivity(1, day(2024, 6, 10), models.Activity{Type: models.ActivityRunning, DurationMin: 45, Distance: 8, CaloriesBurned: 450})
	}

	tests := []struct {
		name   string
		goal   models.Goal
		filter models.ActivityType
		want   float64
	}{
		{name: "duration sums minutes", goal: newGoal(models.GoalDuration, models.PeriodDaily, 500), want: 90},
		{name: "calories sums calories", goal: newGoal(models.GoalCalories, models.PeriodDaily, 5000), want: 780},
		{name: "frequency counts activities", goal: newGoal(models.GoalFrequency, models.PeriodDaily, 10), want: 2},
		{name: "distance sums distance", goal: newGoal(models.GoalDistance, models.PeriodDaily, 100), want: 25},
		{name: "specific_activity counts filtered", goal: newGoal(models.GoalSpecificActivity, models.PeriodDaily, 10), filter: models.ActivityRunning, want: 1},
		{name: "duration filter applies", goal: newGoal(models.GoalDuration, models.PeriodDaily, 500), filter: models.ActivityCycling, want: 60},
		{name: "weekly window includes earlier days", goal: newGoal(models.GoalDuration, models.PeriodWeekly, 500), want: 135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			seed(store)
			tt.goal.ActivityFilter = tt.filter

			got, err := goalEvaluator(store).Recompute(context.Background(), tt.goal, asOf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.CurrentValue != tt.want {
				t.Errorf("current value = %v, want %v", got.CurrentValue, tt.want)
			}
			if persisted := store.goals[tt.goal.ID]; persisted.CurrentValue != tt.want {
				t.Errorf("persisted value = %v, want %v", persisted.CurrentValue, tt.want)
			}
		})
	}
}

// TestGoalStreakType verifies streak goals delegate to the streak calculator
// and ignore the rolling window.
func TestGoalStreakType(t *testing.T) {
	asOf := day(2024, 6, 15)
	store := newMemStore()
	for i := 0; i < 10; i++ {
		activityOn(store, 1, asOf.AddDate(0, 0, -i))
	}

	// A daily window would only see today; the streak still counts all 10.
	goal := newGoal(models.GoalStreak, models.PeriodDaily, 30)
	got, err := goalEvaluator(store).Recompute(context.Background(), goal, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CurrentValue != 10 {
		t.Errorf("current value = %v, want 10", got.CurrentValue)
	}
}

// TestGoalStatusTransitions verifies the terminal status machine: exactly
// reaching the target completes, expiry fails, and terminal goals are
// returned unchanged.
func TestGoalStatusTransitions(t *testing.T) {
	asOf := day(2024, 6, 15)

	t.Run("reaching the target exactly completes", func(t *testing.T) {
		store := newMemStore()
		store.addActivity(1, asOf, models.Activity{Type: models.ActivityRunning, DurationMin: 100, CaloriesBurned: 500})

		goal := newGoal(models.GoalDuration, models.PeriodDaily, 100)
		got, err := goalEvaluator(store).Recompute(context.Background(), goal, asOf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != models.GoalCompleted {
			t.Errorf("status = %s, want completed", got.Status)
		}
	})

	t.Run("past end date while unmet fails", func(t *testing.T) {
		store := newMemStore()
		goal := newGoal(models.GoalDuration, models.PeriodDaily, 100)
		goal.EndDate = day(2024, 6, 10)

		got, err := goalEvaluator(store).Recompute(context.Background(), goal, asOf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != models.GoalFailed {
			t.Errorf("status = %s, want failed", got.Status)
		}
	})

	t.Run("end date today is not yet expired", func(t *testing.T) {
		store := newMemStore()
		goal := newGoal(models.GoalDuration, models.PeriodDaily, 100)
		goal.EndDate = asOf

		got, err := goalEvaluator(store).Recompute(context.Background(), goal, asOf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != models.GoalActive {
			t.Errorf("status = %s, want active", got.Status)
		}
	})

	t.Run("terminal goals are a no-op", func(t *testing.T) {
		store := newMemStore()
		store.addActivity(1, asOf, models.Activity{Type: models.ActivityRunning, DurationMin: 100, CaloriesBurned: 500})

		for _, status := range []models.GoalStatus{models.GoalCompleted, models.GoalFailed} {
			goal := newGoal(models.GoalDuration, models.PeriodDaily, 100)
			goal.Status = status
			goal.CurrentValue = 42

			got, err := goalEvaluator(store).Recompute(context.Background(), goal, asOf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != status || got.CurrentValue != 42 {
				t.Errorf("terminal goal changed: status=%s current=%v", got.Status, got.CurrentValue)
			}
			if _, persisted := store.goals[goal.ID]; persisted {
				t.Error("terminal goal was written back")
			}
		}
	})
}

// TestGoalEmptyWindow verifies an empty activity set yields zero progress
// rather than an error.
func TestGoalEmptyWindow(t *testing.T) {
	store := newMemStore()
	goal := newGoal(models.GoalCalories, models.PeriodWeekly, 1000)

	got, err := goalEvaluator(store).Recompute(context.Background(), goal, day(2024, 6, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CurrentValue != 0 || got.Status != models.GoalActive {
		t.Errorf("got current=%v status=%s, want 0/active", got.CurrentValue, got.Status)
	}
}
