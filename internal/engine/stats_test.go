package engine

import (
	"context"
	"testing"
	"time"

	"github.com/meltforce/burnlog/internal/models"
)

func statsAggregator(store *memStore, now time.Time) *StatsAggregator {
	return NewStatsAggregator(store, store, NewStreakCalculator(store), func() time.Time { return now })
}

// TestRecomputeEmptyHistory verifies the zero-activity baseline: no points,
// level 1, no streak.
func TestRecomputeEmptyHistory(t *testing.T) {
	store := newMemStore()
	got, err := statsAggregator(store, day(2024, 6, 15)).Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Points != 0 {
		t.Errorf("points = %d, want 0", got.Points)
	}
	if got.Level != 1 {
		t.Errorf("level = %d, want 1", got.Level)
	}
	if got.CurrentStreakDays != 0 || got.LongestStreakDays != 0 {
		t.Errorf("streaks = %d/%d, want 0/0", got.CurrentStreakDays, got.LongestStreakDays)
	}
	if got.LastActivityDate != nil {
		t.Errorf("last activity = %v, want nil", got.LastActivityDate)
	}
}

// TestRecomputeFormulas verifies points = calories/100 + workouts and
// level = points/100 + 1, exactly.
func TestRecomputeFormulas(t *testing.T) {
	tests := []struct {
		name       string
		calories   []int
		wantPoints int
		wantLevel  int
	}{
		{name: "one small workout", calories: []int{90}, wantPoints: 1, wantLevel: 1},
		{name: "calories floor to hundreds", calories: []int{250, 249}, wantPoints: 6, wantLevel: 1},
		{name: "level boundary at 100 points", calories: []int{9800}, wantPoints: 99, wantLevel: 1},
		{name: "level advances past 100 points", calories: []int{9900}, wantPoints: 100, wantLevel: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			asOf := day(2024, 6, 15)
			for i, cal := range tt.calories {
				store.addActivity(1, asOf.AddDate(0, 0, -(i + 5)), models.Activity{
					Type: models.ActivityRunning, DurationMin: 30, CaloriesBurned: cal,
				})
			}

			got, err := statsAggregator(store, asOf).Recompute(context.Background(), 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Points != tt.wantPoints {
				t.Errorf("points = %d, want %d", got.Points, tt.wantPoints)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("level = %d, want %d", got.Level, tt.wantLevel)
			}
			if got.TotalWorkouts != len(tt.calories) {
				t.Errorf("workouts = %d, want %d", got.TotalWorkouts, len(tt.calories))
			}
		})
	}
}

// TestLongestStreakMonotonic verifies longest_streak never decreases: after
// a streak breaks, the recorded maximum survives recomputation.
func TestLongestStreakMonotonic(t *testing.T) {
	store := newMemStore()

	// Five consecutive days ending 2024-06-10.
	for i := 0; i < 5; i++ {
		activityOn(store, 1, day(2024, 6, 10).AddDate(0, 0, -i))
	}

	agg := statsAggregator(store, day(2024, 6, 10))
	first, err := agg.Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.CurrentStreakDays != 5 || first.LongestStreakDays != 5 {
		t.Fatalf("streaks = %d/%d, want 5/5", first.CurrentStreakDays, first.LongestStreakDays)
	}

	// A week later the streak is broken; one fresh activity today.
	activityOn(store, 1, day(2024, 6, 17))
	second, err := statsAggregator(store, day(2024, 6, 17)).Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.CurrentStreakDays != 1 {
		t.Errorf("current streak = %d, want 1", second.CurrentStreakDays)
	}
	if second.LongestStreakDays != 5 {
		t.Errorf("longest streak = %d, want 5 (monotone)", second.LongestStreakDays)
	}
}

// TestRecomputeTotals verifies lifetime sums cover the whole history.
func TestRecomputeTotals(t *testing.T) {
	store := newMemStore()
	store.addActivity(1, day(2024, 1, 1), models.Activity{Type: models.ActivityRunning, DurationMin: 30, CaloriesBurned: 300})
	store.addActivity(1, day(2024, 3, 1), models.Activity{Type: models.ActivityYoga, DurationMin: 60, CaloriesBurned: 126})
	store.addActivity(2, day(2024, 3, 1), models.Activity{Type: models.ActivityHIIT, DurationMin: 20, CaloriesBurned: 240})

	got, err := statsAggregator(store, day(2024, 6, 15)).Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalWorkoutMin != 90 {
		t.Errorf("total minutes = %d, want 90", got.TotalWorkoutMin)
	}
	if got.TotalCalories != 426 {
		t.Errorf("total calories = %d, want 426", got.TotalCalories)
	}
	if got.TotalWorkouts != 2 {
		t.Errorf("total workouts = %d, want 2", got.TotalWorkouts)
	}
	if got.LastActivityDate == nil || !got.LastActivityDate.Equal(day(2024, 3, 1)) {
		t.Errorf("last activity = %v, want 2024-03-01", got.LastActivityDate)
	}
}
