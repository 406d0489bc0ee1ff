package models

import (
	"testing"
	"time"
)

func validGoal() Goal {
	return Goal{
		UserID:      1,
		Title:       "Run 100km",
		Type:        GoalDistance,
		Period:      PeriodMonthly,
		TargetValue: 100,
		Unit:        "km",
		StartDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:      GoalActive,
	}
}

// TestGoalValidate verifies goal-creation rules, in particular that
// specific_activity goals must name their activity type.
func TestGoalValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Goal)
		wantErr bool
	}{
		{"valid goal", func(g *Goal) {}, false},
		{"unknown goal type", func(g *Goal) { g.Type = "weight_loss" }, true},
		{"unknown period", func(g *Goal) { g.Period = "quarterly" }, true},
		{"zero target", func(g *Goal) { g.TargetValue = 0 }, true},
		{"negative target", func(g *Goal) { g.TargetValue = -10 }, true},
		{"specific_activity without filter", func(g *Goal) { g.Type = GoalSpecificActivity }, true},
		{"specific_activity with filter", func(g *Goal) {
			g.Type = GoalSpecificActivity
			g.ActivityFilter = ActivitySwimming
		}, false},
		{"unknown activity filter", func(g *Goal) { g.ActivityFilter = "juggling" }, true},
		{"filter on other goal types allowed", func(g *Goal) { g.ActivityFilter = ActivityRunning }, false},
		{"end before start", func(g *Goal) { g.EndDate = g.StartDate.AddDate(0, 0, -1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGoal()
			tt.mutate(&g)
			err := g.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestProgressPercentage verifies capping at 100 and the zero-target guard.
func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		current, target float64
		want            float64
	}{
		{0, 100, 0},
		{50, 100, 50},
		{100, 100, 100},
		{150, 100, 100},
		{0, 0, 0},
	}

	for _, tt := range tests {
		g := Goal{CurrentValue: tt.current, TargetValue: tt.target}
		if got := g.ProgressPercentage(); got != tt.want {
			t.Errorf("ProgressPercentage(%v/%v) = %v, want %v", tt.current, tt.target, got, tt.want)
		}
	}
}

// TestDaysRemaining verifies day counting never goes negative.
func TestDaysRemaining(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	g := validGoal()

	g.EndDate = today.AddDate(0, 0, 10)
	if got := g.DaysRemaining(today); got != 10 {
		t.Errorf("DaysRemaining = %d, want 10", got)
	}

	g.EndDate = today
	if got := g.DaysRemaining(today); got != 0 {
		t.Errorf("DaysRemaining = %d, want 0 on the end date", got)
	}

	g.EndDate = today.AddDate(0, 0, -5)
	if got := g.DaysRemaining(today); got != 0 {
		t.Errorf("DaysRemaining = %d, want 0 after expiry", got)
	}
}

// TestTerminal verifies the terminal status predicate.
func TestTerminal(t *testing.T) {
	for status, want := range map[GoalStatus]bool{
		GoalActive:    false,
		GoalCompleted: true,
		GoalFailed:    true,
	} {
		g := Goal{Status: status}
		if g.Terminal() != want {
			t.Errorf("Terminal(%s) = %v, want %v", status, !want, want)
		}
	}
}

// TestPointsAndLevel verifies the gamification formulas at boundaries.
func TestPointsAndLevel(t *testing.T) {
	if got := PointsFor(0, 0); got != 0 {
		t.Errorf("PointsFor(0, 0) = %d, want 0", got)
	}
	if got := PointsFor(199, 3); got != 4 {
		t.Errorf("PointsFor(199, 3) = %d, want 4", got)
	}
	if got := LevelFor(0); got != 1 {
		t.Errorf("LevelFor(0) = %d, want 1", got)
	}
	if got := LevelFor(99); got != 1 {
		t.Errorf("LevelFor(99) = %d, want 1", got)
	}
	if got := LevelFor(100); got != 2 {
		t.Errorf("LevelFor(100) = %d, want 2", got)
	}
}
