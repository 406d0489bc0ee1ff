package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/burnlog/internal/models"
)

// ActivityRangeStore fetches a user's activities with dates inside an
// inclusive day range, optionally filtered by activity type (empty = all).
type ActivityRangeStore interface {
	ActivitiesInRange(ctx context.Context, userID int, start, end time.Time, filter models.ActivityType) ([]models.Activity, error)
}

// GoalWriter persists the evaluator's write-back.
type GoalWriter interface {
	UpdateGoalProgress(ctx context.Context, goal *models.Goal) error
}

// GoalEvaluator recomputes a goal's current value for its rolling window and
// derives its status.
type GoalEvaluator struct {
	activities ActivityRangeStore
	goals      GoalWriter
	streak     *StreakCalculator
}

// NewGoalEvaluator creates a GoalEvaluator.
func NewGoalEvaluator(activities ActivityRangeStore, goals GoalWriter, streak *StreakCalculator) *GoalEvaluator {
	return &GoalEvaluator{activities: activities, goals: goals, streak: streak}
}

// Recompute evaluates the goal as of asOf, persists the updated progress and
// status, and returns the updated goal. Completed and failed goals are
// terminal: recomputing them is a no-op that returns the goal unchanged.
func (e *GoalEvaluator) Recompute(ctx context.Context, goal models.Goal, asOf time.Time) (models.Goal, error) {
	if goal.Terminal() {
		return goal, nil
	}

	current, err := e.currentValue(ctx, &goal, asOf)
	if err != nil {
		return goal, fmt.Errorf("evaluating goal %s: %w", goal.ID, err)
	}
	goal.CurrentValue = current

	switch {
	case goal.CurrentValue >= goal.TargetValue:
		goal.Status = models.GoalCompleted
	case DateOnly(asOf).After(DateOnly(goal.EndDate)):
		goal.Status = models.GoalFailed
	}

	if err := e.goals.UpdateGoalProgress(ctx, &goal); err != nil {
		return goal, fmt.Errorf("persisting goal %s: %w", goal.ID, err)
	}
	return goal, nil
}

func (e *GoalEvaluator) currentValue(ctx context.Context, goal *models.Goal, asOf time.Time) (float64, error) {
	// Streak goals measure whole-history consecutive days; the rolling
	// window does not apply.
	if goal.Type == models.GoalStreak {
		days, err := e.streak.CurrentStreak(ctx, goal.UserID, asOf)
		if err != nil {
			return 0, err
		}
		return float64(days), nil
	}

	start, end := GoalWindow(goal.Period, asOf)
	activities, err := e.activities.ActivitiesInRange(ctx, goal.UserID, start, end, goal.ActivityFilter)
	if err != nil {
		return 0, err
	}

	var total float64
	switch goal.Type {
	case models.GoalDuration:
		for _, a := range activities {
			total += float64(a.DurationMin)
		}
	case models.GoalCalories:
		for _, a := range activities {
			total += float64(a.CaloriesBurned)
		}
	case models.GoalDistance:
		for _, a := range activities {
			total += a.Distance
		}
	default: // frequency, specific_activity: count of (filtered) activities
		total = float64(len(activities))
	}
	return total, nil
}
