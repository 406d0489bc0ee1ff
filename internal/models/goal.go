package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GoalType selects which activity quantity a goal measures.
type GoalType string

const (
	GoalDuration         GoalType = "duration"
	GoalCalories         GoalType = "calories"
	GoalFrequency        GoalType = "frequency"
	GoalDistance         GoalType = "distance"
	GoalStreak           GoalType = "streak"
	GoalSpecificActivity GoalType = "specific_activity"
)

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	switch t {
	case GoalDuration, GoalCalories, GoalFrequency, GoalDistance, GoalStreak, GoalSpecificActivity:
		return true
	}
	return false
}

// GoalPeriod is the rolling window a goal is evaluated over.
type GoalPeriod string

const (
	PeriodDaily   GoalPeriod = "daily"
	PeriodWeekly  GoalPeriod = "weekly"
	PeriodMonthly GoalPeriod = "monthly"
	PeriodYearly  GoalPeriod = "yearly"
)

// Valid reports whether p is a known goal period.
func (p GoalPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// GoalStatus is the lifecycle state of a goal. Completed and failed are
// terminal: a goal never leaves either state once entered.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalFailed    GoalStatus = "failed"
)

// Goal is a user-defined target evaluated over a rolling window.
// CurrentValue and Status are derived; only the progress evaluator writes them.
type Goal struct {
	ID             uuid.UUID    `json:"id"`
	UserID         int          `json:"user_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Type           GoalType     `json:"goal_type"`
	Period         GoalPeriod   `json:"duration_type"`
	TargetValue    float64      `json:"target_value"`
	CurrentValue   float64      `json:"current_value"`
	Unit           string       `json:"unit"`
	ActivityFilter ActivityType `json:"activity_type,omitempty"`
	StartDate      time.Time    `json:"start_date"`
	EndDate        time.Time    `json:"end_date"`
	Status         GoalStatus   `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Validate checks a goal definition at creation time. A specific_activity
// goal must name the activity it counts; without the filter it would silently
// degrade into a plain frequency goal.
func (g *Goal) Validate() error {
	if !g.Type.Valid() {
		return fmt.Errorf("unknown goal type %q", g.Type)
	}
	if !g.Period.Valid() {
		return fmt.Errorf("unknown goal period %q", g.Period)
	}
	if g.TargetValue <= 0 {
		return fmt.Errorf("target value must be greater than 0")
	}
	if g.ActivityFilter != "" && !g.ActivityFilter.Valid() {
		return fmt.Errorf("unknown activity type %q", g.ActivityFilter)
	}
	if g.Type == GoalSpecificActivity && g.ActivityFilter == "" {
		return fmt.Errorf("specific_activity goals require an activity type")
	}
	if !g.EndDate.IsZero() && !g.StartDate.IsZero() && g.EndDate.Before(g.StartDate) {
		return fmt.Errorf("end date cannot be before start date")
	}
	return nil
}

// Terminal reports whether the goal has reached a final status.
func (g *Goal) Terminal() bool {
	return g.Status == GoalCompleted || g.Status == GoalFailed
}

// ProgressPercentage returns progress toward the target, capped at 100.
func (g *Goal) ProgressPercentage() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	pct := g.CurrentValue / g.TargetValue * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// DaysRemaining returns whole days until the end date, never negative.
func (g *Goal) DaysRemaining(today time.Time) int {
	remaining := int(g.EndDate.Sub(today).Hours() / 24)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired reports whether today is past the goal's end date.
func (g *Goal) IsExpired(today time.Time) bool {
	return today.After(g.EndDate)
}
