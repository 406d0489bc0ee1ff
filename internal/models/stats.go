package models

import "time"

// UserStats holds a user's lifetime aggregates and gamification score.
// Recomputed wholesale by the stats aggregator; LongestStreakDays never
// decreases across recomputations.
type UserStats struct {
	UserID             int        `json:"user_id"`
	TotalCalories      int        `json:"total_calories_burned"`
	TotalWorkoutMin    int        `json:"total_workout_time"`
	TotalWorkouts      int        `json:"total_workouts"`
	CurrentStreakDays  int        `json:"current_streak"`
	LongestStreakDays  int        `json:"longest_streak"`
	Points             int        `json:"points"`
	Level              int        `json:"level"`
	LastActivityDate   *time.Time `json:"last_activity_date,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// PointsFor computes the gamification score from lifetime totals:
// one point per 100 calories plus one point per workout.
func PointsFor(totalCalories, workoutCount int) int {
	return totalCalories/100 + workoutCount
}

// LevelFor computes the level for a point total. Level starts at 1 and
// advances every 100 points.
func LevelFor(points int) int {
	return points/100 + 1
}
