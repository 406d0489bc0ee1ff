package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies one of the supported workout kinds.
type ActivityType string

const (
	ActivityRunning       ActivityType = "running"
	ActivityCycling       ActivityType = "cycling"
	ActivitySwimming      ActivityType = "swimming"
	ActivityWalking       ActivityType = "walking"
	ActivityWeightlifting ActivityType = "weightlifting"
	ActivityYoga          ActivityType = "yoga"
	ActivityPilates       ActivityType = "pilates"
	ActivityHIIT          ActivityType = "hiit"
	ActivityDancing       ActivityType = "dancing"
	ActivityHiking        ActivityType = "hiking"
	ActivityBoxing        ActivityType = "boxing"
	ActivityRowing        ActivityType = "rowing"
	ActivitySkipping      ActivityType = "skipping"
	ActivityElliptical    ActivityType = "elliptical"
	ActivityStairClimbing ActivityType = "stair_climbing"
)

// ActivityTypes lists all supported activity types in a stable order.
var ActivityTypes = []ActivityType{
	ActivityRunning, ActivityCycling, ActivitySwimming, ActivityWalking,
	ActivityWeightlifting, ActivityYoga, ActivityPilates, ActivityHIIT,
	ActivityDancing, ActivityHiking, ActivityBoxing, ActivityRowing,
	ActivitySkipping, ActivityElliptical, ActivityStairClimbing,
}

// Valid reports whether t is one of the supported activity types.
func (t ActivityType) Valid() bool {
	for _, known := range ActivityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Intensity is the perceived effort of an activity.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Valid reports whether i is a known intensity level.
func (i Intensity) Valid() bool {
	return i == IntensityLow || i == IntensityMedium || i == IntensityHigh
}

// calorieRates holds the base calories-per-minute rate for each activity type
// at medium intensity.
var calorieRates = map[ActivityType]float64{
	ActivityRunning:       10,
	ActivityCycling:       8,
	ActivitySwimming:      7,
	ActivityWalking:       4,
	ActivityWeightlifting: 6,
	ActivityYoga:          3,
	ActivityPilates:       3,
	ActivityHIIT:          12,
	ActivityDancing:       5,
	ActivityHiking:        6,
	ActivityBoxing:        9,
	ActivityRowing:        8,
	ActivitySkipping:      11,
	ActivityElliptical:    7,
	ActivityStairClimbing: 9,
}

// defaultCalorieRate applies to activity types missing from calorieRates.
const defaultCalorieRate = 5

var intensityMultipliers = map[Intensity]float64{
	IntensityLow:    0.7,
	IntensityMedium: 1.0,
	IntensityHigh:   1.3,
}

// EstimateCalories derives a calorie estimate from the activity type, duration
// in minutes, and intensity. The result is floored to a whole calorie count.
// Unknown types fall back to the default base rate; unknown intensities count
// as medium.
func EstimateCalories(activityType ActivityType, durationMin int, intensity Intensity) int {
	rate, ok := calorieRates[activityType]
	if !ok {
		rate = defaultCalorieRate
	}
	mult, ok := intensityMultipliers[intensity]
	if !ok {
		mult = 1.0
	}
	return int(rate * float64(durationMin) * mult)
}

// MaxActivityDurationMin caps a single activity at 24 hours.
const MaxActivityDurationMin = 1440

// Activity is a single recorded workout, owned by a user.
type Activity struct {
	ID             uuid.UUID    `json:"id"`
	UserID         int          `json:"user_id"`
	Type           ActivityType `json:"activity_type"`
	DurationMin    int          `json:"duration"`
	Distance       float64      `json:"distance"`
	CaloriesBurned int          `json:"calories_burned"`
	Intensity      Intensity    `json:"intensity"`
	Notes          string       `json:"notes,omitempty"`
	OccurredAt     time.Time    `json:"date"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Validate checks the activity fields against the recording rules. Calories
// may be zero here; a zero value means "derive via EstimateCalories".
func (a *Activity) Validate() error {
	if !a.Type.Valid() {
		return fmt.Errorf("unknown activity type %q", a.Type)
	}
	if a.DurationMin <= 0 {
		return fmt.Errorf("duration must be greater than 0 minutes")
	}
	if a.DurationMin > MaxActivityDurationMin {
		return fmt.Errorf("duration cannot exceed %d minutes (24 hours)", MaxActivityDurationMin)
	}
	if a.Distance < 0 {
		return fmt.Errorf("distance cannot be negative")
	}
	if a.CaloriesBurned < 0 {
		return fmt.Errorf("calories burned cannot be negative")
	}
	if !a.Intensity.Valid() {
		return fmt.Errorf("unknown intensity %q", a.Intensity)
	}
	return nil
}

// ActivityTotals is an aggregate over a set of activities.
type ActivityTotals struct {
	DurationMin int     `json:"total_duration"`
	Distance    float64 `json:"total_distance"`
	Calories    int     `json:"total_calories"`
	Count       int     `json:"activity_count"`
}

// ActivityMetrics extends ActivityTotals with per-activity averages.
type ActivityMetrics struct {
	ActivityTotals
	AvgDurationMin float64 `json:"average_duration"`
	AvgCalories    float64 `json:"average_calories"`
}

// TrendBucket is one period of an activity trend series.
type TrendBucket struct {
	Period      string `json:"period"`
	Date        string `json:"date"`
	DurationMin int    `json:"total_duration"`
	Calories    int    `json:"total_calories"`
	Count       int    `json:"activity_count"`
}
