package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/burnlog/internal/models"
)

// Record is one parsed CSV row: the activity plus the login it belongs to.
type Record struct {
	Login    string
	Activity models.Activity
}

// ParseActivitiesCSV parses an activity export. The file must have a header
// row; recognized columns are user, activity_type, duration, distance,
// calories, intensity, notes, and date. Rows with missing or invalid fields
// are returned separately so the caller can report them without aborting the
// whole file.
func ParseActivitiesCSV(r io.Reader) (records []Record, rejected []string, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"activity_type", "duration", "date"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		rec, err := parseRow(row, field)
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		records = append(records, rec)
	}

	return records, rejected, nil
}

func parseRow(row []string, field func([]string, string) string) (Record, error) {
	duration, err := strconv.Atoi(field(row, "duration"))
	if err != nil {
		return Record{}, fmt.Errorf("invalid duration %q", field(row, "duration"))
	}

	occurred, err := parseDate(field(row, "date"))
	if err != nil {
		return Record{}, fmt.Errorf("invalid date %q", field(row, "date"))
	}

	distance := 0.0
	if v := field(row, "distance"); v != "" {
		distance, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return Record{}, fmt.Errorf("invalid distance %q", v)
		}
	}

	calories := 0
	if v := field(row, "calories"); v != "" {
		calories, err = strconv.Atoi(v)
		if err != nil {
			return Record{}, fmt.Errorf("invalid calories %q", v)
		}
	}

	intensity := models.Intensity(field(row, "intensity"))
	if intensity == "" {
		intensity = models.IntensityMedium
	}

	a := models.Activity{
		ID:             uuid.New(),
		Type:           models.ActivityType(field(row, "activity_type")),
		DurationMin:    duration,
		Distance:       distance,
		CaloriesBurned: calories,
		Intensity:      intensity,
		Notes:          field(row, "notes"),
		OccurredAt:     occurred,
	}
	if err := a.Validate(); err != nil {
		return Record{}, err
	}
	if a.CaloriesBurned == 0 {
		a.CaloriesBurned = models.EstimateCalories(a.Type, a.DurationMin, a.Intensity)
	}

	return Record{Login: field(row, "user"), Activity: a}, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}
