package engine

import (
	"context"
	"testing"

	"github.com/meltforce/burnlog/internal/models"
)

func leaderboardBuilder(store *memStore) *LeaderboardBuilder {
	return NewLeaderboardBuilder(store, store, store, store, NewStreakCalculator(store))
}

func seedUsers(store *memStore, n int) {
	for i := 1; i <= n; i++ {
		store.users = append(store.users, models.UserRef{ID: i, Login: string(rune('a' + i - 1))})
	}
}

// TestBuildDenseRanks verifies points-descending order with dense 1-based
// ranks and the user-ID-ascending tie-break. Points [50, 80, 80, 30] must
// rank the tied 80s first and second.
func TestBuildDenseRanks(t *testing.T) {
	store := newMemStore()
	seedUsers(store, 4)
	asOf := day(2024, 6, 15)

	// points = calories/100 + count; one activity each, so calories pick the score.
	calories := map[int]int{1: 4900, 2: 7900, 3: 7900, 4: 2900}
	for userID, cal := range calories {
		store.addActivity(userID, asOf, models.Activity{Type: models.ActivityRunning, DurationMin: 30, CaloriesBurned: cal})
	}

	snap, err := leaderboardBuilder(store).Build(context.Background(), models.LeaderboardDaily, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(snap.Entries))
	}

	want := []struct {
		rank, userID, points int
	}{
		{1, 2, 80},
		{2, 3, 80},
		{3, 1, 50},
		{4, 4, 30},
	}
	for i, w := range want {
		e := snap.Entries[i]
		if e.Rank != w.rank || e.UserID != w.userID || e.Points != w.points {
			t.Errorf("entry %d = rank %d user %d points %d, want rank %d user %d points %d",
				i, e.Rank, e.UserID, e.Points, w.rank, w.userID, w.points)
		}
	}
}

// TestBuildRebuildOnMiss verifies a second Build for the same key returns the
// persisted snapshot with an identical entry set instead of recomputing.
func TestBuildRebuildOnMiss(t *testing.T) {
	store := newMemStore()
	seedUsers(store, 3)
	asOf := day(2024, 6, 15)
	for userID := 1; userID <= 3; userID++ {
		store.addActivity(userID, asOf, models.Activity{Type: models.ActivityRunning, DurationMin: 30, CaloriesBurned: userID * 1000})
	}

	builder := leaderboardBuilder(store)
	first, err := builder.Build(context.Background(), models.LeaderboardWeekly, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// New data after the snapshot exists must not change it.
	store.addActivity(1, asOf, models.Activity{Type: models.ActivityHIIT, DurationMin: 30, CaloriesBurned: 9000})

	second, err := builder.Build(context.Background(), models.LeaderboardWeekly, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("snapshot IDs differ: %d vs %d", first.ID, second.ID)
	}
	if len(first.Entries) != len(second.Entries) {
		t.Fatalf("entry counts differ: %d vs %d", len(first.Entries), len(second.Entries))
	}
	for i := range first.Entries {
		if first.Entries[i] != second.Entries[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first.Entries[i], second.Entries[i])
		}
	}
}

// TestBuildEmptySnapshotRebuilds verifies that an existing snapshot with zero
// entries is rebuilt rather than returned empty.
func TestBuildEmptySnapshotRebuilds(t *testing.T) {
	store := newMemStore()
	seedUsers(store, 2)
	asOf := day(2024, 6, 15)
	store.addActivity(1, asOf, models.Activity{Type: models.ActivityRunning, DurationMin: 30, CaloriesBurned: 500})

	// Pre-create an empty snapshot for the key.
	if _, err := store.CreateSnapshot(context.Background(), models.LeaderboardDaily, asOf); err != nil {
		t.Fatal(err)
	}

	snap, err := leaderboardBuilder(store).Build(context.Background(), models.LeaderboardDaily, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Entries) != 2 {
		t.Errorf("got %d entries, want 2 after rebuild", len(snap.Entries))
	}
}

// TestBuildAllTimeUsesPersistedStats verifies the all_time period ranks from
// stored lifetime stats, including the last-known streak, without touching
// activity history.
func TestBuildAllTimeUsesPersistedStats(t *testing.T) {
	store := newMemStore()
	seedUsers(store, 2)

	store.stats[1] = models.UserStats{UserID: 1, Points: 120, TotalCalories: 9000, TotalWorkouts: 30, CurrentStreakDays: 7, Level: 2}
	store.stats[2] = models.UserStats{UserID: 2, Points: 200, TotalCalories: 15000, TotalWorkouts: 50, CurrentStreakDays: 3, Level: 3}

	snap, err := leaderboardBuilder(store).Build(context.Background(), models.LeaderboardAllTime, day(2024, 6, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(snap.Entries))
	}

	top := snap.Entries[0]
	if top.UserID != 2 || top.Points != 200 || top.StreakDays != 3 {
		t.Errorf("top entry = %+v, want user 2 with 200 points, streak 3", top)
	}
	if store.dayProbes != 0 {
		t.Errorf("all_time build probed activity days %d times, want 0", store.dayProbes)
	}
}

// TestBuildConcurrentSameKey verifies concurrent builds for one key settle on
// a single snapshot with one populated entry set.
func TestBuildConcurrentSameKey(t *testing.T) {
	store := newMemStore()
	seedUsers(store, 3)
	asOf := day(2024, 6, 15)
	for userID := 1; userID <= 3; userID++ {
		store.addActivity(userID, asOf, models.Activity{Type: models.ActivityRunning, DurationMin: 30, CaloriesBurned: userID * 500})
	}

	builder := leaderboardBuilder(store)
	results := make(chan *models.LeaderboardSnapshot, 4)
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			snap, err := builder.Build(context.Background(), models.LeaderboardDaily, asOf)
			results <- snap
			errs <- err
		}()
	}

	var snaps []*models.LeaderboardSnapshot
	for i := 0; i < 4; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		snaps = append(snaps, <-results)
	}
	for _, s := range snaps {
		if s.ID != snaps[0].ID {
			t.Errorf("snapshot IDs diverged: %d vs %d", s.ID, snaps[0].ID)
		}
		if len(s.Entries) != 3 {
			t.Errorf("got %d entries, want 3", len(s.Entries))
		}
	}
}
