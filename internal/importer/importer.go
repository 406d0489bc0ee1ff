package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/meltforce/burnlog/internal/engine"
	"github.com/meltforce/burnlog/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	ActivitiesInserted int
	RowsRejected       int
	UsersTouched       int

	RejectedRows []string
}

// Importer reads activity CSV exports from a directory and inserts them into
// the database, recomputing stats and goals for every affected user at the
// end.
type Importer struct {
	db           *storage.DB
	engine       *engine.Engine
	log          *slog.Logger
	defaultLogin string
	dryRun       bool
	stats        Stats
}

// New creates a new Importer. Rows without a user column are attributed to
// defaultLogin.
func New(db *storage.DB, eng *engine.Engine, log *slog.Logger, defaultLogin string, dryRun bool) *Importer {
	return &Importer{db: db, engine: eng, log: log, defaultLogin: defaultLogin, dryRun: dryRun}
}

// Import processes all .csv files under dir. State in stateDir records which
// files were already imported; unchanged files are skipped on later runs.
func (imp *Importer) Import(ctx context.Context, dir, stateDir string) (*Stats, error) {
	state, err := OpenStateDB(stateDir)
	if err != nil {
		return &imp.stats, err
	}
	defer state.Close()

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return &imp.stats, err
	}
	sort.Strings(files)

	touched := map[int]bool{}

	for _, f := range files {
		if err := imp.importFile(ctx, f, state, touched); err != nil {
			return &imp.stats, fmt.Errorf("importing %s: %w", filepath.Base(f), err)
		}
	}

	imp.stats.UsersTouched = len(touched)

	if !imp.dryRun {
		now := time.Now().UTC()
		for userID := range touched {
			if err := imp.engine.OnActivityRecorded(ctx, userID, now); err != nil {
				return &imp.stats, fmt.Errorf("recomputing user %d: %w", userID, err)
			}
		}
	}

	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string, state *StateDB, touched map[int]bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	relPath := filepath.Base(path)
	done, err := state.IsImported(relPath, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if done {
		imp.log.Info("skipping file (already imported)", "file", relPath)
		imp.stats.FilesSkipped++
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, rejected, err := ParseActivitiesCSV(f)
	if err != nil {
		imp.log.Warn("parse failed", "file", relPath, "error", err)
		imp.stats.FilesErrored++
		return nil
	}
	for _, r := range rejected {
		imp.stats.RejectedRows = append(imp.stats.RejectedRows, relPath+": "+r)
	}
	imp.stats.RowsRejected += len(rejected)

	// Resolve logins once per file; rows without a user column go to the
	// default login.
	userIDs := map[string]int{}
	for _, rec := range records {
		activity := rec.Activity

		userID, ok := userIDs[rec.Login]
		if !ok {
			if imp.dryRun {
				userID = 1
			} else {
				login := rec.Login
				if login == "" {
					login = imp.defaultLogin
				}
				userID, err = imp.db.GetOrCreateUser(ctx, login, "")
				if err != nil {
					return fmt.Errorf("resolving user %q: %w", rec.Login, err)
				}
			}
			userIDs[rec.Login] = userID
		}
		activity.UserID = userID

		if imp.dryRun {
			imp.stats.ActivitiesInserted++
			continue
		}

		if err := imp.db.InsertActivity(ctx, &activity); err != nil {
			return fmt.Errorf("inserting activity: %w", err)
		}
		imp.stats.ActivitiesInserted++
		touched[userID] = true
	}

	imp.stats.FilesProcessed++

	if imp.dryRun {
		return nil
	}
	if err := state.MarkImported(relPath, info.Size(), hash); err != nil {
		return fmt.Errorf("marking state: %w", err)
	}
	return nil
}
