// Package history persists tune run reports to the filesystem so past runs
// can be reviewed. One JSON file per run, written atomically.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledpi/pitune/pkg/pitune/tuner"
)

// Entry is a single recorded tune run.
type Entry struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	DryRun    bool               `json:"dry_run"`
	Duration  time.Duration      `json:"duration"`
	Results   []tuner.StepResult `json:"results"`
	Summary   Summary            `json:"summary"`
}

// Summary counts the run's results per outcome class.
type Summary struct {
	Applied   int `json:"applied"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Store manages run logging to a directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a Store for the given directory.
// The directory is not created until the first Record call.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("history directory cannot be empty")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// Record persists a run report and returns the created entry.
func (s *Store) Record(report *tuner.Report) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied, unchanged, skipped, failed := report.Counts()
	entry := &Entry{
		ID:        generateID(report.Started),
		Timestamp: report.Started.UTC(),
		DryRun:    report.DryRun,
		Duration:  report.Duration,
		Results:   report.Results,
		Summary: Summary{
			Applied:   applied,
			Unchanged: unchanged,
			Skipped:   skipped,
			Failed:    failed,
		},
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := s.writeEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to write history entry: %w", err)
	}

	return entry, nil
}

// writeEntry writes an entry to a JSON file in the history directory.
func (s *Store) writeEntry(entry *Entry) error {
	filePath := filepath.Join(s.dir, entry.ID+".json")

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	// Write atomically using a temp file and rename
	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// List returns entries sorted by timestamp descending (newest first).
// If limit is 0 or negative, all entries are returned.
func (s *Store) List(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		entry, err := s.readEntryFile(f.Name())
		if err != nil {
			// Skip files that can't be parsed
			continue
		}
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// Get retrieves a specific entry by ID.
func (s *Store) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, errors.New("entry ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.readEntryFile(id + ".json")
	if err != nil {
		return nil, fmt.Errorf("entry not found: %s", id)
	}
	return entry, nil
}

// readEntryFile reads and parses an entry from a JSON file.
func (s *Store) readEntryFile(filename string) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return &entry, nil
}

// Prune removes entries older than retentionDays. It returns the number of
// entries removed.
func (s *Store) Prune(retentionDays int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read history directory: %w", err)
	}

	removed := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		entry, err := s.readEntryFile(f.Name())
		if err != nil {
			continue
		}

		if entry.Timestamp.Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, f.Name())); err != nil {
				continue
			}
			removed++
		}
	}

	return removed, nil
}

// generateID creates a unique ID like "tune-2026-03-14T09-26-53-1a2b3c4d".
func generateID(started time.Time) string {
	ts := started.UTC().Format("2006-01-02T15-04-05")
	return fmt.Sprintf("tune-%s-%s", ts, uuid.NewString()[:8])
}
