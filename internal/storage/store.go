package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/san-kum/daisyworld/internal/dynamo"
	"github.com/san-kum/daisyworld/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Label     string             `json:"label,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Params    dynamo.Params      `json:"params"`
	Summary   dynamo.Summary     `json:"summary"`
	Metrics   map[string]float64 `json:"metrics"`
	Samples   int                `json:"samples"`
}

// Outcome is the refined classification of the stored run.
func (m *RunMetadata) Outcome() dynamo.EndReason { return m.Summary.Outcome }

// Save writes the run's metadata and history under a fresh id.
func (s *Store) Save(label string, result *experiment.Result) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Label:     label,
		Timestamp: time.Now(),
		Params:    result.Params,
		Summary:   result.Summary,
		Metrics:   result.Metrics,
		Samples:   len(result.History),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(s.historyPath(runID))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	history := result.History
	if history == nil {
		history = []dynamo.Snapshot{}
	}
	if err := gocsv.Marshal(&history, csvFile); err != nil {
		return "", fmt.Errorf("write history: %w", err)
	}

	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadHistory(runID string) ([]dynamo.Snapshot, error) {
	file, err := os.Open(s.historyPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	history := []dynamo.Snapshot{}
	if err := gocsv.UnmarshalFile(file, &history); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []dynamo.Snapshot{}, nil
		}
		return nil, fmt.Errorf("read history %s: %w", runID, err)
	}
	return history, nil
}

func (s *Store) historyPath(runID string) string {
	return filepath.Join(s.baseDir, runID, historyFile)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ExportData is the self-contained JSON form of a stored run.
type ExportData struct {
	RunMetadata
	History []dynamo.Snapshot `json:"history"`
}

func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	history, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, History: history})
}

// ExportCSV writes the run's history to w as CSV.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	history, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}
	return gocsv.Marshal(&history, w)
}
