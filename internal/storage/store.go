package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/streamline"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type Seed struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Field     string             `json:"field"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      Seed               `json:"seed"`
	Duration  float64            `json:"duration"`
	Samples   int                `json:"samples"`
	Method    string             `json:"method"`
	Normalize bool               `json:"normalize"`
	Bounds    string             `json:"bounds"`
	RTol      float64            `json:"rtol"`
	ATol      float64            `json:"atol"`
	Points    int                `json:"points"`
	Metrics   map[string]float64 `json:"metrics"`
}

// NewMetadata fills the run parameters from the options a trace used.
func NewMetadata(fieldName string, seed vec.Vec2, opts streamline.Options) RunMetadata {
	return RunMetadata{
		Field:     fieldName,
		Seed:      Seed{X: seed.X, Y: seed.Y},
		Duration:  opts.Duration,
		Samples:   opts.Samples,
		Method:    opts.Method,
		Normalize: opts.Normalize,
		Bounds:    opts.Bounds.String(),
		RTol:      opts.Tolerance.RTol,
		ATol:      opts.Tolerance.ATol,
	}
}

// Save writes a new run directory and returns its ID. An empty meta.ID is
// derived from the field name and the current time.
func (s *Store) Save(meta RunMetadata, traj streamline.Trajectory) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	base := meta.ID
	if base == "" {
		base = fmt.Sprintf("%s_%d", meta.Field, meta.Timestamp.Unix())
	}

	runID, runDir, err := s.mkRunDir(base)
	if err != nil {
		return "", err
	}
	meta.ID = runID
	meta.Points = len(traj)

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), traj); err != nil {
		return "", err
	}
	return runID, nil
}

// mkRunDir creates base, or base_2, base_3, ... if it is taken.
func (s *Store) mkRunDir(base string) (string, string, error) {
	id := base
	for n := 2; ; n++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeTrajectory(path string, traj streamline.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportCSV(f, traj); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every run, oldest first. Directories without
// readable metadata are ignored.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (streamline.Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	if len(records) < 2 {
		return streamline.Trajectory{}, nil
	}

	traj := make(streamline.Trajectory, 0, len(records)-1)
	for line, record := range records[1:] {
		x, errX := strconv.ParseFloat(record[1], 64)
		y, errY := strconv.ParseFloat(record[2], 64)
		if err := errors.Join(errX, errY); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", runID, line+2, err)
		}
		traj = append(traj, vec.Vec2{X: x, Y: y})
	}
	return traj, nil
}
