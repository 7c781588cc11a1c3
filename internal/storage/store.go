package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/turretlab/internal/dynamo"
)

var (
	ErrRunNotFound  = errors.New("storage: run not found")
	ErrAmbiguousRun = errors.New("storage: run id prefix matches more than one run")
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

// StateColumns and ControlColumns name the CSV columns after "time".
var (
	StateColumns   = []string{"turret_rot", "turret_rate", "yaw", "yaw_rate"}
	ControlColumns = []string{"turret_out", "turn_out"}
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

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Gain       float64            `json:"gain"`
	GearRatio  float64            `json:"gear_ratio"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes metadata and samples under a fresh run ID and returns it.
// ID, Timestamp and Steps in meta are filled in by Save.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now()
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	f, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteCSV(f, result); err != nil {
		return "", fmt.Errorf("write samples: %w", err)
	}
	return meta.ID, nil
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

// WriteCSV writes one row per recorded state. The control columns of the
// final row are 0 because no command follows the last state.
func WriteCSV(w io.Writer, result *dynamo.Result) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, StateColumns...)
	header = append(header, ControlColumns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
		for j := range StateColumns {
			v := 0.0
			if j < len(result.States[i]) {
				v = result.States[i][j]
			}
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		for j := range ControlColumns {
			v := 0.0
			if i < len(result.Controls) {
				v = result.Controls[i].At(j)
			}
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
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
		meta, err := s.readMeta(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// Resolve expands a unique ID prefix to the full run ID.
func (s *Store) Resolve(prefix string) (string, error) {
	if prefix == "" || strings.ContainsAny(prefix, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrRunNotFound, prefix)
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, prefix, metadataFile)); err == nil {
		return prefix, nil
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	match := ""
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
		}
		match = entry.Name()
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	}
	return match, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}
	return s.readMeta(id)
}

func (s *Store) readMeta(id string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", id, err)
	}
	return &meta, nil
}

// LoadResult reads a run's samples back into a Result. The last row's
// control is dropped, mirroring how the run was recorded.
func (s *Store) LoadResult(runID string) (*dynamo.Result, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, id, statesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read samples for %s: %w", id, err)
	}

	nState := len(StateColumns)
	result := &dynamo.Result{Metrics: map[string]float64{}}
	for i := 1; i < len(records); i++ {
		vals := make([]float64, len(records[i]))
		for j, field := range records[i] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("samples for %s, row %d: %w", id, i, err)
			}
			vals[j] = v
		}
		if len(vals) < 1+nState {
			continue
		}
		result.Times = append(result.Times, vals[0])
		result.States = append(result.States, dynamo.State(vals[1:1+nState]))
		result.Controls = append(result.Controls, dynamo.Control(vals[1+nState:]))
	}
	if n := len(result.Controls); n > 0 {
		result.Controls = result.Controls[:n-1]
	}
	result.StepsTaken = len(result.Controls)

	if meta, err := s.readMeta(id); err == nil {
		result.Metrics = meta.Metrics
	}
	return result, nil
}

// CopySamples streams a run's raw CSV to w.
func (s *Store) CopySamples(runID string, w io.Writer) error {
	id, err := s.Resolve(runID)
	if err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(s.baseDir, id, statesFile))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
