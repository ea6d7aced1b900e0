// Package output manages the directory a search run writes into and the
// YAML summary that describes the run.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/TrevorS/crossassoc"
)

// Program names the per-program directory under the output root and prefixes
// every run directory.
const Program = "crossassoc"

// File names inside a run directory.
const (
	LogFile           = "log.txt"
	MatrixFile        = "matrix.txt"
	BlockedMatrixFile = "blocked_matrix.txt"
	BlockModelFile    = "block_model.txt"
	DensitiesFile     = "densities.txt"
	SummaryFile       = "summary.yaml"
)

// timestampLayout is year, month, day, hour, minute, second with no
// separators, e.g. 20110530170341.
const timestampLayout = "20060102150405"

// ClusteringFile names the cluster listing of one axis.
func ClusteringFile(axis int) string {
	return fmt.Sprintf("clustering_%d.txt", axis)
}

// Run is one output directory.
type Run struct {
	ID      uuid.UUID
	Dir     string
	Started time.Time
}

// NewRun creates <root>/crossassoc/crossassoc_<timestamp>/ for a run started
// at now. It fails if that directory already exists.
func NewRun(root string, now time.Time) (*Run, error) {
	parent := filepath.Join(root, Program)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	dir := filepath.Join(parent, Program+"_"+now.Format(timestampLayout))
	if err := os.Mkdir(dir, 0o750); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	return &Run{ID: uuid.New(), Dir: dir, Started: now}, nil
}

// Path returns the path of name inside the run directory.
func (r *Run) Path(name string) string {
	return filepath.Join(r.Dir, name)
}

// Create creates name inside the run directory.
func (r *Run) Create(name string) (*os.File, error) {
	f, err := os.Create(r.Path(name))
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	return f, nil
}

// WriteFile creates name and lets write fill it through a buffer.
func (r *Run) WriteFile(name string, write func(io.Writer) error) (err error) {
	f, err := r.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("output: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return fmt.Errorf("output: %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// Summary describes a finished run.
type Summary struct {
	RunID    string        `yaml:"run_id"`
	Input    string        `yaml:"input"`
	Started  time.Time     `yaml:"started"`
	Duration time.Duration `yaml:"duration"`

	Dims   []int `yaml:"dims"`
	Values int   `yaml:"values"`

	Clusters    []int   `yaml:"clusters"`
	Cost        float64 `yaml:"cost"`
	ModelCost   float64 `yaml:"model_cost"`
	DataCost    float64 `yaml:"data_cost"`
	InitialCost float64 `yaml:"initial_cost"`

	Rounds []RoundSummary `yaml:"rounds"`
}

// RoundSummary is one search round.
type RoundSummary struct {
	Round      int           `yaml:"round"`
	Accepted   int           `yaml:"accepted_axis"`
	Cost       float64       `yaml:"cost"`
	Candidates []float64     `yaml:"candidates,flow"`
	Duration   time.Duration `yaml:"duration"`
}

// NewSummary describes result, a search over input that took elapsed.
func (r *Run) NewSummary(input string, result *crossassoc.Result, elapsed time.Duration) Summary {
	t := result.Clustering.Tensor()
	s := Summary{
		RunID:       r.ID.String(),
		Input:       input,
		Started:     r.Started,
		Duration:    elapsed,
		Dims:        t.Dims(),
		Values:      t.Values(),
		Clusters:    result.Clustering.BlockingDims(),
		Cost:        result.Cost,
		ModelCost:   result.ModelCost,
		DataCost:    result.DataCost,
		InitialCost: result.InitialCost,
	}
	for i, round := range result.Rounds {
		s.Rounds = append(s.Rounds, RoundSummary{
			Round:      i + 1,
			Accepted:   round.Accepted,
			Cost:       round.Cost,
			Candidates: round.Candidates,
			Duration:   round.Duration,
		})
	}
	return s
}

// WriteSummary writes s to SummaryFile.
func (r *Run) WriteSummary(s Summary) error {
	return r.WriteFile(SummaryFile, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	})
}

// ReadSummary reads a summary written by WriteSummary.
func ReadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("output: %s: %w", path, err)
	}
	if s.RunID == "" {
		return nil, fmt.Errorf("output: %s: missing run_id", path)
	}
	return &s, nil
}
