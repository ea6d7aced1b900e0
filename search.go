package crossassoc

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// Config controls a cross-association search.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// InitialClusters seeds each axis with this many round-robin clusters
	// before the first round. nil means one cluster per axis, the trivial
	// starting point. Each entry must be in [1, axis length].
	InitialClusters []int

	// MaxRounds stops the search after this many growth rounds even if the
	// cost is still dropping. 0 means no limit. Must be >= 0. Default: 0.
	MaxRounds int

	// MaxRegroupRounds caps the number of full reassignment rounds in one
	// Regroup call. 0 means no limit. Must be >= 0. Default: 0.
	MaxRegroupRounds int

	// Workers controls the number of goroutines used to compute signatures
	// and score units during reassignment. 0 means use runtime.NumCPU().
	// Default: 0 (auto).
	Workers int

	// Logger receives progress events. nil discards them.
	Logger *slog.Logger
}

// Round records one growth round of a search.
type Round struct {
	// Candidates holds, per axis, the cost reached after growing that axis
	// and regrouping.
	Candidates []float64

	// Accepted is the axis whose candidate replaced the best solution, or -1
	// if no candidate improved on it.
	Accepted int

	// Cost is the best cost after the round.
	Cost float64

	// Duration is the wall time the round took.
	Duration time.Duration
}

// Result contains the output of a cross-association search.
type Result struct {
	// Clustering is the best multiclustering found.
	Clustering *Multiclustering

	// Cost, ModelCost and DataCost break down the description length of
	// Clustering in nats.
	Cost      float64
	ModelCost float64
	DataCost  float64

	// InitialCost is the cost of the starting multiclustering.
	InitialCost float64

	// Rounds is the per-round history. The last round is the one that found
	// no improvement, unless MaxRounds cut the search short.
	Rounds []Round
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{}
}

// validateConfig checks that cfg fields are valid for t and returns a
// descriptive error if not.
func validateConfig(cfg *Config, t *Tensor) error {
	if cfg.MaxRounds < 0 {
		return fmt.Errorf("crossassoc: MaxRounds must be >= 0, got %d", cfg.MaxRounds)
	}
	if cfg.MaxRegroupRounds < 0 {
		return fmt.Errorf("crossassoc: MaxRegroupRounds must be >= 0, got %d", cfg.MaxRegroupRounds)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("crossassoc: Workers must be >= 0 (0 means NumCPU), got %d", cfg.Workers)
	}
	if cfg.InitialClusters != nil {
		if len(cfg.InitialClusters) != t.Ways() {
			return fmt.Errorf("crossassoc: InitialClusters has %d entries for a %d-way tensor", len(cfg.InitialClusters), t.Ways())
		}
		for axis, k := range cfg.InitialClusters {
			if k < 1 || k > t.Dim(axis) {
				return fmt.Errorf("crossassoc: InitialClusters[%d] must be in [1, %d], got %d", axis, t.Dim(axis), k)
			}
		}
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
}

// Regroup runs Optimize on every axis in turn, repeating full rounds until a
// round moves no unit or leaves the total cost exactly where the previous
// round left it. It returns the final cost.
//
// The fixed point is detected with exact float equality, not a tolerance.
func Regroup(m *Multiclustering, cfg Config) float64 {
	applyDefaults(&cfg)
	log := cfg.Logger

	log.Debug("regroup start", "cost", m.Cost())

	// The first round is always compared against MaxCost.
	cost := MaxCost

	for round := 1; ; round++ {
		changed := false
		for axis := range m.clusterings {
			start := time.Now()
			moved := m.OptimizeParallel(axis, cfg.Workers)
			changed = changed || moved
			log.Debug("optimized axis",
				"round", round,
				"axis", axis,
				"moved", moved,
				"clusters", len(m.clusterings[axis]),
				"elapsed", time.Since(start),
			)
		}

		next := m.Cost()
		log.Debug("regroup round", "round", round, "cost", next)
		if !changed || next == cost {
			return next
		}
		cost = next

		if cfg.MaxRegroupRounds > 0 && round >= cfg.MaxRegroupRounds {
			log.Warn("regroup stopped at round limit", "rounds", round, "cost", cost)
			return cost
		}
	}
}

// Search finds a low-cost multiclustering of t. Starting from
// cfg.InitialClusters (one cluster per axis by default), each round tries
// growing every axis by one cluster on a copy of the best solution, regroups
// the copy, and keeps the cheapest copy if it beats the best cost. An earlier
// axis wins ties. The search stops at the first round where no axis improves.
func Search(t *Tensor, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg, t); err != nil {
		return nil, err
	}
	log := cfg.Logger

	best := NewMulticlustering(t)
	if cfg.InitialClusters != nil {
		var err error
		best, err = NewMulticlusteringK(t, cfg.InitialClusters)
		if err != nil {
			return nil, err
		}
	}
	bestCost := best.Cost()

	result := &Result{InitialCost: bestCost}
	log.Info("search start", "ways", t.Ways(), "dims", t.dims, "values", t.values, "cost", bestCost)

	for round := 1; ; round++ {
		start := time.Now()
		r := Round{
			Candidates: make([]float64, t.Ways()),
			Accepted:   -1,
		}

		var candidate *Multiclustering
		candidateCost := bestCost
		for axis := 0; axis < t.Ways(); axis++ {
			local := best.Clone()
			grown := local.AddCluster(axis)
			cost := Regroup(local, cfg)
			r.Candidates[axis] = cost

			accepted := cost < candidateCost
			if accepted {
				candidate, candidateCost = local, cost
				r.Accepted = axis
			}
			log.Debug("candidate",
				"round", round,
				"axis", axis,
				"grown", grown,
				"cost", cost,
				"improves", accepted,
			)
		}

		if candidate != nil {
			best, bestCost = candidate, candidateCost
		}
		r.Cost = bestCost
		r.Duration = time.Since(start)
		result.Rounds = append(result.Rounds, r)

		log.Info("round complete",
			"round", round,
			"accepted_axis", r.Accepted,
			"cost", bestCost,
			"clusters", best.BlockingDims(),
			"elapsed", r.Duration,
		)

		if candidate == nil {
			break
		}
		if cfg.MaxRounds > 0 && round >= cfg.MaxRounds {
			log.Warn("search stopped at round limit", "rounds", round)
			break
		}
	}

	result.Clustering = best
	result.ModelCost = best.ModelCost()
	result.DataCost = best.DataCost()
	result.Cost = result.ModelCost + result.DataCost
	return result, nil
}
