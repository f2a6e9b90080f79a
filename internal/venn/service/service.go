// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     service
// Description: Evaluation service shared by the gRPC, HTTP and CLI surfaces
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msto63/venn/internal/venn/exercise"
	"github.com/msto63/venn/internal/venn/store"
	"github.com/msto63/venn/pkg/core/cache"
	"github.com/msto63/venn/pkg/core/logging"
	"github.com/msto63/venn/pkg/setalgebra"
)

// ErrHistoryDisabled is returned by history operations when no store is configured
var ErrHistoryDisabled = errors.New("evaluation history is disabled")

// Service evaluates expressions against registered exercises
type Service struct {
	logger   *logging.Logger
	cfg      Config
	registry *exercise.Registry
	history  store.HistoryStore
	results  *cache.Cache[*EvaluateResult]
}

// Config holds configuration for the evaluation service
type Config struct {
	DefaultExercise string
	Cache           cache.Config
	// Retention bounds the age of history entries removed by PruneHistory
	Retention time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		DefaultExercise: exercise.ReferenceID,
		Cache:           cache.DefaultConfig(),
		Retention:       90 * 24 * time.Hour,
	}
}

// NewService creates a new evaluation service. history may be nil, in which
// case evaluations are not recorded.
func NewService(cfg Config, registry *exercise.Registry, history store.HistoryStore) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("exercise registry is required")
	}
	if cfg.DefaultExercise == "" {
		cfg.DefaultExercise = exercise.ReferenceID
	}
	if _, err := registry.Get(cfg.DefaultExercise); err != nil {
		return nil, fmt.Errorf("default exercise %q: %w", cfg.DefaultExercise, err)
	}

	logger := logging.New("venn-service")
	if history == nil {
		logger.Info("Evaluation history disabled")
	}

	return &Service{
		logger:   logger,
		cfg:      cfg,
		registry: registry,
		history:  history,
		results:  cache.New[*EvaluateResult](cfg.Cache),
	}, nil
}

// EvaluateRequest is a single evaluation request
type EvaluateRequest struct {
	ExerciseID string
	Expression string
	Source     store.Source
	RequestID  string
}

// EvalError is the user-facing form of a parse error
type EvalError struct {
	Kind     string   `json:"kind"`
	Position int      `json:"position"`
	Found    string   `json:"found,omitempty"`
	Expected []string `json:"expected,omitempty"`
	Message  string   `json:"message"`
}

// Region reports where a universe element lies
type Region struct {
	Element  uint   `json:"element"`
	Label    string `json:"label,omitempty"`
	InA      bool   `json:"in_a"`
	InB      bool   `json:"in_b"`
	InC      bool   `json:"in_c"`
	InResult bool   `json:"in_result"`
}

// EvaluateResult is the outcome of an evaluation. A parse error is carried
// in Error; the call itself still succeeds.
type EvaluateResult struct {
	ExerciseID string        `json:"exercise_id"`
	Expression string        `json:"expression"`
	Canonical  string        `json:"canonical,omitempty"`
	Explained  string        `json:"explained,omitempty"`
	Elements   []uint        `json:"elements"`
	Result     string        `json:"result"`
	Regions    []Region      `json:"regions,omitempty"`
	Error      *EvalError    `json:"error,omitempty"`
	Cached     bool          `json:"cached"`
	Duration   time.Duration `json:"duration"`

	Set setalgebra.Set `json:"-"`
}

// Failed reports whether the expression could not be parsed
func (r *EvaluateResult) Failed() bool {
	return r.Error != nil
}

// Evaluate resolves the exercise, evaluates the expression and records the
// attempt. Only an unknown exercise is returned as an error.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (*EvaluateResult, error) {
	start := time.Now()

	id := req.ExerciseID
	if id == "" {
		id = s.cfg.DefaultExercise
	}
	ex, err := s.registry.Get(id)
	if err != nil {
		return nil, fmt.Errorf("exercise %q: %w", id, err)
	}

	stripped := setalgebra.StripWhitespace(req.Expression)
	key := cache.ResultKey(ex.ID, ex.Generation(), stripped)

	hit := true
	cached, err := s.results.GetOrSet(key, func() (*EvaluateResult, error) {
		hit = false
		return evaluate(ex, stripped), nil
	})
	if err != nil {
		return nil, err
	}
	// Cached entries are shared; per-call fields go on a copy.
	result := *cached
	result.Cached = hit
	result.Duration = time.Since(start)

	s.record(ctx, req, &result)

	if result.Failed() {
		s.logger.Debug("Expression rejected",
			"exercise", ex.ID,
			"expression", stripped,
			"kind", result.Error.Kind,
			"position", result.Error.Position,
			"request_id", req.RequestID)
	} else {
		s.logger.Debug("Expression evaluated",
			"exercise", ex.ID,
			"expression", result.Canonical,
			"result", result.Result,
			"cached", result.Cached,
			"request_id", req.RequestID)
	}
	return &result, nil
}

func evaluate(ex *exercise.Exercise, stripped string) *EvaluateResult {
	return EvaluateTable(ex.ID, ex.Table(), ex.Labels, stripped)
}

// EvaluateTable evaluates expression against table without caching or
// recording. Labels name the universe elements in the region listing.
func EvaluateTable(exerciseID string, table *setalgebra.AtomTable, labels map[uint]string, expression string) *EvaluateResult {
	stripped := setalgebra.StripWhitespace(expression)
	result := &EvaluateResult{
		ExerciseID: exerciseID,
		Expression: stripped,
		Elements:   []uint{},
	}

	expr, err := setalgebra.ParseBounded(stripped)
	if err != nil {
		result.Error = toEvalError(err)
		result.Result = setalgebra.Set{}.String()
		return result
	}

	set := setalgebra.Eval(expr, table)
	result.Set = set
	result.Canonical = setalgebra.Format(expr)
	result.Explained = setalgebra.Explain(expr)
	result.Result = set.String()
	result.Elements = elements(set)
	result.Regions = Regions(table, labels, set)
	return result
}

func toEvalError(err error) *EvalError {
	pe, ok := setalgebra.AsParseError(err)
	if !ok {
		return &EvalError{Kind: "Unknown", Position: -1, Message: err.Error()}
	}
	return &EvalError{
		Kind:     pe.Kind.String(),
		Position: pe.Position,
		Found:    pe.Found,
		Expected: pe.Expected,
		Message:  pe.Error(),
	}
}

// Regions lists every universe element with its atom membership and
// whether it lies in result.
func Regions(table *setalgebra.AtomTable, labels map[uint]string, result setalgebra.Set) []Region {
	a, _ := table.Lookup(setalgebra.AtomA)
	b, _ := table.Lookup(setalgebra.AtomB)
	c, _ := table.Lookup(setalgebra.AtomC)

	elems := table.Universe().Elements()
	regions := make([]Region, 0, len(elems))
	for _, e := range elems {
		regions = append(regions, Region{
			Element:  uint(e),
			Label:    labels[uint(e)],
			InA:      a.Contains(e),
			InB:      b.Contains(e),
			InC:      c.Contains(e),
			InResult: result.Contains(e),
		})
	}
	return regions
}

func (s *Service) record(ctx context.Context, req EvaluateRequest, result *EvaluateResult) {
	if s.history == nil {
		return
	}

	entry := &store.Evaluation{
		ExerciseID: result.ExerciseID,
		Expression: result.Expression,
		Canonical:  result.Canonical,
		Duration:   result.Duration,
		Source:     req.Source,
		RequestID:  req.RequestID,
	}
	if result.Failed() {
		entry.ErrorKind = result.Error.Kind
		entry.ErrorPosition = result.Error.Position
		entry.ErrorMessage = result.Error.Message
	} else {
		entry.Result = result.Result
	}

	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("Failed to record evaluation", "error", err, "exercise", result.ExerciseID)
	}
}

// Exercises returns all registered exercises sorted by id
func (s *Service) Exercises() []*exercise.Exercise {
	return s.registry.List()
}

// Exercise returns a single exercise
func (s *Service) Exercise(id string) (*exercise.Exercise, error) {
	if id == "" {
		id = s.cfg.DefaultExercise
	}
	ex, err := s.registry.Get(id)
	if err != nil {
		return nil, fmt.Errorf("exercise %q: %w", id, err)
	}
	return ex, nil
}

// DefaultExercise returns the id used when a request names no exercise
func (s *Service) DefaultExercise() string {
	return s.cfg.DefaultExercise
}

// CheckExamples evaluates the examples of an exercise
func (s *Service) CheckExamples(id string) ([]exercise.ExampleResult, error) {
	ex, err := s.Exercise(id)
	if err != nil {
		return nil, err
	}
	return ex.CheckExamples(), nil
}

// History queries recorded evaluations
func (s *Service) History(ctx context.Context, filter store.Filter) ([]*store.Evaluation, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	entries, err := s.history.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return entries, nil
}

// Stats combines history and cache statistics
type Stats struct {
	Exercises int          `json:"exercises"`
	Cache     cache.Stats  `json:"cache"`
	History   *store.Stats `json:"history,omitempty"`
}

// Stats returns service statistics. History is nil when disabled.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Exercises: s.registry.Len(),
		Cache:     s.results.Stats(),
	}
	if s.history != nil {
		hs, err := s.history.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to compute history stats: %w", err)
		}
		stats.History = hs
	}
	return stats, nil
}

// InvalidateExercise drops cached results of an exercise. It is installed
// as the loader's change callback so reloaded atom sets take effect.
func (s *Service) InvalidateExercise(id string) {
	n := s.results.DeletePrefix(cache.ExercisePrefix(id))
	s.logger.Info("Exercise changed", "exercise", id, "invalidated", n)
}

// PruneHistory removes history entries older than the configured retention
func (s *Service) PruneHistory(ctx context.Context) (int64, error) {
	if s.history == nil || s.cfg.Retention <= 0 {
		return 0, nil
	}
	n, err := s.history.Prune(ctx, s.cfg.Retention)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	if n > 0 {
		s.logger.Info("History pruned", "removed", n, "retention", s.cfg.Retention)
	}
	return n, nil
}

// HistoryStore returns the configured store, or nil when history is disabled
func (s *Service) HistoryStore() store.HistoryStore {
	return s.history
}

// Close stops the cache and closes the history store
func (s *Service) Close() error {
	s.results.Close()
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}
