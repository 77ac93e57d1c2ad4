// Package service evaluates player profiles into rating reports and exposes
// the single-value calculations behind them.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/okian/ptt/internal/adapters/profile"
	"github.com/okian/ptt/internal/domain/model"
	"github.com/okian/ptt/internal/domain/potential"
	"github.com/okian/ptt/internal/domain/types"
	"github.com/okian/ptt/pkg/logger"
	"github.com/okian/ptt/pkg/metrics"
)

// Service computes ratings, targets and requirement tables.
type Service struct {
	logger  logger.Logger
	metrics *metrics.Manager

	showTargets  bool
	showRequired bool
	workerCount  int
	queueSize    int

	now   func() time.Time
	newID func() string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTargetScores toggles the per-entry target score.
func WithTargetScores(enabled bool) Option {
	return func(s *Service) { s.showTargets = enabled }
}

// WithRequiredConstants toggles the requirement table.
func WithRequiredConstants(enabled bool) Option {
	return func(s *Service) { s.showRequired = enabled }
}

// WithWorkerCount sets the number of batch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the batch queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		logger:       logger.Discard(),
		metrics:      metrics.Global(),
		showTargets:  true,
		showRequired: true,
		workerCount:  runtime.NumCPU(),
		queueSize:    1024,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rating returns the single-result rating of score on a chart of constant.
func (s *Service) Rating(ctx context.Context, score int, constant float64) (float64, error) {
	r, ok := potential.SingleResultRating(score, constant)
	s.metrics.RecordRating(ok)
	if !ok {
		s.logger.Debug(ctx, "invalid rating input",
			logger.Int("score", score),
			logger.Float64("constant", constant),
		)
		return 0, fmt.Errorf("%w: score %d, constant %v", ErrInvalidInput, score, constant)
	}
	return r, nil
}

// Target finds the smallest score above currentScore that lifts the
// displayed aggregate by one step. A result without a solution is not an
// error; invalid arguments are.
func (s *Service) Target(ctx context.Context, constant float64, currentScore int, aggregate float64) (potential.TargetResult, error) {
	if !potential.ValidConstant(constant) || !potential.ValidScore(currentScore) || !finite(aggregate) {
		s.metrics.RecordRating(false)
		return potential.TargetResult{}, fmt.Errorf("%w: constant %v, score %d, aggregate %v",
			ErrInvalidInput, constant, currentScore, aggregate)
	}
	res := potential.SolveTargetScore(constant, currentScore, aggregate)
	s.metrics.RecordTargetSolution(res.Outcome.String(), res.Iterations)
	if !res.Found() {
		s.logger.Debug(ctx, "no target score",
			logger.Float64("constant", constant),
			logger.Int("score", currentScore),
			logger.Float64("aggregate", aggregate),
		)
	}
	return res, nil
}

// Required builds the per-grade requirement table.
func (s *Service) Required(ctx context.Context, aggregate float64, top, recent []float64) (potential.RequiredResult, error) {
	res, ok := potential.SolveRequiredDifficulties(aggregate, top, recent)
	if !ok {
		return potential.RequiredResult{}, fmt.Errorf("%w: non-finite rating", ErrInvalidInput)
	}
	s.metrics.RecordRequiredScenario(res.Scenario.String())
	s.logger.Debug(ctx, "required difficulties",
		logger.String("scenario", res.Scenario.String()),
		logger.Float64("needed", res.NeededRating),
	)
	return res, nil
}

// EvaluateFile loads a profile document and evaluates it.
func (s *Service) EvaluateFile(ctx context.Context, path string) (*types.Report, error) {
	p, err := profile.Load(path)
	if err != nil {
		s.metrics.RecordProfileError()
		return nil, err
	}
	return s.Evaluate(ctx, path, p)
}

// Evaluate rates every chart of p and assembles the report.
func (s *Service) Evaluate(ctx context.Context, source string, p model.Profile) (*types.Report, error) {
	start := time.Now()
	p.Normalize()
	if p.Empty() {
		s.metrics.RecordProfileError()
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, profile.ErrEmptyProfile)
	}
	s.logger.Debug(ctx, "evaluating profile",
		logger.String("source", source),
		logger.String("player", p.Player.Username),
		logger.Int("top", len(p.Best30)),
		logger.Int("recent", len(p.Recent10)),
	)

	report := &types.Report{
		ID:     s.newID(),
		Source: source,
		Player: p.Player.Username,
	}

	topRatings := s.rateWindow(ctx, report, types.WindowTop, p.Best30)
	recentRatings := s.rateWindow(ctx, report, types.WindowRecent, p.Recent10)

	report.Aggregate = potential.AggregateRating(topRatings, recentRatings)
	report.Display = potential.DisplayRating(report.Aggregate)
	report.TopAverage = potential.WindowAverage(topRatings)
	report.RecentAverage = potential.WindowAverage(recentRatings)

	if s.showTargets {
		s.attachTargets(ctx, report)
	}
	if s.showRequired {
		req, err := s.Required(ctx, report.Aggregate, topRatings, recentRatings)
		if err != nil {
			s.metrics.RecordProfileError()
			return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
		}
		report.Requirements = RequirementsReport(req)
	}

	report.GeneratedAt = s.now().UTC()
	elapsed := time.Since(start)
	s.metrics.RecordProfileEvaluated(float64(elapsed.Microseconds()) / 1000)
	s.logger.Info(ctx, "profile evaluated",
		logger.String("id", report.ID),
		logger.String("player", report.Player),
		logger.Float64("aggregate", report.Aggregate),
		logger.Int("unrated", report.Unrated),
	)
	return report, nil
}

func (s *Service) rateWindow(ctx context.Context, report *types.Report, window string, charts []model.Chart) []float64 {
	ratings := make([]float64, 0, len(charts))
	for _, c := range charts {
		entry := types.Entry{
			Window:     window,
			Rank:       c.Rank,
			Title:      c.Title,
			Difficulty: c.Difficulty.String(),
			Score:      c.Score,
			Grade:      potential.ScoreGrade(c.Score),
		}
		if c.HasConstant() {
			constant := *c.Constant
			entry.Constant = &constant
			if r, err := s.Rating(ctx, c.Score, constant); err == nil {
				entry.Rating = &r
				ratings = append(ratings, r)
			} else {
				s.logger.Warn(ctx, "skipping invalid chart",
					logger.String("title", c.Title),
					logger.String("window", window),
					logger.Error(err),
				)
			}
		}
		if entry.Rating == nil {
			report.Unrated++
		}
		report.Entries = append(report.Entries, entry)
	}
	return ratings
}

func (s *Service) attachTargets(ctx context.Context, report *types.Report) {
	for i := range report.Entries {
		e := &report.Entries[i]
		if e.Rating == nil {
			continue
		}
		res, err := s.Target(ctx, *e.Constant, e.Score, report.Aggregate)
		if err != nil || !res.Found() {
			continue
		}
		e.Target = &types.Target{
			Score:      res.Score,
			Delta:      res.Score - e.Score,
			Outcome:    res.Outcome.String(),
			NewDisplay: res.NewDisplay,
		}
	}
}

// RequirementsReport converts a solver result into its report form.
func RequirementsReport(res potential.RequiredResult) *types.Requirements {
	out := &types.Requirements{
		Scenario:     res.Scenario.String(),
		NeededRating: res.NeededRating,
		Deficit:      res.Deficit,
		TopMin:       res.TopMin,
		RecentMin:    res.RecentMin,
		Grades:       make([]types.Requirement, 0, len(res.Requirements)),
	}
	for _, r := range res.Requirements {
		out.Grades = append(out.Grades, types.Requirement{
			Label:      r.Label,
			Offset:     r.Offset,
			Difficulty: r.RequiredDifficulty,
		})
	}
	return out
}

// IsInputError reports whether err was caused by invalid caller input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidProfile)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
