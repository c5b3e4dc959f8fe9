package app

import (
	"context"
	"fmt"
	"time"

	"lcdstats/domain/core"
	"lcdstats/domain/stats"
	"lcdstats/internal/config"
	"lcdstats/internal/errors"
	"lcdstats/internal/logging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchRunner analyses many families, each one independently
type BatchRunner struct {
	engine  *FamilyEngine
	workers int
	policy  config.Policy
	runID   core.RunID
	logger  *zap.Logger
}

// NewBatchRunner creates a batch runner; workers < 1 means one worker
func NewBatchRunner(engine *FamilyEngine, workers int, policy config.Policy, runID core.RunID) *BatchRunner {
	if workers < 1 {
		workers = 1
	}
	if policy == "" {
		policy = config.PolicySkip
	}
	if runID == "" {
		runID = core.NewRunID()
	}
	return &BatchRunner{
		engine:  engine,
		workers: workers,
		policy:  policy,
		runID:   runID,
		logger:  logging.L().With(zap.String("run_id", runID.String())),
	}
}

// RunID returns the identifier stamped on this batch
func (b *BatchRunner) RunID() core.RunID {
	return b.runID
}

// Run analyses families concurrently and returns one outcome per family in
// input order. Under PolicySkip an unanalyzable family becomes an outcome
// with Err set; under PolicyAbort it cancels the batch and is returned.
// Contract violations always stop the batch.
func (b *BatchRunner) Run(ctx context.Context, families []stats.FamilyInput) ([]stats.FamilyOutcome, error) {
	start := time.Now()
	outcomes := make([]stats.FamilyOutcome, len(families))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i := range families {
		i := i
		family := families[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			outcome := stats.FamilyOutcome{Key: family.Key, Label: family.Label}
			result, err := b.engine.Analyze(family)
			if err != nil {
				if core.IsUnanalyzable(err) && b.policy == config.PolicySkip {
					b.logger.Warn("family unanalyzable, skipping",
						zap.String("family", family.Key.String()),
						zap.Error(err))
					outcome.Err = errors.WithCode(errors.CodeUnanalyzable, err)
					outcomes[i] = outcome
					return nil
				}
				return errors.WithCode(familyErrorCode(err), fmt.Errorf("family %s: %w", family.Key, err))
			}

			outcome.Result = result
			outcomes[i] = outcome
			b.logger.Debug("family analyzed",
				zap.String("family", family.Key.String()),
				zap.Int("categories", len(result.Categories)),
				zap.Int("tested", result.Tested),
				zap.Int("significant", result.Summary.Significant))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		b.logger.Error("batch stopped", zap.Error(err))
		return nil, err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	b.logger.Info("batch complete",
		zap.Int("families", len(families)),
		zap.Int("unanalyzable", failed),
		zap.Duration("elapsed", time.Since(start)))
	return outcomes, nil
}

func familyErrorCode(err error) string {
	switch {
	case core.IsUnanalyzable(err):
		return errors.CodeUnanalyzable
	case core.IsValidationError(err):
		return errors.CodeValidationError
	default:
		return errors.CodeInternalError
	}
}
