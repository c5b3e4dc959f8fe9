package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lcdstats/domain/core"
	"lcdstats/domain/stats"
	"lcdstats/internal/config"
	apperrors "lcdstats/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchFamilies() []stats.FamilyInput {
	families := make([]stats.FamilyInput, 0, 6)
	for i := 0; i < 5; i++ {
		families = append(families, stats.FamilyInput{
			Key: core.FamilyKey(fmt.Sprintf("P%d", i)),
			Records: []stats.ComparisonRecord{
				record("Q", 40+i, 5000, 20, 5000),
				record("N", 3, 5000, 0, 5000),
			},
		})
	}
	families = append(families[:2], append([]stats.FamilyInput{{
		Key:     "P_bad",
		Records: []stats.ComparisonRecord{record("Q", 4, 4, 1, 9)},
	}}, families[2:]...)...)
	return families
}

func TestBatchRunner_SkipPolicyKeepsOrder(t *testing.T) {
	engine := NewFamilyEngine(nil, DefaultEngineOptions())
	runner := NewBatchRunner(engine, 3, config.PolicySkip, "")
	assert.False(t, runner.RunID().IsEmpty())

	families := batchFamilies()
	outcomes, err := runner.Run(context.Background(), families)
	require.NoError(t, err)
	require.Len(t, outcomes, len(families))

	for i, o := range outcomes {
		assert.Equal(t, families[i].Key, o.Key)
		if o.Key == "P_bad" {
			assert.False(t, o.OK())
			assert.True(t, core.IsUnanalyzable(o.Err))
			assert.Equal(t, apperrors.CodeUnanalyzable, apperrors.GetCode(o.Err))
			continue
		}
		require.True(t, o.OK(), "family %s", o.Key)
		assert.Equal(t, 2, o.Result.Tested)
	}
}

func TestBatchRunner_AbortPolicy(t *testing.T) {
	engine := NewFamilyEngine(nil, DefaultEngineOptions())
	runner := NewBatchRunner(engine, 2, config.PolicyAbort, core.RunID("run-1"))

	outcomes, err := runner.Run(context.Background(), batchFamilies())
	require.Error(t, err)
	assert.Nil(t, outcomes)
	assert.True(t, core.IsUnanalyzable(err))
	assert.Equal(t, apperrors.CodeUnanalyzable, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "P_bad")
}

func TestBatchRunner_ContractViolationStopsBatch(t *testing.T) {
	families := []stats.FamilyInput{
		{Key: "P1", Records: []stats.ComparisonRecord{record("Q", -1, 10, 1, 10)}},
	}
	runner := NewBatchRunner(NewFamilyEngine(nil, DefaultEngineOptions()), 1, config.PolicySkip, "")
	_, err := runner.Run(context.Background(), families)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidCounts))
	assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))
}

func TestBatchRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewBatchRunner(NewFamilyEngine(nil, DefaultEngineOptions()), 1, config.PolicySkip, "")
	_, err := runner.Run(ctx, batchFamilies())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBatchRunner_ParallelMatchesSequential(t *testing.T) {
	engine := NewFamilyEngine(nil, DefaultEngineOptions())
	seq, err := NewBatchRunner(engine, 1, config.PolicySkip, "").Run(context.Background(), batchFamilies())
	require.NoError(t, err)
	par, err := NewBatchRunner(engine, 8, config.PolicySkip, "").Run(context.Background(), batchFamilies())
	require.NoError(t, err)

	require.Len(t, par, len(seq))
	for i := range seq {
		assert.Equal(t, seq[i].Key, par[i].Key)
		assert.Equal(t, seq[i].Result, par[i].Result)
	}
}
