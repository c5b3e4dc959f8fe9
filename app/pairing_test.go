package app

import (
	"errors"
	"testing"

	"lcdstats/domain/core"
	"lcdstats/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(key string, total int, counts ...int) stats.FrequencyTable {
	cats := []core.CategoryKey{"Q", "N", "QN"}
	return stats.FrequencyTable{Key: core.FamilyKey(key), Label: "Eukaryota", Total: total, Categories: cats[:len(counts)], Counts: counts}
}

func TestPairFamilies(t *testing.T) {
	observed := []stats.FrequencyTable{
		table("P1", 100, 5, 0, 2),
		table("P2", 80, 1, 1, 1),
	}
	reference := []stats.FrequencyTable{
		table("P1_SCRAMBLED", 100, 1, 0, 3),
	}

	families, skipped, err := PairFamilies(observed, reference, "_SCRAMBLED")
	require.NoError(t, err)
	assert.Equal(t, []core.FamilyKey{"P2"}, skipped)
	require.Len(t, families, 1)

	f := families[0]
	assert.Equal(t, core.FamilyKey("P1"), f.Key)
	assert.Equal(t, "Eukaryota", f.Label)
	require.Len(t, f.Records, 3)
	assert.Equal(t, stats.ComparisonRecord{Category: "QN", ObservedCount: 2, ObservedTotal: 100, ExpectedCount: 3, ExpectedTotal: 100}, f.Records[2])
}

func TestPairFamilies_Mismatch(t *testing.T) {
	observed := []stats.FrequencyTable{table("P1", 100, 5, 0, 2)}
	reference := []stats.FrequencyTable{table("P1_SCRAMBLED", 100, 1, 0)}

	_, _, err := PairFamilies(observed, reference, "_SCRAMBLED")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrFamilyMismatch))

	swapped := table("P1_SCRAMBLED", 100, 1, 0, 3)
	swapped.Categories = []core.CategoryKey{"N", "Q", "QN"}
	_, _, err = PairFamilies(observed, []stats.FrequencyTable{swapped}, "_SCRAMBLED")
	assert.True(t, errors.Is(err, core.ErrFamilyMismatch))
}
