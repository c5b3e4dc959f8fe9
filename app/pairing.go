package app

import (
	"fmt"

	"lcdstats/domain/core"
	"lcdstats/domain/stats"
	"lcdstats/internal/logging"

	"go.uber.org/zap"
)

// PairFamilies joins each observed table with its reference table, found
// under the observed key plus suffix. Observed tables without a reference
// are returned as skipped. Category lists must match position by position.
func PairFamilies(observed, reference []stats.FrequencyTable, suffix string) ([]stats.FamilyInput, []core.FamilyKey, error) {
	refs := make(map[core.FamilyKey]stats.FrequencyTable, len(reference))
	for _, r := range reference {
		refs[r.Key] = r
	}

	var families []stats.FamilyInput
	var skipped []core.FamilyKey
	for _, obs := range observed {
		ref, ok := refs[core.FamilyKey(obs.Key.String()+suffix)]
		if !ok {
			logging.Warn("no reference table for family", zap.String("family", obs.Key.String()))
			skipped = append(skipped, obs.Key)
			continue
		}

		family, err := buildFamily(obs, ref)
		if err != nil {
			return nil, nil, err
		}
		families = append(families, family)
	}
	return families, skipped, nil
}

func buildFamily(obs, ref stats.FrequencyTable) (stats.FamilyInput, error) {
	if len(obs.Categories) != len(ref.Categories) || len(obs.Counts) != len(obs.Categories) || len(ref.Counts) != len(ref.Categories) {
		return stats.FamilyInput{}, fmt.Errorf("%w: %s has %d categories, %s has %d",
			core.ErrFamilyMismatch, obs.Key, len(obs.Categories), ref.Key, len(ref.Categories))
	}

	records := make([]stats.ComparisonRecord, len(obs.Categories))
	for i, cat := range obs.Categories {
		if ref.Categories[i] != cat {
			return stats.FamilyInput{}, fmt.Errorf("%w: category %d is %s in %s but %s in %s",
				core.ErrFamilyMismatch, i, cat, obs.Key, ref.Categories[i], ref.Key)
		}
		records[i] = stats.ComparisonRecord{
			Category:      cat,
			ObservedCount: obs.Counts[i],
			ObservedTotal: obs.Total,
			ExpectedCount: ref.Counts[i],
			ExpectedTotal: ref.Total,
		}
	}
	return stats.FamilyInput{Key: obs.Key, Label: obs.Label, Records: records}, nil
}
