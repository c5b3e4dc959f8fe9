package tsv

import "lcdstats/domain/core"

// AminoAcids in the column order of the frequency tables
const AminoAcids = "ACDEFGHIKLMNPQRSTVWY"

// LCDClasses returns the 400 LCD classes: the 20 primary residues followed by
// every ordered pair of distinct residues.
func LCDClasses() []core.CategoryKey {
	classes := make([]core.CategoryKey, 0, len(AminoAcids)*len(AminoAcids))
	for _, aa := range AminoAcids {
		classes = append(classes, core.CategoryKey(aa))
	}
	for _, first := range AminoAcids {
		for _, second := range AminoAcids {
			if first == second {
				continue
			}
			classes = append(classes, core.CategoryKey(string(first)+string(second)))
		}
	}
	return classes
}
