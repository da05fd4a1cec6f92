package scssbuild

import (
	"cmp"
	"slices"
)

// ValidateOutputs reports the first pair of sources that compile to the same
// output path. Pairs are compared in (Output, Source) order so the reported
// conflict does not depend on build order. outputs is not modified.
func ValidateOutputs(outputs []CompiledOutput) error {
	sorted := slices.Clone(outputs)
	slices.SortFunc(sorted, func(a, b CompiledOutput) int {
		if c := cmp.Compare(a.Output, b.Output); c != 0 {
			return c
		}
		return cmp.Compare(a.Source, b.Source)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Output == sorted[i].Output {
			return &OutputCollisionError{
				First:  sorted[i-1].Source,
				Second: sorted[i].Source,
				Output: sorted[i].Output,
			}
		}
	}
	return nil
}
