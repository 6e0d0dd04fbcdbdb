package internal

import (
	"iter"
	"maps"
	"slices"
)

// MergeDefines merges define sequences into one, ordered by name.
// A later sequence overrides an earlier one's value for the same name.
func MergeDefines(seqs ...iter.Seq2[string, string]) iter.Seq2[string, string] {
	merged := map[string]string{}
	for _, seq := range seqs {
		maps.Insert(merged, seq)
	}

	return func(yield func(string, string) bool) {
		for _, name := range slices.Sorted(maps.Keys(merged)) {
			if !yield(name, merged[name]) {
				return
			}
		}
	}
}
