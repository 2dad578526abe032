package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// IterSeq2Collect drains a dual-return iterator into a map.
// Later keys replace earlier ones.
func IterSeq2Collect[K comparable, V any](seq iter.Seq2[K, V]) (out map[K]V) {
	out = make(map[K]V)
	for key, value := range seq {
		out[key] = value
	}
	return
}
