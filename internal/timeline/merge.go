package timeline

// Merge folds a newest-first fetched batch into a newest-first timeline and
// returns the merged timeline plus the records that were accepted, in the
// order they were prepended (oldest accepted first).
//
// The batch is walked in reverse so that successive prepends land in the
// correct final order. A record is accepted only when its timestamp is
// strictly greater than the current head; equal timestamps are treated as
// already-known and dropped. With an empty current timeline every batch
// record is accepted.
//
// Merge never mutates its inputs. When nothing is accepted the returned
// timeline is element-for-element identical to current.
func Merge(current, batch Timeline) (merged, inserted Timeline) {
	merged = append(Timeline(nil), current...)
	for i := len(batch) - 1; i >= 0; i-- {
		candidate := batch[i]
		if head, ok := merged.Head(); ok && candidate.Timestamp <= head.Timestamp {
			continue
		}
		merged = append(Timeline{candidate}, merged...)
		inserted = append(inserted, candidate)
	}
	return merged, inserted
}
