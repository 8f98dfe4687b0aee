package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// MergeOptions controls a merge run.
type MergeOptions struct {
	// Limit truncates the candidate sequence to the first N entries.
	// Zero means no limit. Callers validate that an explicit limit is
	// positive before the run reaches this point.
	Limit int

	// Curated lists fields that merges must never overwrite; the existing
	// record's value (or absence) always wins. Nil means the default set.
	Curated []string
}

// MergeStats reports what a merge run did.
type MergeStats struct {
	Candidates      int // total candidates found in the input
	Processed       int // candidates considered after applying Limit
	Skipped         int // candidates dropped: not an object, or no usable id
	Created         int // new records appended
	Updated         int // existing records replaced
	ThemesUnchanged int // matched candidates that changed nothing
	ThemeMismatches int // candidates whose themes differed from the curated value
}

// defaultCurated is the protected field set when config supplies none.
var defaultCurated = []string{FieldThemes}

// Merge reconciles candidate records into the existing dataset.
//
// Existing records keep their positions; updated ones are replaced in place
// and new ones are appended in candidate order. Matching is by id against
// the existing dataset as it was before the run; if the dataset contains
// duplicate ids, the last occurrence wins. The inputs are not mutated.
func Merge(candidates, existing []any, opts MergeOptions) ([]any, MergeStats, error) {
	var stats MergeStats

	curated := opts.Curated
	if curated == nil {
		curated = defaultCurated
	}

	index := make(map[string]int, len(existing))

	for i, v := range existing {
		if rec, ok := AsRecord(v); ok {
			if id := rec.ID(); id != "" {
				index[id] = i
			}
		}
	}

	stats.Candidates = len(candidates)

	if opts.Limit > 0 && opts.Limit < len(candidates) {
		candidates = candidates[:opts.Limit]
	}

	stats.Processed = len(candidates)

	out := slices.Clone(existing)

	for _, v := range candidates {
		candidate, ok := AsRecord(v)
		if !ok || candidate.ID() == "" {
			stats.Skipped++

			continue
		}

		pos, known := index[candidate.ID()]
		if !known {
			out = append(out, v)
			stats.Created++

			continue
		}

		current, ok := AsRecord(out[pos])
		if !ok {
			stats.Skipped++

			continue
		}

		merged := fieldUnion(current, candidate, curated)

		if !themesEqual(current[FieldThemes], candidate[FieldThemes]) {
			stats.ThemeMismatches++
		}

		changed, err := recordsDiffer(current, Record(merged))
		if err != nil {
			return nil, MergeStats{}, err
		}

		if changed {
			out[pos] = merged
			stats.Updated++
		} else {
			stats.ThemesUnchanged++
		}
	}

	return out, stats, nil
}

// fieldUnion computes the shallow merge of candidate over existing:
// every candidate field overwrites the existing one, except curated fields,
// which are forced back to the existing record's value. A curated field
// absent from the existing record stays absent.
//
// The result is a plain map, not a Record, so merged entries carry the
// same dynamic type as freshly decoded ones and the output can feed a
// later run as its existing dataset.
func fieldUnion(existing, candidate Record, curated []string) map[string]any {
	merged := make(map[string]any, len(existing)+len(candidate))

	for k, val := range existing {
		merged[k] = val
	}

	for k, val := range candidate {
		merged[k] = val
	}

	for _, field := range curated {
		if val, ok := existing[field]; ok {
			merged[field] = val
		} else {
			delete(merged, field)
		}
	}

	return merged
}

// themesEqual compares two themes values order-sensitively.
// String sequences compare element-wise; anything else falls back to
// serialized comparison.
func themesEqual(existing, candidate any) bool {
	el, eok := themeList(existing)
	cl, cok := themeList(candidate)

	if eok && cok {
		return slices.Equal(el, cl)
	}

	if eok != cok {
		return false
	}

	eb, err := json.Marshal(existing)
	if err != nil {
		return false
	}

	cb, err := json.Marshal(candidate)
	if err != nil {
		return false
	}

	return bytes.Equal(eb, cb)
}

// recordsDiffer reports deep structural inequality via serialization.
// encoding/json writes map keys in sorted order, so equal structures
// produce identical bytes.
func recordsDiffer(a, b Record) (bool, error) {
	ab, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("compare records: %w", err)
	}

	bb, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("compare records: %w", err)
	}

	return !bytes.Equal(ab, bb), nil
}
