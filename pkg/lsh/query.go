package lsh

import (
	"github.com/pkg/errors"

	"github.com/systemshift/neardup/pkg/errs"
)

// QueryOptions configures candidate retrieval (spec 4.F). Sensitivity of 0
// is treated as the default, 1. MinJaccard is unset when nil; setting it
// requires an index built with KeepSignatures, and filters on the
// band-agreement estimator (multiplicity/bands), never on set-Jaccard of
// retained signatures - that distinction is the spec's documented
// use_jaccard open question, preserved here exactly (see SPEC_FULL.md §10).
type QueryOptions struct {
	Sensitivity int
	MinJaccard  *float64
}

func withDefaultSensitivity(opts QueryOptions) QueryOptions {
	if opts.Sensitivity == 0 {
		opts.Sensitivity = 1
	}
	return opts
}

// validateQueryOptions checks sensitivity/min_jaccard preconditions shared by Query,
// Adjacency, and Edges.
func (idx *Index[L]) validateQueryOptions(opts QueryOptions) error {
	if opts.Sensitivity > idx.bands {
		return errors.Wrapf(errs.ErrBadSensitivity, "sensitivity %d > bands %d", opts.Sensitivity, idx.bands)
	}
	if opts.MinJaccard != nil && !idx.keepSignatures {
		return errs.ErrJaccardUnavailable
	}
	return nil
}

// filterCandidates applies the sensitivity then min_jaccard thresholds to
// a raw multiplicity map, per spec 4.F steps 5-6.
func (idx *Index[L]) filterCandidates(counts map[L]int, opts QueryOptions) []L {
	out := make([]L, 0, len(counts))
	for cand, n := range counts {
		if n < opts.Sensitivity {
			continue
		}
		if opts.MinJaccard != nil {
			ratio := float64(n) / float64(idx.bands)
			if ratio < *opts.MinJaccard {
				continue
			}
		}
		out = append(out, cand)
	}
	return out
}

// Query returns label's candidate near-duplicates: labels sharing at least
// Sensitivity buckets with label, optionally further filtered by
// MinJaccard (estimated from band agreement). Fails with
// errs.ErrUnknownLabel if label is absent.
func (idx *Index[L]) Query(label L, opts QueryOptions) ([]L, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	buckets, ok := idx.labelToBuckets[label]
	if !ok {
		return nil, errors.Wrapf(errs.ErrUnknownLabel, "label %v", label)
	}
	opts = withDefaultSensitivity(opts)
	if err := idx.validateQueryOptions(opts); err != nil {
		return nil, err
	}

	counts := idx.candidateCounts(label, buckets)
	return idx.filterCandidates(counts, opts), nil
}

// Adjacency runs Query for every label currently in the index, returning a
// label -> candidates map (spec 4.F adjacency_list).
func (idx *Index[L]) Adjacency(opts QueryOptions) (map[L][]L, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	opts = withDefaultSensitivity(opts)
	if err := idx.validateQueryOptions(opts); err != nil {
		return nil, err
	}

	out := make(map[L][]L, len(idx.labelOrder))
	for _, label := range idx.labelOrder {
		counts := idx.candidateCounts(label, idx.labelToBuckets[label])
		out[label] = idx.filterCandidates(counts, opts)
	}
	return out, nil
}

// Edge is one unordered near-duplicate relationship. Jaccard is populated
// (the band-estimated ratio) only when Edges was called with weighted.
type Edge[L comparable] struct {
	A, B    L
	Jaccard float64
}

// Edges enumerates each unordered near-duplicate pair exactly once (spec
// 4.F edge_list): labels are walked in insertion order and only compared
// against labels inserted later, so a pair is never emitted twice. If
// weighted, each edge carries its band-estimated Jaccard ratio.
func (idx *Index[L]) Edges(opts QueryOptions, weighted bool) ([]Edge[L], error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	opts = withDefaultSensitivity(opts)
	if err := idx.validateQueryOptions(opts); err != nil {
		return nil, err
	}

	var edges []Edge[L]
	for i, label := range idx.labelOrder {
		counts := idx.candidateCounts(label, idx.labelToBuckets[label])
		for cand, n := range counts {
			if n < opts.Sensitivity {
				continue
			}
			candIdx, ok := idx.labelIndex[cand]
			if !ok || candIdx <= i {
				continue // only count pairs against labels inserted later
			}
			ratio := float64(n) / float64(idx.bands)
			if opts.MinJaccard != nil && ratio < *opts.MinJaccard {
				continue
			}
			e := Edge[L]{A: label, B: cand}
			if weighted {
				e.Jaccard = ratio
			}
			edges = append(edges, e)
		}
	}
	return edges, nil
}
