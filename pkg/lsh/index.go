// Package lsh implements the banded LSH index: it splits MinHash signatures
// into bands, buckets each band, and answers candidate near-duplicate
// queries in sub-linear time (components E and F of the design). The index
// keeps two co-maintained maps (bucket -> labels, label -> buckets) under
// the invariants described in the package's top-level documentation:
//
//	I1: for every (label, bucket) pair, the bucket id appears in
//	    label_to_buckets[label] with the same multiplicity as label
//	    appears in bucket_to_labels[bucket].
//	I2: len(label_to_buckets[label]) == bands for every present label.
//	I3: a bucket key exists in bucket_to_labels iff its label list is
//	    non-empty.
package lsh

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/systemshift/neardup/internal/config"
	"github.com/systemshift/neardup/pkg/errs"
	"github.com/systemshift/neardup/pkg/hashfn"
	"github.com/systemshift/neardup/pkg/minhash"
)

// Index is a banded LSH index over documents signed into P-length
// signatures. L is the label type: any comparable value, typically an int
// or string. An Index is not safe for concurrent mutation; concurrent
// readers are safe as long as no writer runs, enforced here by an internal
// RWMutex (Query/Adjacency/Edges/Contains take a read lock,
// Update/Remove take a write lock).
type Index[L comparable] struct {
	mu sync.RWMutex

	permutations   int
	bands          int
	bandWidth      int
	hashBits       int // 0 until the first signature is inserted
	keepSignatures bool

	bucketToLabels map[uint64][]L
	labelToBuckets map[L][]uint64
	signatures     map[L]minhash.Signature // nil unless keepSignatures

	labelOrder []L       // insertion order, for Edges (spec 4.F) and Contains
	labelIndex map[L]int // label -> position in labelOrder

	log *logrus.Entry
}

// New creates an empty index for signatures of width permutations, split
// into bands bands. bands must evenly divide permutations or New returns
// errs.ErrBadBandCount.
func New[L comparable](permutations, bands int, keepSignatures bool) (*Index[L], error) {
	cfg := config.IndexConfig{Permutations: permutations, Bands: bands, KeepSignatures: keepSignatures}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	idx := &Index[L]{
		permutations:   permutations,
		bands:          bands,
		bandWidth:      permutations / bands,
		keepSignatures: keepSignatures,
		bucketToLabels: make(map[uint64][]L),
		labelToBuckets: make(map[L][]uint64),
		labelOrder:     nil,
		labelIndex:     make(map[L]int),
		log:            logrus.WithField("component", "lsh.Index"),
	}
	if keepSignatures {
		idx.signatures = make(map[L]minhash.Signature)
	}
	return idx, nil
}

// FromMatrix creates an index seeded from matrix and labels in one step.
func FromMatrix[L comparable](matrix minhash.Matrix, labels []L, bands int, keepSignatures bool) (*Index[L], error) {
	_, p := matrix.Shape()
	idx, err := New[L](p, bands, keepSignatures)
	if err != nil {
		return nil, err
	}
	if err := idx.Update(matrix, labels); err != nil {
		return nil, err
	}
	return idx, nil
}

// Permutations returns the signature width the index was built for.
func (idx *Index[L]) Permutations() int { return idx.permutations }

// Bands returns the configured band count.
func (idx *Index[L]) Bands() int { return idx.bands }

// KeepsSignatures reports whether the index retains signatures for the
// Jaccard verifier / min_jaccard query filtering.
func (idx *Index[L]) KeepsSignatures() bool { return idx.keepSignatures }

// Contains returns every label currently present, in insertion order.
func (idx *Index[L]) Contains() []L {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]L, len(idx.labelOrder))
	copy(out, idx.labelOrder)
	return out
}

// Update performs an all-or-nothing checked insertion of matrix rows under
// labels: it validates every precondition before mutating any state, so a
// rejected update leaves the index unchanged (spec 4.E).
func (idx *Index[L]) Update(matrix minhash.Matrix, labels []L) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	rows, p := matrix.Shape()
	if rows != len(labels) {
		return errors.Wrapf(errs.ErrShapeMismatch, "matrix has %d rows but %d labels given", rows, len(labels))
	}
	if rows == 0 {
		return nil
	}
	if p != idx.permutations {
		return errors.Wrapf(errs.ErrShapeMismatch, "signature width %d does not match index permutations %d", p, idx.permutations)
	}
	seen := make(map[L]struct{}, len(labels))
	for _, label := range labels {
		if _, exists := idx.labelToBuckets[label]; exists {
			return errors.Wrapf(errs.ErrLabelExists, "label %v", label)
		}
		if _, dup := seen[label]; dup {
			return errors.Wrapf(errs.ErrLabelExists, "label %v given more than once", label)
		}
		seen[label] = struct{}{}
	}

	for i, label := range labels {
		idx.insert(label, matrix[i])
	}
	idx.log.WithField("labels", len(labels)).Debug("updated index")
	return nil
}

// insert adds one label/signature pair, preserving I1-I3. Callers must have
// already validated preconditions (Update does this for all-or-nothing
// semantics).
func (idx *Index[L]) insert(label L, sig minhash.Signature) {
	if idx.hashBits == 0 && len(sig) > 0 {
		idx.hashBits = int(sig[0].Width)
	}

	bucketIDs := make([]uint64, idx.bands)
	for j := 0; j < idx.bands; j++ {
		band := sig[j*idx.bandWidth : (j+1)*idx.bandWidth]
		bucketIDs[j] = hashfn.BucketID(band)
	}

	idx.labelToBuckets[label] = bucketIDs
	for _, id := range bucketIDs {
		idx.bucketToLabels[id] = append(idx.bucketToLabels[id], label)
	}

	idx.labelIndex[label] = len(idx.labelOrder)
	idx.labelOrder = append(idx.labelOrder, label)

	if idx.keepSignatures {
		cp := make(minhash.Signature, len(sig))
		copy(cp, sig)
		idx.signatures[label] = cp
	}
}

// Remove deletes label from the index. Fails with errs.ErrUnknownLabel if
// label is absent, leaving the index unchanged.
func (idx *Index[L]) Remove(label L) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	buckets, ok := idx.labelToBuckets[label]
	if !ok {
		return errors.Wrapf(errs.ErrUnknownLabel, "label %v", label)
	}

	for _, bucketID := range buckets {
		entries := idx.bucketToLabels[bucketID]
		for i, cand := range entries {
			if cand == label {
				entries = append(entries[:i], entries[i+1:]...)
				break
			}
		}
		if len(entries) == 0 {
			delete(idx.bucketToLabels, bucketID)
		} else {
			idx.bucketToLabels[bucketID] = entries
		}
	}

	delete(idx.labelToBuckets, label)
	if idx.keepSignatures {
		delete(idx.signatures, label)
	}
	idx.removeFromOrder(label)

	idx.log.WithField("label", label).Debug("removed label")
	return nil
}

// removeFromOrder deletes label from labelOrder/labelIndex, shifting the
// positions of every label inserted after it.
func (idx *Index[L]) removeFromOrder(label L) {
	pos, ok := idx.labelIndex[label]
	if !ok {
		return
	}
	idx.labelOrder = append(idx.labelOrder[:pos], idx.labelOrder[pos+1:]...)
	delete(idx.labelIndex, label)
	for i := pos; i < len(idx.labelOrder); i++ {
		idx.labelIndex[idx.labelOrder[i]] = i
	}
}

// candidateCounts implements spec 4.F step 4: for each of label's buckets,
// count how many times each other label co-occurs, excluding exactly one
// occurrence of label itself per bucket (since label may legitimately
// appear more than once in a bucket's multiset when two of its own bands
// collide).
func (idx *Index[L]) candidateCounts(label L, buckets []uint64) map[L]int {
	counts := make(map[L]int)
	for _, bucketID := range buckets {
		skippedSelf := false
		for _, cand := range idx.bucketToLabels[bucketID] {
			if !skippedSelf && cand == label {
				skippedSelf = true
				continue
			}
			counts[cand]++
		}
	}
	return counts
}
