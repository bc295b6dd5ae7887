package lsh

import (
	"github.com/sirupsen/logrus"

	"github.com/systemshift/neardup/pkg/minhash"
)

// Snapshot is a by-value copy of an index's persisted state (spec 4.E/6):
// the two maps, the retained signatures if any, and the configuration
// scalars. It carries no serialization logic of its own - encoding it to
// disk or wire format is a host concern the spec explicitly leaves out of
// scope.
//
// Bucket ids are local to this implementation's hash family (spec 6); a
// Snapshot must be reopened by the same implementation that produced it.
type Snapshot[L comparable] struct {
	Permutations   int
	Bands          int
	HashBits       int
	KeepSignatures bool
	BucketToLabels map[uint64][]L
	LabelToBuckets map[L][]uint64
	Signatures     map[L]minhash.Signature // nil unless KeepSignatures
	LabelOrder     []L
}

// Snapshot copies the index's current state out by value.
func (idx *Index[L]) Snapshot() Snapshot[L] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	snap := Snapshot[L]{
		Permutations:   idx.permutations,
		Bands:          idx.bands,
		HashBits:       idx.hashBits,
		KeepSignatures: idx.keepSignatures,
		BucketToLabels: make(map[uint64][]L, len(idx.bucketToLabels)),
		LabelToBuckets: make(map[L][]uint64, len(idx.labelToBuckets)),
		LabelOrder:     append([]L(nil), idx.labelOrder...),
	}
	for k, v := range idx.bucketToLabels {
		snap.BucketToLabels[k] = append([]L(nil), v...)
	}
	for k, v := range idx.labelToBuckets {
		snap.LabelToBuckets[k] = append([]uint64(nil), v...)
	}
	if idx.keepSignatures {
		snap.Signatures = make(map[L]minhash.Signature, len(idx.signatures))
		for k, v := range idx.signatures {
			snap.Signatures[k] = append(minhash.Signature(nil), v...)
		}
	}
	return snap
}

// FromSnapshot rebuilds an index directly from a previously captured
// Snapshot, restoring both maps and label order verbatim rather than
// replaying Update (so a round trip is byte-equal, spec P5).
func FromSnapshot[L comparable](snap Snapshot[L]) *Index[L] {
	idx := &Index[L]{
		permutations:   snap.Permutations,
		bands:          snap.Bands,
		bandWidth:      snap.Permutations / snap.Bands,
		hashBits:       snap.HashBits,
		keepSignatures: snap.KeepSignatures,
		bucketToLabels: make(map[uint64][]L, len(snap.BucketToLabels)),
		labelToBuckets: make(map[L][]uint64, len(snap.LabelToBuckets)),
		labelOrder:     append([]L(nil), snap.LabelOrder...),
		labelIndex:     make(map[L]int, len(snap.LabelOrder)),
		log:            logrus.WithField("component", "lsh.Index"),
	}
	for k, v := range snap.BucketToLabels {
		idx.bucketToLabels[k] = append([]L(nil), v...)
	}
	for k, v := range snap.LabelToBuckets {
		idx.labelToBuckets[k] = append([]uint64(nil), v...)
	}
	for i, label := range idx.labelOrder {
		idx.labelIndex[label] = i
	}
	if snap.KeepSignatures {
		idx.signatures = make(map[L]minhash.Signature, len(snap.Signatures))
		for k, v := range snap.Signatures {
			idx.signatures[k] = append(minhash.Signature(nil), v...)
		}
	}
	return idx
}
