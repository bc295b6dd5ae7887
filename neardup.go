// Package neardup detects near-duplicate texts in a corpus by approximate
// Jaccard similarity of shingle sets. It composes two cores:
//
//   - pkg/minhash: signs each document into a fixed-length MinHash
//     signature.
//   - pkg/lsh: buckets signatures into a banded LSH index and answers
//     candidate near-duplicate queries in sub-linear time.
//
// Detector is a thin convenience facade over both, analogous to how the
// teacher repo's Repository type composes its IntegrityKernel and
// SemanticKernel behind one handle; it adds no behavior beyond dispatch.
// Library users needing finer control (e.g. signing once and building many
// indexes, or bypassing the facade's bundled config) should use pkg/minhash
// and pkg/lsh directly.
package neardup

import (
	"context"

	"github.com/systemshift/neardup/internal/config"
	"github.com/systemshift/neardup/pkg/lsh"
	"github.com/systemshift/neardup/pkg/minhash"
)

// Detector signs and indexes documents under label type L.
type Detector[L comparable] struct {
	signer *minhash.Signer
	index  *lsh.Index[L]
}

// NewDetector builds an empty detector: signCfg configures the MinHash
// signer, bands/keepSignatures configure the LSH index (bands must evenly
// divide signCfg.Permutations).
func NewDetector[L comparable](signCfg config.SignConfig, bands int, keepSignatures bool) (*Detector[L], error) {
	signer, err := minhash.New(signCfg)
	if err != nil {
		return nil, err
	}
	index, err := lsh.New[L](signCfg.Permutations, bands, keepSignatures)
	if err != nil {
		return nil, err
	}
	return &Detector[L]{signer: signer, index: index}, nil
}

// Add signs texts and inserts them under labels, all-or-nothing (see
// lsh.Index.Update).
func (d *Detector[L]) Add(ctx context.Context, texts []string, labels []L) error {
	matrix, err := minhash.SignCorpus(ctx, d.signer, texts)
	if err != nil {
		return err
	}
	return d.index.Update(matrix, labels)
}

// Remove deletes label from the index.
func (d *Detector[L]) Remove(label L) error {
	return d.index.Remove(label)
}

// Query returns label's candidate near-duplicates.
func (d *Detector[L]) Query(label L, opts lsh.QueryOptions) ([]L, error) {
	return d.index.Query(label, opts)
}

// Adjacency returns the candidate list for every indexed label.
func (d *Detector[L]) Adjacency(opts lsh.QueryOptions) (map[L][]L, error) {
	return d.index.Adjacency(opts)
}

// Edges enumerates each near-duplicate pair exactly once.
func (d *Detector[L]) Edges(opts lsh.QueryOptions, weighted bool) ([]lsh.Edge[L], error) {
	return d.index.Edges(opts, weighted)
}

// Contains returns every label currently indexed.
func (d *Detector[L]) Contains() []L {
	return d.index.Contains()
}

// VerifySignatureJaccard returns the exact set-Jaccard between two
// labels' retained signatures (requires keepSignatures).
func (d *Detector[L]) VerifySignatureJaccard(a, b L) (float64, error) {
	return d.index.VerifySignatureJaccard(a, b)
}
