// Package minhash turns a document's shingle sequence into a fixed-length
// signature whose position-wise agreement rate estimates the Jaccard
// similarity of the underlying shingle sets (component C/D of the design).
package minhash

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/systemshift/neardup/internal/config"
	"github.com/systemshift/neardup/pkg/errs"
	"github.com/systemshift/neardup/pkg/hashfn"
	"github.com/systemshift/neardup/pkg/shingle"
)

// Signer signs individual documents under a fixed, validated configuration.
// A Signer is immutable after construction and therefore safe for
// concurrent use by multiple goroutines (see SignCorpus).
type Signer struct {
	cfg        config.SignConfig
	bits       hashfn.Bits
	multiSeeds []uint32 // multi_hash: one seed per permutation
	singleSeed uint32   // k_smallest_values: one shared seed
	log        *logrus.Entry
}

// New validates cfg and derives its seed stream.
func New(cfg config.SignConfig) (*Signer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Signer{
		cfg:  cfg,
		bits: hashfn.Bits(cfg.HashBits),
		log:  logrus.WithField("component", "minhash.Signer"),
	}
	switch cfg.Method {
	case config.MultiHash:
		s.multiSeeds = deriveSeeds(cfg.Seed, cfg.Permutations)
	case config.KSmallestValues:
		s.singleSeed = deriveSeed(cfg.Seed)
	default:
		return nil, errors.Wrapf(errs.ErrBadMethod, "got %q", cfg.Method)
	}
	return s, nil
}

// Sign computes the signature for a single text.
func (s *Signer) Sign(text string) (Signature, error) {
	seq, err := shingle.New(text, s.cfg.K, s.cfg.Mode)
	if err != nil {
		return nil, err
	}
	switch s.cfg.Method {
	case config.MultiHash:
		return s.signMultiHash(seq)
	default:
		return s.signKSmallest(seq)
	}
}

// signMultiHash implements the multi_hash method: for each of P
// independent seeds, the minimum hash value over all shingles. The update
// rule is strictly-less, so among equal minima the first-produced wins.
func (s *Signer) signMultiHash(seq *shingle.Sequence) (Signature, error) {
	p := s.cfg.Permutations
	mins := make([]hashfn.Value, p)
	set := make([]bool, p) // tracks whether mins[i] has been initialized

	for {
		sh, ok := seq.Next()
		if !ok {
			break
		}
		data := []byte(sh)
		for i, seed := range s.multiSeeds {
			h, err := hashfn.Hash(s.bits, seed, data)
			if err != nil {
				return nil, err
			}
			if !set[i] || h.Less(mins[i]) {
				mins[i] = h
				set[i] = true
			}
		}
	}
	return Signature(mins), nil
}

// signKSmallest implements the k_smallest_values method: hash every
// shingle under one seed, keep the P smallest by rank (not by distinct
// value - duplicate values are retained if their rank qualifies).
func (s *Signer) signKSmallest(seq *shingle.Sequence) (Signature, error) {
	p := s.cfg.Permutations
	if seq.Len() <= p {
		return nil, errors.Wrapf(errs.ErrTooFewShingles, "shingles=%d permutations=%d", seq.Len(), p)
	}

	values := make([]hashfn.Value, 0, seq.Len())
	for {
		sh, ok := seq.Next()
		if !ok {
			break
		}
		h, err := hashfn.Hash(s.bits, s.singleSeed, []byte(sh))
		if err != nil {
			return nil, err
		}
		values = append(values, h)
	}

	// Stable sort preserves production order among equal hash values, so
	// the retained set among ties matches "retained in order produced".
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Less(values[j])
	})
	return Signature(values[:p]), nil
}
