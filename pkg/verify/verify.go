// Package verify implements the optional exact/estimated Jaccard verifier
// (design component G). It is consulted deliberately, never by
// lsh.Index.Query, per the spec's use_jaccard open question (see
// SPEC_FULL.md §10): query's min_jaccard always filters on band agreement,
// not on the set-Jaccard this package computes.
package verify

import "github.com/systemshift/neardup/pkg/hashfn"

// Signature is the minimal shape this package needs from a minhash
// signature - kept local to avoid an import cycle with package minhash.
type Signature []hashfn.Value

// SignatureJaccard returns |A ∩ B| / |A ∪ B| treating a and b as *sets* of
// hash values (duplicates within a signature collapse), per spec 4.G. It
// is an estimator of shingle-set Jaccard only when the permutation count
// is large, and equals it exactly only for signatures without repeats.
func SignatureJaccard(a, b Signature) float64 {
	setA := toSet(a)
	setB := toSet(b)
	return jaccardOfSets(setA, setB)
}

// ShingleJaccard returns the exact Jaccard similarity of two shingle sets,
// generalized from the teacher's map[string]bool JaccardSimilarity helper.
// It is provided only as a ground-truth verifier (spec: "exact Jaccard
// computation as a primary path" is a non-goal); query never calls it.
func ShingleJaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func toSet(sig Signature) map[hashfn.Value]struct{} {
	set := make(map[hashfn.Value]struct{}, len(sig))
	for _, v := range sig {
		set[v] = struct{}{}
	}
	return set
}

func jaccardOfSets(a, b map[hashfn.Value]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for v := range a {
		if _, ok := b[v]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
