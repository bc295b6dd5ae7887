package minhash

import "github.com/systemshift/neardup/pkg/hashfn"

// Signature is a document's ordered length-P vector of hash minima.
type Signature []hashfn.Value

// Matrix is a D x P signature matrix; row order matches input document
// order (spec P1).
type Matrix []Signature

// Shape returns (rows, cols) for the matrix, (0, 0) for an empty matrix.
func (m Matrix) Shape() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}
