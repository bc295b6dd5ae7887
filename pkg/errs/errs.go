// Package errs collects the sentinel errors shared by neardup's shingling,
// signing, and indexing packages. Callers should match them with errors.Is;
// internal call sites may wrap them with extra context via pkg/errors.Wrap
// without losing that identity.
package errs

import "errors"

var (
	// ErrInputTooShort is returned by the shingler when the shingle
	// sequence for a text would be empty (including k > length).
	ErrInputTooShort = errors.New("neardup: shingle sequence is empty for the given k")

	// ErrTooFewShingles is returned by the k_smallest_values signer when
	// a document does not produce more shingles than the permutation count.
	ErrTooFewShingles = errors.New("neardup: k_smallest_values requires more shingles than permutations")

	// ErrBadHashBits is returned when hash_bits is not one of 32, 64, 128.
	ErrBadHashBits = errors.New("neardup: hash_bits must be 32, 64 or 128")

	// ErrBadMethod is returned when the signing method is not recognized.
	ErrBadMethod = errors.New("neardup: method must be multi_hash or k_smallest_values")

	// ErrBadMode is returned when the shingle mode is not recognized.
	ErrBadMode = errors.New("neardup: mode must be character or term")

	// ErrBadBandCount is returned when the band count does not divide the
	// permutation count.
	ErrBadBandCount = errors.New("neardup: band count must evenly divide permutation count")

	// ErrBadSensitivity is returned when a query's sensitivity exceeds the
	// band count.
	ErrBadSensitivity = errors.New("neardup: sensitivity must be <= band count")

	// ErrLabelExists is returned by Update when a new label already exists
	// in the index.
	ErrLabelExists = errors.New("neardup: label already exists in index")

	// ErrUnknownLabel is returned by Query/Remove when a label is absent.
	ErrUnknownLabel = errors.New("neardup: label does not exist in index")

	// ErrShapeMismatch is returned by Update when the incoming matrix's
	// permutation count does not match the index's.
	ErrShapeMismatch = errors.New("neardup: signature width does not match index permutations")

	// ErrJaccardUnavailable is returned when min_jaccard is requested but
	// the index was not constructed with retained signatures.
	ErrJaccardUnavailable = errors.New("neardup: min_jaccard requires an index constructed with keep_signatures")
)
