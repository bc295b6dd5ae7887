package lsh

import (
	"github.com/pkg/errors"

	"github.com/systemshift/neardup/pkg/errs"
	"github.com/systemshift/neardup/pkg/verify"
)

// VerifySignatureJaccard returns the exact set-Jaccard (spec 4.G) between
// two labels' retained signatures. It requires an index built with
// KeepSignatures and is never consulted by Query/Adjacency/Edges - see the
// use_jaccard open question in SPEC_FULL.md §10.
func (idx *Index[L]) VerifySignatureJaccard(a, b L) (float64, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.keepSignatures {
		return 0, errs.ErrJaccardUnavailable
	}
	sigA, ok := idx.signatures[a]
	if !ok {
		return 0, errors.Wrapf(errs.ErrUnknownLabel, "label %v", a)
	}
	sigB, ok := idx.signatures[b]
	if !ok {
		return 0, errors.Wrapf(errs.ErrUnknownLabel, "label %v", b)
	}
	return verify.SignatureJaccard(verify.Signature(sigA), verify.Signature(sigB)), nil
}
