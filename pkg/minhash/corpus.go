package minhash

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SignText treats a single string as a one-document corpus (spec 4.D).
func SignText(s *Signer, text string) (Signature, error) {
	return s.Sign(text)
}

// SignCorpus signs every document in texts, assembling a D x P matrix
// whose row order matches the input order regardless of completion order.
// Documents are signed concurrently, bounded by GOMAXPROCS, since signing
// is embarrassingly parallel across documents (spec 4.D/5); ctx is checked
// between dispatching each document so a caller-supplied cancellation
// propagates without waiting for every in-flight signature to finish.
func SignCorpus(ctx context.Context, s *Signer, texts []string) (Matrix, error) {
	matrix := make(Matrix, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	s.log.WithField("documents", len(texts)).Debug("signing corpus")

	for i, text := range texts {
		if err := gctx.Err(); err != nil {
			return nil, err
		}
		i, text := i, text
		g.Go(func() error {
			sig, err := s.Sign(text)
			if err != nil {
				return err
			}
			matrix[i] = sig
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.WithField("documents", len(texts)).Debug("signed corpus")
	return matrix, nil
}
