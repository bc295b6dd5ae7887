package minhash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systemshift/neardup/internal/config"
	"github.com/systemshift/neardup/pkg/errs"
	"github.com/systemshift/neardup/pkg/shingle"
)

func multiHashConfig() config.SignConfig {
	return config.SignConfig{
		K:            9,
		Mode:         shingle.Character,
		Permutations: 32,
		HashBits:     64,
		Method:       config.MultiHash,
		Seed:         3,
	}
}

func TestSign_ShapeAndDeterminism(t *testing.T) {
	s, err := New(multiHashConfig())
	require.NoError(t, err)

	text := "Jupiter is primarily composed of hydrogen with a quarter of its mass being helium"

	sigA, err := s.Sign(text)
	require.NoError(t, err)
	assert.Len(t, sigA, 32)

	sigB, err := s.Sign(text)
	require.NoError(t, err)
	assert.Equal(t, sigA, sigB, "signing the same text twice must be bitwise identical")

	s2, err := New(multiHashConfig())
	require.NoError(t, err)
	sigC, err := s2.Sign(text)
	require.NoError(t, err)
	assert.Equal(t, sigA, sigC, "a fresh signer with the same config/seed must reproduce the signature")
}

func TestSign_InputTooShort(t *testing.T) {
	cfg := multiHashConfig()
	cfg.K = 1000
	s, err := New(cfg)
	require.NoError(t, err)

	_, err = s.Sign("short text")
	assert.ErrorIs(t, err, errs.ErrInputTooShort)
}

func TestSign_KSmallestTooFewShingles(t *testing.T) {
	cfg := multiHashConfig()
	cfg.Method = config.KSmallestValues
	cfg.Permutations = 1000
	s, err := New(cfg)
	require.NoError(t, err)

	_, err = s.Sign("a short document with only a handful of shingles in it")
	assert.ErrorIs(t, err, errs.ErrTooFewShingles)
}

func TestSign_KSmallestShape(t *testing.T) {
	cfg := multiHashConfig()
	cfg.Method = config.KSmallestValues
	cfg.K = 2
	cfg.Permutations = 20
	s, err := New(cfg)
	require.NoError(t, err)

	sig, err := s.Sign("A helium atom has about four times as much mass as a hydrogen atom")
	require.NoError(t, err)
	assert.Len(t, sig, 20)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.SignConfig
		want error
	}{
		{"bad hash bits", withHashBits(multiHashConfig(), 48), errs.ErrBadHashBits},
		{"bad method", withMethod(multiHashConfig(), "universal"), errs.ErrBadMethod},
		{"bad mode", withMode(multiHashConfig(), "sentence"), errs.ErrBadMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func withHashBits(c config.SignConfig, bits int) config.SignConfig {
	c.HashBits = bits
	return c
}

func withMethod(c config.SignConfig, m config.Method) config.SignConfig {
	c.Method = m
	return c
}

func withMode(c config.SignConfig, m shingle.Mode) config.SignConfig {
	c.Mode = m
	return c
}

func TestSignCorpus_ShapeAndOrder(t *testing.T) {
	s, err := New(multiHashConfig())
	require.NoError(t, err)

	texts := []string{
		"Jupiter is primarily composed of hydrogen with a quarter of its mass being helium",
		"The Great Red Spot is large enough to accommodate Earth within its boundaries",
		"This process causes Jupiter to shrink by about 2 cm each year",
	}

	matrix, err := SignCorpus(context.Background(), s, texts)
	require.NoError(t, err)

	rows, cols := matrix.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 32, cols)

	// Row order must match input order: re-signing sequentially must match
	// the concurrently produced matrix row for row.
	for i, text := range texts {
		want, err := s.Sign(text)
		require.NoError(t, err)
		assert.Equal(t, want, matrix[i])
	}
}

func TestSignCorpus_CancellationPropagates(t *testing.T) {
	s, err := New(multiHashConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = SignCorpus(ctx, s, []string{"some reasonably long piece of text to shingle over"})
	assert.Error(t, err)
}
