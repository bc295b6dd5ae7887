// Package config holds the validated configuration structs shared by the
// signer and the index. Struct tags are checked with go-playground/validator
// before any shingling, hashing, or index mutation begins, so configuration
// errors are always raised pre-work, never mid-mutation.
package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/systemshift/neardup/pkg/errs"
	"github.com/systemshift/neardup/pkg/shingle"
)

var validate = validator.New()

// Method selects the minhash signing algorithm.
type Method string

const (
	MultiHash       Method = "multi_hash"
	KSmallestValues Method = "k_smallest_values"
)

// SignConfig is the validated configuration for a single document signer.
type SignConfig struct {
	K            int           `validate:"required,min=1"`
	Mode         shingle.Mode  `validate:"required,oneof=character term"`
	Permutations int           `validate:"required,min=1"`
	HashBits     int           `validate:"required,oneof=32 64 128"`
	Method       Method        `validate:"required,oneof=multi_hash k_smallest_values"`
	Seed         int64
}

// Validate checks c's struct tags and translates the first failure into the
// matching neardup sentinel error (errs.ErrBadHashBits, errs.ErrBadMethod,
// errs.ErrBadMode), falling back to a wrapped generic error for anything
// else (e.g. K or Permutations out of range).
func (c SignConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return translate(err)
	}
	return nil
}

// IndexConfig is the validated configuration for a banded index.
type IndexConfig struct {
	Permutations   int  `validate:"required,min=1"`
	Bands          int  `validate:"required,min=1"`
	KeepSignatures bool
}

// Validate checks c's struct tags and that Bands evenly divides
// Permutations, returning errs.ErrBadBandCount if not.
func (c IndexConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return translate(err)
	}
	if c.Permutations%c.Bands != 0 {
		return errors.Wrapf(errs.ErrBadBandCount, "bands=%d does not divide permutations=%d", c.Bands, c.Permutations)
	}
	return nil
}

// translate maps the first validator.FieldError to the neardup sentinel
// that corresponds to that field, so callers can match with errors.Is
// instead of parsing validator messages.
func translate(err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return errors.Wrap(err, "neardup: invalid configuration")
	}
	fe := fieldErrs[0]
	switch fe.Field() {
	case "HashBits":
		return errors.Wrapf(errs.ErrBadHashBits, "field %s failed %s", fe.Field(), fe.Tag())
	case "Method":
		return errors.Wrapf(errs.ErrBadMethod, "field %s failed %s", fe.Field(), fe.Tag())
	case "Mode":
		return errors.Wrapf(errs.ErrBadMode, "field %s failed %s", fe.Field(), fe.Tag())
	case "Bands":
		return errors.Wrapf(errs.ErrBadBandCount, "field %s failed %s", fe.Field(), fe.Tag())
	default:
		return errors.Wrapf(err, "neardup: invalid configuration field %s", fe.Field())
	}
}
