// Package hashfn wraps the non-cryptographic hash families used by the
// signer (MurmurHash3, per spec) and the banded index (xxhash, for
// order-sensitive bucket-id hashing). Neither family is cryptographic; both
// must be deterministic for a given seed so that signatures and bucket ids
// are reproducible across runs and processes of this implementation.
package hashfn

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/systemshift/neardup/pkg/errs"

	"github.com/pkg/errors"
)

// Bits is the hash codomain width: 32, 64, or 128.
type Bits int

const (
	Bits32  Bits = 32
	Bits64  Bits = 64
	Bits128 Bits = 128
)

// Value is a single MurmurHash3 output, wide enough to hold any of the
// three supported bit widths. Comparison dispatches on Width:
//
//   - 32/64-bit values compare by signed ordering, matching mmh3's own
//     default (signed=True) for its 32- and 64-bit hash functions.
//   - 128-bit values compare by unsigned ordering, matching mmh3's default
//     (signed=False) for hash128.
//
// Lo always holds the low-order word; Hi is only meaningful at Bits128.
type Value struct {
	Hi    uint64
	Lo    uint64
	Width Bits
}

// Less reports whether v sorts strictly before o under the ordering rule
// for their (shared) width.
func (v Value) Less(o Value) bool {
	switch v.Width {
	case Bits32:
		return int32(uint32(v.Lo)) < int32(uint32(o.Lo))
	case Bits64:
		return int64(v.Lo) < int64(o.Lo)
	default: // Bits128
		if v.Hi != o.Hi {
			return v.Hi < o.Hi
		}
		return v.Lo < o.Lo
	}
}

// Equal reports bitwise equality (width-independent: values of different
// widths are never equal).
func (v Value) Equal(o Value) bool {
	return v.Width == o.Width && v.Hi == o.Hi && v.Lo == o.Lo
}

// Bytes returns a width-stable big-endian encoding of v, used when folding
// a band of values into a single bucket id.
func (v Value) Bytes() []byte {
	switch v.Width {
	case Bits32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(v.Lo))
		return b[:]
	case Bits64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], v.Lo)
		return b[:]
	default: // Bits128
		var b [16]byte
		binary.BigEndian.PutUint64(b[0:8], v.Hi)
		binary.BigEndian.PutUint64(b[8:16], v.Lo)
		return b[:]
	}
}

// Hash computes the MurmurHash3 value of data under seed at the requested
// width. The 64-bit case uses the x64_128 variant and keeps only its first
// 64-bit half, per spec: "x64_128 taking the low 64 bits for 64-bit mode".
func Hash(bits Bits, seed uint32, data []byte) (Value, error) {
	switch bits {
	case Bits32:
		return Value{Lo: uint64(murmur3.Sum32WithSeed(data, seed)), Width: Bits32}, nil
	case Bits64:
		h1, _ := murmur3.Sum128WithSeed(data, seed)
		return Value{Lo: h1, Width: Bits64}, nil
	case Bits128:
		h1, h2 := murmur3.Sum128WithSeed(data, seed)
		return Value{Hi: h1, Lo: h2, Width: Bits128}, nil
	default:
		return Value{}, errors.Wrapf(errs.ErrBadHashBits, "got %d", bits)
	}
}

// BucketID folds a band of signature values into a single order-sensitive
// bucket identifier via xxhash64. Band contents in a different order, or
// with different values, must (with overwhelming probability) produce a
// different id; identical contents in identical order always produce the
// same id, across runs and processes of this implementation. Portability
// of bucket ids across other implementations is not required by the spec.
func BucketID(band []Value) uint64 {
	h := xxhash.New()
	for _, v := range band {
		_, _ = h.Write(v.Bytes())
	}
	return h.Sum64()
}
