package lsh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systemshift/neardup/pkg/errs"
	"github.com/systemshift/neardup/pkg/hashfn"
	"github.com/systemshift/neardup/pkg/minhash"
)

func mkSig(vals ...int64) minhash.Signature {
	sig := make(minhash.Signature, len(vals))
	for i, v := range vals {
		sig[i] = hashfn.Value{Lo: uint64(v), Width: hashfn.Bits64}
	}
	return sig
}

// fixture builds a 3-document, P=4, B=2 index where label 1 and 2 share a
// bucket via band 0, and label 1 and 3 share a bucket via band 1.
func fixture(t *testing.T, keepSignatures bool) *Index[int] {
	t.Helper()
	matrix := minhash.Matrix{
		mkSig(1, 2, 3, 4),
		mkSig(1, 2, 30, 40),
		mkSig(100, 200, 3, 4),
	}
	idx, err := FromMatrix[int](matrix, []int{1, 2, 3}, 2, keepSignatures)
	require.NoError(t, err)
	return idx
}

func TestNew_BandCountMustDivide(t *testing.T) {
	_, err := New[int](10, 3, false)
	assert.ErrorIs(t, err, errs.ErrBadBandCount)
}

func TestInvariants_I1I2I3(t *testing.T) {
	idx := fixture(t, false)
	idx.assertInvariants(t)
}

func (idx *Index[L]) assertInvariants(t *testing.T) {
	t.Helper()
	// I2: every present label has exactly `bands` bucket entries.
	for label, buckets := range idx.labelToBuckets {
		assert.Lenf(t, buckets, idx.bands, "label %v", label)
	}
	// I1 + I3: multiplicities agree both ways, and every bucket key is
	// non-empty.
	wantMultiplicity := make(map[[2]any]int) // [label, bucket] -> count
	for label, buckets := range idx.labelToBuckets {
		for _, b := range buckets {
			wantMultiplicity[[2]any{label, b}]++
		}
	}
	for bucket, labels := range idx.bucketToLabels {
		assert.NotEmpty(t, labels, "I3: bucket %d present with empty label list", bucket)
		got := make(map[any]int)
		for _, l := range labels {
			got[l]++
		}
		for l, n := range got {
			assert.Equal(t, wantMultiplicity[[2]any{l, bucket}], n)
		}
	}
}

func TestUpdate_AllOrNothingOnLabelExists(t *testing.T) {
	idx := fixture(t, false)
	before := idx.Snapshot()

	err := idx.Update(minhash.Matrix{mkSig(9, 9, 9, 9)}, []int{2}) // 2 already present
	assert.ErrorIs(t, err, errs.ErrLabelExists)

	after := idx.Snapshot()
	assert.Equal(t, before.LabelToBuckets, after.LabelToBuckets, "rejected update must not mutate state")
	assert.Equal(t, before.BucketToLabels, after.BucketToLabels)
}

func TestUpdate_ShapeMismatch(t *testing.T) {
	idx := fixture(t, false)
	err := idx.Update(minhash.Matrix{mkSig(1, 2, 3)}, []int{4}) // width 3 != 4
	assert.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestRemove_UnknownLabel(t *testing.T) {
	idx := fixture(t, false)
	err := idx.Remove(999)
	assert.ErrorIs(t, err, errs.ErrUnknownLabel)
}

func TestRemove_RoundTrip(t *testing.T) {
	// P5: insert(L) then remove(L) restores prior maps exactly.
	idx := fixture(t, false)
	before := idx.Snapshot()

	require.NoError(t, idx.Update(minhash.Matrix{mkSig(5, 5, 5, 5)}, []int{4}))
	require.NoError(t, idx.Remove(4))

	after := idx.Snapshot()
	assert.Equal(t, before.LabelToBuckets, after.LabelToBuckets)
	assert.Equal(t, before.BucketToLabels, after.BucketToLabels)
	assert.Equal(t, before.LabelOrder, after.LabelOrder)
}

func TestContains(t *testing.T) {
	idx := fixture(t, false)
	assert.ElementsMatch(t, []int{1, 2, 3}, idx.Contains())
	require.NoError(t, idx.Remove(2))
	assert.ElementsMatch(t, []int{1, 3}, idx.Contains())
}

func TestInvariants_HoldAfterMutationSequence(t *testing.T) {
	idx := fixture(t, false)
	require.NoError(t, idx.Update(minhash.Matrix{mkSig(7, 7, 3, 4)}, []int{4}))
	idx.assertInvariants(t)
	require.NoError(t, idx.Remove(1))
	idx.assertInvariants(t)
	require.NoError(t, idx.Update(minhash.Matrix{mkSig(1, 2, 9, 9)}, []int{5}))
	idx.assertInvariants(t)
}
