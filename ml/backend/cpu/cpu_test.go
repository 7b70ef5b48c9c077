package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BobsBlazed/Bobs-Latent-Optimizer/ml"
)

func TestZeros(t *testing.T) {
	b := &Backend{}

	cases := []struct {
		name  string
		dtype ml.DType
		shape []int
		bytes int64
	}{
		{"f32", ml.DTypeF32, []int{1, 16, 128, 128}, 1048576},
		{"f16", ml.DTypeF16, []int{1, 16, 128, 128}, 524288},
		{"bf16", ml.DTypeBF16, []int{2, 4, 64, 64}, 65536},
		{"vector", ml.DTypeF32, []int{7}, 28},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			tn, err := b.Zeros(tt.dtype, tt.shape...)
			require.NoError(t, err)

			assert.Equal(t, tt.shape, tn.Shape())
			assert.Equal(t, tt.dtype, tn.DType())
			assert.Equal(t, tt.bytes, tn.NumBytes())

			for i, dim := range tt.shape {
				assert.Equal(t, dim, tn.Dim(i))
			}

			elems := 1
			for _, dim := range tt.shape {
				elems *= dim
			}

			f32s := tn.Floats()
			require.Len(t, f32s, elems)
			for i, v := range f32s {
				if v != 0 {
					t.Fatalf("expected zero at %d, got %f", i, v)
				}
			}
		})
	}
}

func TestZerosInvalidShape(t *testing.T) {
	b := &Backend{}

	for _, shape := range [][]int{
		{},
		{1, 2, 3, 4, 5},
		{0},
		{4, -1},
		{1, 0, 8, 8},
	} {
		if _, err := b.Zeros(ml.DTypeF32, shape...); err == nil {
			t.Errorf("expected error for shape %v", shape)
		}
	}
}

func TestRegistered(t *testing.T) {
	b, err := ml.NewBackend("cpu")
	require.NoError(t, err)
	require.Equal(t, "cpu", b.Name())
}
