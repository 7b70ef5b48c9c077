// Package cpu provides the default latent buffer backend. Float32
// buffers are dense tensors; half-precision buffers are raw zeroed
// storage widened on demand.
package cpu

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/d4l3k/go-bfloat16"
	"github.com/pdevine/tensor"
	"github.com/x448/float16"

	"github.com/BobsBlazed/Bobs-Latent-Optimizer/ml"
)

func init() {
	ml.RegisterBackend("cpu", New)
}

type Backend struct{}

func New() (ml.Backend, error) {
	return &Backend{}, nil
}

func (b *Backend) Name() string {
	return "cpu"
}

func (b *Backend) Zeros(dtype ml.DType, shape ...int) (ml.Tensor, error) {
	if len(shape) < 1 {
		return nil, fmt.Errorf("invalid shape: no dimensions")
	} else if len(shape) > 4 {
		return nil, fmt.Errorf("invalid shape %v: unsupported number of dimensions", shape)
	}

	elems := int64(1)
	for _, dim := range shape {
		if dim < 1 {
			return nil, fmt.Errorf("invalid shape %v: dimensions must be positive", shape)
		}

		elems *= int64(dim)
	}

	t := &Tensor{shape: slices.Clone(shape), dtype: dtype}
	switch dtype {
	case ml.DTypeF32:
		t.f32 = tensor.New(tensor.Of(tensor.Float32), tensor.WithShape(shape...))
	case ml.DTypeF16, ml.DTypeBF16:
		t.raw = make([]byte, elems*int64(dtype.Size()))
	default:
		return nil, fmt.Errorf("unsupported dtype %s", dtype)
	}

	return t, nil
}

// Tensor is a host memory buffer. The float32 form is backed by a dense
// tensor, the half-precision forms by little-endian halfword storage.
type Tensor struct {
	shape []int
	dtype ml.DType

	f32 *tensor.Dense
	raw []byte
}

func (t *Tensor) Dim(n int) int {
	return t.shape[n]
}

func (t *Tensor) Shape() []int {
	return slices.Clone(t.shape)
}

func (t *Tensor) DType() ml.DType {
	return t.dtype
}

func (t *Tensor) NumBytes() int64 {
	elems := int64(1)
	for _, dim := range t.shape {
		elems *= int64(dim)
	}

	return elems * int64(t.dtype.Size())
}

// Floats returns a copy of the buffer contents widened to float32.
func (t *Tensor) Floats() []float32 {
	switch t.dtype {
	case ml.DTypeF32:
		return slices.Clone(t.f32.Data().([]float32))
	case ml.DTypeF16:
		f32s := make([]float32, len(t.raw)/2)
		for i := range f32s {
			f32s[i] = float16.Frombits(binary.LittleEndian.Uint16(t.raw[i*2:])).Float32()
		}

		return f32s
	case ml.DTypeBF16:
		return bfloat16.DecodeFloat32(t.raw)
	default:
		return nil
	}
}
