package ml

import (
	"fmt"
	"strings"
)

// DType represents the element type of a latent buffer.
type DType int

const (
	DTypeF32 DType = iota
	DTypeF16
	DTypeBF16
)

// Size returns the width of one element in bytes.
func (t DType) Size() int {
	switch t {
	case DTypeF32:
		return 4
	case DTypeF16, DTypeBF16:
		return 2
	default:
		return 0
	}
}

func (t DType) String() string {
	switch t {
	case DTypeF32:
		return "f32"
	case DTypeF16:
		return "f16"
	case DTypeBF16:
		return "bf16"
	default:
		return "unknown"
	}
}

// ParseDType maps a type name to its DType. It accepts both the short
// and long spellings, e.g. "f16" and "float16".
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(s) {
	case "f32", "float32":
		return DTypeF32, nil
	case "f16", "float16", "half":
		return DTypeF16, nil
	case "bf16", "bfloat16":
		return DTypeBF16, nil
	default:
		return DTypeF32, fmt.Errorf("unsupported dtype %q", s)
	}
}
