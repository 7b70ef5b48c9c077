package ml

import (
	"fmt"
	"slices"
	"strings"
)

// Backend allocates latent buffers. Implementations register themselves
// at init time via RegisterBackend.
type Backend interface {
	Name() string

	// Zeros allocates a zero-filled tensor. Shapes must have between one
	// and four dimensions, all positive; violations and allocation
	// failures are reported as errors.
	Zeros(dtype DType, shape ...int) (Tensor, error)
}

var backends = make(map[string]func() (Backend, error))

// RegisterBackend registers a backend factory function.
func RegisterBackend(name string, f func() (Backend, error)) {
	if _, ok := backends[name]; ok {
		panic("backend: backend already registered")
	}

	backends[name] = f
}

// NewBackend creates a new backend instance by name.
func NewBackend(name string) (Backend, error) {
	if f, ok := backends[name]; ok {
		return f()
	}

	return nil, fmt.Errorf("unsupported backend %q (registered: %s)", name, strings.Join(Backends(), ", "))
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}
