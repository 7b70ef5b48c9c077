package ml

// Tensor is a zero-filled multi-dimensional buffer handed to the host
// for downstream use. Implementations are read-only from the planner's
// point of view.
type Tensor interface {
	Dim(n int) int

	Shape() []int
	DType() DType

	// NumBytes reports the allocated size of the underlying storage.
	NumBytes() int64

	// Floats returns the buffer contents widened to float32.
	Floats() []float32
}
