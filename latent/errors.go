package latent

import "errors"

var (
	// ErrInvalidAspectRatio reports a malformed or non-positive "W:H" input.
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")

	// ErrUnknownModelType reports an unrecognized model family.
	ErrUnknownModelType = errors.New("unknown model type")

	// ErrBufferAllocation wraps backend failures while allocating the
	// latent buffer.
	ErrBufferAllocation = errors.New("latent buffer allocation failed")
)
