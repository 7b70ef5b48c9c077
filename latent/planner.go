package latent

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/BobsBlazed/Bobs-Latent-Optimizer/ml"
)

// VAEScaleFactor is the pixel-to-latent downsampling factor: a latent
// cell covers an 8x8 pixel block.
const VAEScaleFactor = 8

// Request describes one latent plan. MPSizeFloat selects the
// continuous area mode when non-zero; otherwise the MPSize preset is
// used (empty means DefaultMPSize). Zero UpscaleBy and BatchSize take
// the defaults 2.0 and 1.
type Request struct {
	AspectRatio string        `json:"aspect_ratio"`
	MPSize      MegapixelSize `json:"mp_size,omitempty"`
	MPSizeFloat float64       `json:"mp_size_float,omitempty"`
	UpscaleBy   float64       `json:"upscale_by"`
	ModelType   ModelType     `json:"model_type"`
	BatchSize   int           `json:"batch_size"`
}

// Result is a complete latent plan: the allocated buffer, the base
// dimensions it was sized for, and the tile grid for the upscaled
// output.
type Result struct {
	Latent ml.Tensor `json:"-"`

	Width    int `json:"width"`
	Height   int `json:"height"`
	Channels int `json:"channels"`

	TilePlan

	UpscaleBy float64 `json:"upscale_by"`
}

// Planner turns requests into allocated latent plans.
type Planner struct {
	backend  ml.Backend
	strategy TileStrategy
	dtype    ml.DType
}

type Option func(*Planner)

// WithTileStrategy overrides the default adaptive tiling policy.
func WithTileStrategy(s TileStrategy) Option {
	return func(p *Planner) {
		if s != nil {
			p.strategy = s
		}
	}
}

// WithDType sets the element type of allocated latent buffers.
func WithDType(dtype ml.DType) Option {
	return func(p *Planner) {
		p.dtype = dtype
	}
}

// NewPlanner creates a Planner allocating through b. Without options it
// plans adaptive tiles and float32 buffers.
func NewPlanner(b ml.Backend, opts ...Option) *Planner {
	p := &Planner{
		backend:  b,
		strategy: AdaptiveTiles{},
		dtype:    ml.DTypeF32,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Plan resolves the request into base dimensions, allocates the
// zero-filled latent buffer and plans the upscale tile grid. It either
// returns a complete Result or an error; no partial results.
func (p *Planner) Plan(req Request) (*Result, error) {
	ar, err := ParseAspectRatio(req.AspectRatio)
	if err != nil {
		return nil, err
	}

	model, err := ParseModelType(string(req.ModelType))
	if err != nil {
		return nil, err
	}

	upscaleBy := clampFloat(req.UpscaleBy, "upscale_by", 2.0, 1, 10)
	batch := clampInt(req.BatchSize, "batch_size", 1, 1, 64)

	width, height, channels, err := Resolve(ar, req.area(), model)
	if err != nil {
		return nil, err
	}

	latentW := width / VAEScaleFactor
	latentH := height / VAEScaleFactor

	tensor, err := p.backend.Zeros(p.dtype, batch, channels, latentH, latentW)
	if err != nil {
		return nil, fmt.Errorf("%w: shape [%d %d %d %d] for %s: %w", ErrBufferAllocation, batch, channels, latentH, latentW, model, err)
	}

	slog.Info("generated base latent",
		"model", model,
		"batch", batch,
		"channels", channels,
		"latent", fmt.Sprintf("%dx%d", latentW, latentH),
		"base", fmt.Sprintf("%dx%d", width, height))

	plan := p.strategy.Plan(width, height, upscaleBy)

	slog.Info("planned upscale tiling",
		"upscaled", fmt.Sprintf("%dx%d", plan.UpscaledWidth, plan.UpscaledHeight),
		"grid", fmt.Sprintf("%dx%d", plan.TilesX, plan.TilesY),
		"tiles", plan.Tiles(),
		"tile", fmt.Sprintf("%dx%d", plan.TileWidth, plan.TileHeight),
		"upscale_by", upscaleBy)

	return &Result{
		Latent:    tensor,
		Width:     width,
		Height:    height,
		Channels:  channels,
		TilePlan:  plan,
		UpscaleBy: upscaleBy,
	}, nil
}

// area resolves the request's target pixel area, applying the
// continuous-mode range clamp.
func (r Request) area() float64 {
	if r.MPSizeFloat != 0 {
		mp := clampFloat(r.MPSizeFloat, "mp_size_float", 1.0, 0.01, 4)
		return mp * BaseArea
	}

	size := r.MPSize
	if size == "" {
		size = DefaultMPSize
	}

	return float64(size.Area())
}

func clampFloat(v float64, key string, def, lo, hi float64) float64 {
	if v == 0 {
		return def
	}

	if v < lo || v > hi {
		clamped := math.Min(math.Max(v, lo), hi)
		slog.Warn("value out of range, clamping", key, v, "clamped", clamped)
		return clamped
	}

	return v
}

func clampInt(v int, key string, def, lo, hi int) int {
	if v == 0 {
		return def
	}

	if v < lo || v > hi {
		clamped := min(max(v, lo), hi)
		slog.Warn("value out of range, clamping", key, v, "clamped", clamped)
		return clamped
	}

	return v
}
