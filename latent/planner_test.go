package latent

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BobsBlazed/Bobs-Latent-Optimizer/ml"
	_ "github.com/BobsBlazed/Bobs-Latent-Optimizer/ml/backend/cpu"
)

func newTestPlanner(t *testing.T, opts ...Option) *Planner {
	t.Helper()

	backend, err := ml.NewBackend("cpu")
	require.NoError(t, err)

	return NewPlanner(backend, opts...)
}

func TestPlan(t *testing.T) {
	cases := []struct {
		name    string
		req     Request
		width   int
		height  int
		shape   []int
		tileW   int
		tileH   int
		tiles   int
		upscale float64
	}{
		{
			name:  "flux square preset",
			req:   Request{AspectRatio: "1:1", MPSize: "1", UpscaleBy: 2, ModelType: ModelFLUX, BatchSize: 1},
			width: 1024, height: 1024,
			shape: []int{1, 16, 128, 128},
			tileW: 1024, tileH: 1024, tiles: 4,
			upscale: 2,
		},
		{
			name:  "sdxl wide preset",
			req:   Request{AspectRatio: "16:9", MPSize: "2", UpscaleBy: 2, ModelType: ModelSDXL, BatchSize: 1},
			width: 1920, height: 1088,
			shape: []int{1, 4, 136, 240},
			tileW: 1920, tileH: 1088, tiles: 4,
			upscale: 2,
		},
		{
			name:  "sd3 continuous batch",
			req:   Request{AspectRatio: "1:1", MPSizeFloat: 1.0, UpscaleBy: 2, ModelType: ModelSD3, BatchSize: 2},
			width: 1024, height: 1024,
			shape: []int{2, 4, 128, 128},
			tileW: 1024, tileH: 1024, tiles: 4,
			upscale: 2,
		},
		{
			name:  "qwen rounds to 28",
			req:   Request{AspectRatio: "1:1", MPSize: "1", UpscaleBy: 2, ModelType: ModelQWEN, BatchSize: 1},
			width: 1036, height: 1036,
			shape: []int{1, 4, 129, 129},
			tileW: 1036, tileH: 1036, tiles: 4,
			upscale: 2,
		},
		{
			name:  "unknown preset falls back to default area",
			req:   Request{AspectRatio: "1:1", MPSize: "99", UpscaleBy: 2, ModelType: ModelFLUX, BatchSize: 1},
			width: 1024, height: 1024,
			shape: []int{1, 16, 128, 128},
			tileW: 1024, tileH: 1024, tiles: 4,
			upscale: 2,
		},
		{
			name:  "zero values take defaults",
			req:   Request{AspectRatio: "1:1", ModelType: "flux"},
			width: 1024, height: 1024,
			shape: []int{1, 16, 128, 128},
			tileW: 1024, tileH: 1024, tiles: 4,
			upscale: 2,
		},
		{
			name:  "out of range area and upscale clamp",
			req:   Request{AspectRatio: "1:1", MPSizeFloat: 9.9, UpscaleBy: 99, ModelType: ModelFLUX, BatchSize: 1},
			width: 2048, height: 2048,
			shape: []int{1, 16, 256, 256},
			tileW: 2048, tileH: 2048, tiles: 100,
			upscale: 10,
		},
		{
			name:  "out of range batch clamps",
			req:   Request{AspectRatio: "1:1", MPSize: "0.25", UpscaleBy: 2, ModelType: ModelFLUX, BatchSize: 128},
			width: 512, height: 512,
			shape: []int{64, 16, 64, 64},
			tileW: 512, tileH: 512, tiles: 4,
			upscale: 2,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestPlanner(t).Plan(tt.req)
			require.NoError(t, err)
			require.NotNil(t, result.Latent)

			assert.Equal(t, tt.width, result.Width)
			assert.Equal(t, tt.height, result.Height)
			assert.Equal(t, tt.shape, result.Latent.Shape())
			assert.Equal(t, tt.shape[1], result.Channels)
			assert.Equal(t, tt.tileW, result.TileWidth)
			assert.Equal(t, tt.tileH, result.TileHeight)
			assert.Equal(t, tt.tiles, result.Tiles())
			assert.Equal(t, tt.upscale, result.UpscaleBy)
			assert.Equal(t, ml.DTypeF32, result.Latent.DType())
		})
	}
}

func TestPlanErrors(t *testing.T) {
	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"malformed aspect ratio", Request{AspectRatio: "abc", MPSize: "1", ModelType: ModelFLUX}, ErrInvalidAspectRatio},
		{"zero height ratio", Request{AspectRatio: "1:0", MPSize: "1", ModelType: ModelFLUX}, ErrInvalidAspectRatio},
		{"unknown model", Request{AspectRatio: "1:1", MPSize: "1", ModelType: "SD9000"}, ErrUnknownModelType},
		{"empty model", Request{AspectRatio: "1:1", MPSize: "1"}, ErrUnknownModelType},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestPlanner(t).Plan(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Nil(t, result)
		})
	}
}

type failBackend struct{}

func (failBackend) Name() string { return "fail" }

func (failBackend) Zeros(dtype ml.DType, shape ...int) (ml.Tensor, error) {
	return nil, errors.New("out of memory")
}

func TestPlanAllocationFailure(t *testing.T) {
	p := NewPlanner(failBackend{})

	result, err := p.Plan(Request{AspectRatio: "1:1", MPSize: "1", ModelType: ModelFLUX})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBufferAllocation), "got %v", err)
	assert.ErrorContains(t, err, "out of memory")
	assert.Nil(t, result)
}

func TestPlanTileStrategyOption(t *testing.T) {
	req := Request{AspectRatio: "1:1", MPSize: "1", UpscaleBy: 5, ModelType: ModelFLUX, BatchSize: 1}

	adaptive, err := newTestPlanner(t).Plan(req)
	require.NoError(t, err)

	fixed, err := newTestPlanner(t, WithTileStrategy(FixedGrid{})).Plan(req)
	require.NoError(t, err)

	assert.Equal(t, 1707, adaptive.TileWidth)
	assert.Equal(t, 9, adaptive.Tiles())

	assert.Equal(t, 2560, fixed.TileWidth)
	assert.Equal(t, 4, fixed.Tiles())
}

func TestPlanDTypeOption(t *testing.T) {
	p := newTestPlanner(t, WithDType(ml.DTypeF16))

	result, err := p.Plan(Request{AspectRatio: "1:1", MPSize: "1", ModelType: ModelFLUX})
	require.NoError(t, err)

	assert.Equal(t, ml.DTypeF16, result.Latent.DType())
	assert.Equal(t, int64(524288), result.Latent.NumBytes())
}

func TestResultJSON(t *testing.T) {
	result, err := newTestPlanner(t).Plan(Request{AspectRatio: "1:1", MPSize: "1", UpscaleBy: 2, ModelType: ModelFLUX, BatchSize: 1})
	require.NoError(t, err)

	b, err := json.Marshal(result)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, float64(1024), m["width"])
	assert.Equal(t, float64(1024), m["tile_width"])
	assert.Equal(t, float64(2048), m["upscaled_width"])
	assert.Equal(t, float64(2), m["upscale_by"])
	assert.NotContains(t, m, "Latent")
}
