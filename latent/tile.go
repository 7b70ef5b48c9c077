package latent

import (
	"image"
	"log/slog"
)

// DefaultMaxTileDim is the largest tile edge the adaptive policy emits
// before adding tiles along an axis.
const DefaultMaxTileDim = 2048

// TilePlan describes how the upscaled output is split for tiled
// processing. Tiles are planned in pixel space on the final upscaled
// image, not on the latent.
type TilePlan struct {
	TileWidth      int `json:"tile_width"`
	TileHeight     int `json:"tile_height"`
	TilesX         int `json:"tiles_x"`
	TilesY         int `json:"tiles_y"`
	UpscaledWidth  int `json:"upscaled_width"`
	UpscaledHeight int `json:"upscaled_height"`
}

// Tiles returns the total tile count.
func (p TilePlan) Tiles() int {
	return p.TilesX * p.TilesY
}

// Regions returns the tile rectangles in row-major order, clipped to
// the upscaled canvas. Edge tiles may be smaller than TileWidth x
// TileHeight.
func (p TilePlan) Regions() []image.Rectangle {
	canvas := image.Rect(0, 0, p.UpscaledWidth, p.UpscaledHeight)

	regions := make([]image.Rectangle, 0, p.Tiles())
	for y := 0; y < p.TilesY; y++ {
		for x := 0; x < p.TilesX; x++ {
			r := image.Rect(x*p.TileWidth, y*p.TileHeight, (x+1)*p.TileWidth, (y+1)*p.TileHeight)
			regions = append(regions, r.Intersect(canvas))
		}
	}

	return regions
}

// TileStrategy plans the tile grid for the upscaled output.
type TileStrategy interface {
	Plan(width, height int, upscaleBy float64) TilePlan
}

// AdaptiveTiles aims for a 2x2 grid and adds tiles along an axis
// whenever a tile edge would exceed MaxTileDim.
type AdaptiveTiles struct {
	// MaxTileDim bounds each tile edge; zero means DefaultMaxTileDim.
	MaxTileDim int
}

func (s AdaptiveTiles) Plan(width, height int, upscaleBy float64) TilePlan {
	maxDim := s.MaxTileDim
	if maxDim <= 0 {
		maxDim = DefaultMaxTileDim
	}

	upscaledW := int(float64(width) * upscaleBy)
	upscaledH := int(float64(height) * upscaleBy)

	tilesX, tilesY := 2, 2
	if ceilDiv(upscaledW, tilesX) > maxDim {
		tilesX = ceilDiv(upscaledW, maxDim)
	}

	if ceilDiv(upscaledH, tilesY) > maxDim {
		tilesY = ceilDiv(upscaledH, maxDim)
	}

	tilesX = max(tilesX, 1)
	tilesY = max(tilesY, 1)

	return clampTiles(TilePlan{
		TileWidth:      ceilDiv(upscaledW, tilesX),
		TileHeight:     ceilDiv(upscaledH, tilesY),
		TilesX:         tilesX,
		TilesY:         tilesY,
		UpscaledWidth:  upscaledW,
		UpscaledHeight: upscaledH,
	})
}

// FixedGrid is the legacy policy: a 2x2 grid with floor-divided tile
// edges, regardless of how large the tiles get.
type FixedGrid struct{}

func (FixedGrid) Plan(width, height int, upscaleBy float64) TilePlan {
	upscaledW := int(float64(width) * upscaleBy)
	upscaledH := int(float64(height) * upscaleBy)

	return clampTiles(TilePlan{
		TileWidth:      upscaledW / 2,
		TileHeight:     upscaledH / 2,
		TilesX:         2,
		TilesY:         2,
		UpscaledWidth:  upscaledW,
		UpscaledHeight: upscaledH,
	})
}

func clampTiles(p TilePlan) TilePlan {
	if p.TileWidth < 1 {
		slog.Warn("clamping tile width to minimum", "tile_width", p.TileWidth, "min", 1)
		p.TileWidth = 1
	}

	if p.TileHeight < 1 {
		slog.Warn("clamping tile height to minimum", "tile_height", p.TileHeight, "min", 1)
		p.TileHeight = 1
	}

	return p
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
