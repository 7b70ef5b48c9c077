package latent

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// MinDimension is the smallest base pixel dimension ever produced.
// Clamping to it can break multiple-of-RoundTo alignment for extreme
// aspect ratios; generation still works, quality may not.
const MinDimension = 64

// AspectRatio is a parsed "W:H" shape constraint.
type AspectRatio struct {
	W, H int
}

// ParseAspectRatio parses a "W:H" string such as "1:1" or "16:9". Both
// components must be positive integers.
func ParseAspectRatio(s string) (AspectRatio, error) {
	w, h, ok := strings.Cut(s, ":")
	if !ok {
		return AspectRatio{}, fmt.Errorf("%w %q: expected \"W:H\", e.g. \"1:1\" or \"16:9\"", ErrInvalidAspectRatio, s)
	}

	rw, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return AspectRatio{}, fmt.Errorf("%w %q: width is not an integer", ErrInvalidAspectRatio, s)
	}

	rh, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return AspectRatio{}, fmt.Errorf("%w %q: height is not an integer", ErrInvalidAspectRatio, s)
	}

	if rw <= 0 || rh <= 0 {
		return AspectRatio{}, fmt.Errorf("%w %q: components must be positive", ErrInvalidAspectRatio, s)
	}

	return AspectRatio{W: rw, H: rh}, nil
}

// Ratio returns width over height.
func (ar AspectRatio) Ratio() float64 {
	return float64(ar.W) / float64(ar.H)
}

func (ar AspectRatio) String() string {
	return fmt.Sprintf("%d:%d", ar.W, ar.H)
}

// roundToMultiple rounds v to the nearest multiple of m, halves away
// from zero. Non-positive m returns v truncated.
func roundToMultiple(v float64, m int) int {
	if m <= 0 {
		return int(v)
	}

	return int(math.Round(v/float64(m)) * float64(m))
}

// Resolve computes model-legal base pixel dimensions for an aspect
// ratio and a target area, and returns them with the family's latent
// channel count.
//
// The ideal dimensions satisfy w*h = area and w/h = ratio exactly; both
// are then snapped to the family's rounding multiple. Families with
// RenormalizeArea set additionally rescale toward BaseArea and snap
// again. Dimensions never drop below MinDimension.
func Resolve(ar AspectRatio, area float64, model ModelType) (width, height, channels int, err error) {
	model, err = ParseModelType(string(model))
	if err != nil {
		return 0, 0, 0, err
	}

	profile := model.Profile()
	ratio := ar.Ratio()

	initialW := math.Sqrt(area * ratio)
	initialH := initialW / ratio

	width = roundToMultiple(initialW, profile.RoundTo)
	height = roundToMultiple(initialH, profile.RoundTo)

	if profile.RenormalizeArea {
		if current := width * height; current > 0 {
			scale := math.Sqrt(BaseArea / float64(current))
			width = roundToMultiple(math.Trunc(float64(width)*scale), profile.RoundTo)
			height = roundToMultiple(math.Trunc(float64(height)*scale), profile.RoundTo)
		} else {
			slog.Warn("base dimensions were zero after rounding, skipping area renormalization", "model", model)
		}
	}

	if width < MinDimension {
		slog.Warn("clamping base width to minimum", "width", width, "min", MinDimension)
		width = MinDimension
	}

	if height < MinDimension {
		slog.Warn("clamping base height to minimum", "height", height, "min", MinDimension)
		height = MinDimension
	}

	return width, height, profile.Channels, nil
}
