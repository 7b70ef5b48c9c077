package latent

import (
	"log/slog"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MegapixelSize is a discrete area preset. Presets map to common
// standard resolution areas rather than exact megapixel counts, e.g.
// "1" is the 1024x1024 area and "2" the 1920x1080 area.
type MegapixelSize string

const (
	// DefaultMPSize is the preset assumed when none is given.
	DefaultMPSize MegapixelSize = "1"

	// BaseArea is the pixel area of one megapixel unit, the 1024x1024
	// reference every other size is expressed against.
	BaseArea = 1024 * 1024

	// DefaultArea is the area used when a preset is not recognized.
	DefaultArea = BaseArea
)

type refSize struct {
	w, h int
}

var mpSizes = func() *orderedmap.OrderedMap[MegapixelSize, refSize] {
	m := orderedmap.New[MegapixelSize, refSize]()
	m.Set("0.25", refSize{512, 512})
	m.Set("0.5", refSize{768, 768})
	m.Set("1", refSize{1024, 1024})
	m.Set("1.25", refSize{1280, 1024})
	m.Set("1.5", refSize{1440, 1080})
	m.Set("1.75", refSize{1664, 1088})
	m.Set("2", refSize{1920, 1080})
	m.Set("2.5", refSize{1536, 1536})
	m.Set("3", refSize{1792, 1792})
	m.Set("4", refSize{2048, 2048})
	return m
}()

// Area returns the reference pixel area for the preset. Unrecognized
// presets fall back to DefaultArea with a warning rather than failing.
func (s MegapixelSize) Area() int {
	if ref, ok := mpSizes.Get(s); ok {
		return ref.w * ref.h
	}

	slog.Warn("unknown megapixel preset, using default area", "mp_size", string(s), "default", DefaultArea)
	return DefaultArea
}

// Reference returns the resolution whose area backs the preset.
func (s MegapixelSize) Reference() (width, height int) {
	if ref, ok := mpSizes.Get(s); ok {
		return ref.w, ref.h
	}

	return 1024, 1024
}

// MegapixelSizes returns the presets in option order, smallest first.
func MegapixelSizes() []MegapixelSize {
	sizes := make([]MegapixelSize, 0, mpSizes.Len())
	for pair := mpSizes.Oldest(); pair != nil; pair = pair.Next() {
		sizes = append(sizes, pair.Key)
	}

	return sizes
}
