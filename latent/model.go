package latent

import (
	"fmt"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ModelType selects the sizing rules and latent channel count for a
// model family.
type ModelType string

const (
	ModelFLUX ModelType = "FLUX"
	ModelSDXL ModelType = "SDXL"
	ModelSD3  ModelType = "SD3"
	ModelQWEN ModelType = "QWEN"
	ModelWAN  ModelType = "WAN"
)

// Profile holds the per-family dimension constraints.
type Profile struct {
	// RoundTo is the pixel multiple both dimensions snap to.
	RoundTo int

	// Channels is the latent channel count.
	Channels int

	// RenormalizeArea rescales the rounded dimensions back toward the
	// one megapixel reference area, then rounds again.
	RenormalizeArea bool
}

var profiles = map[ModelType]Profile{
	ModelFLUX: {RoundTo: 64, Channels: 16},
	ModelSDXL: {RoundTo: 64, Channels: 4},
	ModelSD3:  {RoundTo: 64, Channels: 4, RenormalizeArea: true},
	ModelQWEN: {RoundTo: 28, Channels: 4},
	ModelWAN:  {RoundTo: 64, Channels: 4},
}

// ModelTypes returns the supported model families in declaration order.
func ModelTypes() []ModelType {
	return []ModelType{ModelFLUX, ModelSDXL, ModelSD3, ModelQWEN, ModelWAN}
}

// Profile returns the sizing profile for m. Only the families returned
// by ModelTypes have profiles; validate inputs with ParseModelType.
func (m ModelType) Profile() Profile {
	return profiles[m]
}

// ParseModelType validates a model family name, ignoring case and
// surrounding whitespace. Unknown names are an error; when the input is
// close to a known family the error suggests it.
func ParseModelType(s string) (ModelType, error) {
	name := ModelType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := profiles[name]; ok {
		return name, nil
	}

	var nearest ModelType
	score := math.MaxInt
	for _, m := range ModelTypes() {
		if d := levenshtein.ComputeDistance(string(name), string(m)); d < score {
			score = d
			nearest = m
		}
	}

	if score <= 2 {
		return "", fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownModelType, s, nearest)
	}

	return "", fmt.Errorf("%w %q", ErrUnknownModelType, s)
}
