// Package envconfig reads planner configuration from the environment.
//
// Values are read on each call so tests can override them with t.Setenv.
// Surrounding quotes and whitespace are trimmed from every variable.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Var returns an environment variable stripped of quotes and whitespace.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// LogLevel returns the log level configured via LATENT_DEBUG.
// Values: 0/false = INFO (default), 1/true = DEBUG, 2 = TRACE.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("LATENT_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// TilePolicy returns the tiling policy configured via LATENT_TILE_POLICY.
// Recognized values are "adaptive" and "grid"; anything else falls back
// to adaptive with a warning.
func TilePolicy() string {
	switch s := strings.ToLower(Var("LATENT_TILE_POLICY")); s {
	case "":
		return "adaptive"
	case "adaptive", "grid":
		return s
	default:
		slog.Warn("invalid tile policy, using default", "LATENT_TILE_POLICY", s, "default", "adaptive")
		return "adaptive"
	}
}

// Backend returns the buffer backend name configured via LATENT_BACKEND.
func Backend() string {
	if s := Var("LATENT_BACKEND"); s != "" {
		return s
	}

	return "cpu"
}

// DType returns the buffer element type configured via LATENT_DTYPE.
// Recognized values are f32, f16 and bf16.
func DType() string {
	if s := Var("LATENT_DTYPE"); s != "" {
		return strings.ToLower(s)
	}

	return "f32"
}

// Uint returns a function that reads key as an unsigned integer,
// falling back to defaultValue when unset or malformed.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}

		return defaultValue
	}
}

// MaxTileDim is the largest tile edge the adaptive policy will emit,
// configurable via LATENT_MAX_TILE_DIM.
var MaxTileDim = Uint("LATENT_MAX_TILE_DIM", 2048)

// EnvVar describes a recognized environment variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every recognized variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"LATENT_DEBUG":        {"LATENT_DEBUG", LogLevel(), "Show additional debug information (e.g. LATENT_DEBUG=1)"},
		"LATENT_TILE_POLICY":  {"LATENT_TILE_POLICY", TilePolicy(), "Tiling policy for upscale planning, adaptive or grid (default adaptive)"},
		"LATENT_MAX_TILE_DIM": {"LATENT_MAX_TILE_DIM", MaxTileDim(), "Largest tile edge emitted by the adaptive policy (default 2048)"},
		"LATENT_BACKEND":      {"LATENT_BACKEND", Backend(), "Buffer backend used for latent allocation (default cpu)"},
		"LATENT_DTYPE":        {"LATENT_DTYPE", DType(), "Element type for latent buffers, f32, f16 or bf16 (default f32)"},
	}
}

// Values flattens AsMap into printable strings.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}

	return vals
}
