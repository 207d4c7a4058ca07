package dimensions

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"offer-ranker/internal/scoring"
)

//go:embed presets.yaml
var presetsYAML []byte

type presetFile struct {
	Dimensions []scoring.Dimension `yaml:"dimensions"`
}

// Presets returns a fresh copy of the built-in dimension catalog: the default
// dimensions (active, in priority order) followed by the optional ones.
func Presets() ([]scoring.Dimension, error) {
	var file presetFile
	if err := yaml.Unmarshal(presetsYAML, &file); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	for _, d := range file.Dimensions {
		if err := Validate(d); err != nil {
			return nil, fmt.Errorf("preset %q: %w", d.ID, err)
		}
	}
	return file.Dimensions, nil
}

// MustPresets is Presets for callers that treat a broken embedded catalog as
// a programming error.
func MustPresets() []scoring.Dimension {
	dims, err := Presets()
	if err != nil {
		panic(err)
	}
	return dims
}
