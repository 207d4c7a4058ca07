package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"offer-ranker/internal/dimensions"
	"offer-ranker/internal/scoring"
)

// Snapshot is the on-disk shape read by the CLI.
type Snapshot struct {
	Dimensions []scoring.Dimension `json:"dimensions" yaml:"dimensions"`
	Offers     []scoring.Offer     `json:"offers" yaml:"offers"`
}

// LoadSnapshot reads a snapshot file, decoding by extension. Missing
// dimensions fall back to the presets.
func LoadSnapshot(path string) (snap Snapshot, err error) {
	if strings.TrimSpace(path) == "" {
		err = errors.New("snapshot file is required (--file)")
		return snap, err
	}

	var raw []byte
	raw, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s", path)
		return snap, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &snap)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &snap)
	default:
		err = errors.Errorf("unsupported snapshot extension %q", filepath.Ext(path))
		return snap, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to decode %s", path)
		return snap, err
	}

	if len(snap.Dimensions) == 0 {
		snap.Dimensions, err = dimensions.Presets()
		if err != nil {
			err = errors.Wrap(err, "failed to load presets")
			return snap, err
		}
	}
	for _, d := range snap.Dimensions {
		if vErr := dimensions.Validate(d); vErr != nil {
			err = errors.Wrapf(vErr, "dimension %q", d.ID)
			return snap, err
		}
	}
	for i := range snap.Offers {
		if snap.Offers[i].ID == "" {
			snap.Offers[i].ID = "offer-" + strconv.Itoa(i+1)
		}
	}
	return snap, err
}

