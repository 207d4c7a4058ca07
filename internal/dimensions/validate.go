package dimensions

import (
	"fmt"
	"strings"

	"offer-ranker/internal/scoring"
)

// Validate checks the structural rules a dimension must satisfy before it is
// stored. Option scores are not checked; the scoring engine clamps them.
func Validate(d scoring.Dimension) error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, d.Kind)
	}
	if needsOptions(d.Kind) && len(d.Options) == 0 {
		return fmt.Errorf("%w: %s dimension needs at least one option", ErrInvalidInput, d.Kind)
	}
	seen := make(map[string]struct{}, len(d.Options))
	for _, opt := range d.Options {
		if strings.TrimSpace(opt.Value) == "" {
			return fmt.Errorf("%w: option value is required", ErrInvalidInput)
		}
		if _, ok := seen[opt.Value]; ok {
			return fmt.Errorf("%w: duplicate option value %q", ErrInvalidInput, opt.Value)
		}
		seen[opt.Value] = struct{}{}
	}
	return nil
}

func needsOptions(k scoring.Kind) bool {
	return k == scoring.KindSelect || k == scoring.KindLocation
}
