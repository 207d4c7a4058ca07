package dimensions

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"offer-ranker/internal/scoring"
)

const customIDPrefix = "custom_"

// Patch holds the editable fields of a dimension. Nil fields are left as is.
type Patch struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Category    *scoring.Category `json:"category,omitempty"`
	IsPenalty   *bool             `json:"isPenalty,omitempty"`
	Active      *bool             `json:"active,omitempty"`
	Options     []scoring.Option  `json:"options,omitempty"`
}

// Clone deep-copies a dimension list so edits never alias the caller's slice.
func Clone(dims []scoring.Dimension) []scoring.Dimension {
	out := make([]scoring.Dimension, len(dims))
	for i, d := range dims {
		out[i] = cloneDimension(d)
	}
	return out
}

func cloneDimension(d scoring.Dimension) scoring.Dimension {
	if d.Options != nil {
		d.Options = append([]scoring.Option(nil), d.Options...)
	}
	return d
}

// Find returns the dimension with the given id.
func Find(dims []scoring.Dimension, id string) (scoring.Dimension, bool) {
	for _, d := range dims {
		if d.ID == id {
			return d, true
		}
	}
	return scoring.Dimension{}, false
}

func indexOf(dims []scoring.Dimension, id string) int {
	for i, d := range dims {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Toggle flips the active flag of one dimension.
func Toggle(dims []scoring.Dimension, id string) ([]scoring.Dimension, error) {
	idx := indexOf(dims, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	out := Clone(dims)
	out[idx].Active = !out[idx].Active
	return out, nil
}

// Reorder moves the listed ids to the front in the given order. Unknown ids
// are skipped and unlisted dimensions keep their relative order after them.
func Reorder(dims []scoring.Dimension, ids []string) []scoring.Dimension {
	byID := make(map[string]scoring.Dimension, len(dims))
	for _, d := range dims {
		byID[d.ID] = d
	}
	out := make([]scoring.Dimension, 0, len(dims))
	placed := make(map[string]bool, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		out = append(out, cloneDimension(d))
	}
	for _, d := range dims {
		if placed[d.ID] {
			continue
		}
		out = append(out, cloneDimension(d))
	}
	return out
}

// Update applies a patch to one dimension. Flipping the penalty flag re-scores
// the options so their sign follows it.
func Update(dims []scoring.Dimension, id string, p Patch) ([]scoring.Dimension, error) {
	idx := indexOf(dims, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	out := Clone(dims)
	d := out[idx]
	if p.Name != nil {
		d.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		d.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Active != nil {
		d.Active = *p.Active
	}
	if p.Options != nil {
		d.Options = append([]scoring.Option(nil), p.Options...)
	}
	if p.IsPenalty != nil && *p.IsPenalty != d.IsPenalty {
		d.IsPenalty = *p.IsPenalty
		d.Options = AutoScore(d.Options, d.IsPenalty)
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	out[idx] = d
	return out, nil
}

// Add appends a user-defined dimension. An empty id is generated.
func Add(dims []scoring.Dimension, d scoring.Dimension) ([]scoring.Dimension, scoring.Dimension, error) {
	d = cloneDimension(d)
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	if d.ID == "" {
		d.ID = customIDPrefix + uuid.NewString()
	}
	if d.IsIdentity() {
		return nil, scoring.Dimension{}, fmt.Errorf("%w: %q is reserved", ErrDuplicate, d.ID)
	}
	if indexOf(dims, d.ID) >= 0 {
		return nil, scoring.Dimension{}, ErrDuplicate
	}
	d.IsDefault = false
	if err := Validate(d); err != nil {
		return nil, scoring.Dimension{}, err
	}
	out := append(Clone(dims), d)
	return out, d, nil
}

// Remove deletes a user-defined dimension. Default dimensions can only be
// deactivated.
func Remove(dims []scoring.Dimension, id string) ([]scoring.Dimension, error) {
	idx := indexOf(dims, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	if dims[idx].IsIdentity() || dims[idx].IsDefault {
		return nil, ErrProtected
	}
	out := make([]scoring.Dimension, 0, len(dims)-1)
	for i, d := range dims {
		if i == idx {
			continue
		}
		out = append(out, cloneDimension(d))
	}
	return out, nil
}
