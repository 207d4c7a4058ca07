package dimensions

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"offer-ranker/internal/scoring"
)

const optionValuePrefix = "opt_"

// AutoScore spreads option scores evenly by position: the first option gets
// 100 and the last 0, or -100 down to 0 for penalty dimensions. A lone option
// gets the full 100 (or -100).
func AutoScore(options []scoring.Option, isPenalty bool) []scoring.Option {
	m := len(options)
	if m == 0 {
		return nil
	}
	top := 100.0
	if isPenalty {
		top = -100.0
	}
	out := make([]scoring.Option, m)
	copy(out, options)
	if m == 1 {
		out[0].Score = top
		return out
	}
	for i := range out {
		score := math.Round(top * float64(m-1-i) / float64(m-1))
		if score == 0 {
			score = 0 // normalise -0
		}
		out[i].Score = score
	}
	return out
}

// AddOption appends an option labelled label and re-scores the list.
func AddOption(dims []scoring.Dimension, id, label string) ([]scoring.Dimension, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("%w: option label is required", ErrInvalidInput)
	}
	return editOptions(dims, id, func(opts []scoring.Option) ([]scoring.Option, error) {
		return append(opts, scoring.Option{Value: optionValuePrefix + uuid.NewString(), Label: label}), nil
	})
}

// RemoveOption drops an option and re-scores the rest.
func RemoveOption(dims []scoring.Dimension, id, value string) ([]scoring.Dimension, error) {
	return editOptions(dims, id, func(opts []scoring.Option) ([]scoring.Option, error) {
		out := make([]scoring.Option, 0, len(opts))
		for _, o := range opts {
			if o.Value != value {
				out = append(out, o)
			}
		}
		if len(out) == len(opts) {
			return nil, fmt.Errorf("%w: option %q", ErrNotFound, value)
		}
		return out, nil
	})
}

// MoveOption moves the option at from to position to and re-scores the list.
func MoveOption(dims []scoring.Dimension, id string, from, to int) ([]scoring.Dimension, error) {
	return editOptions(dims, id, func(opts []scoring.Option) ([]scoring.Option, error) {
		if from < 0 || from >= len(opts) || to < 0 || to >= len(opts) {
			return nil, fmt.Errorf("%w: option position out of range", ErrInvalidInput)
		}
		moved := opts[from]
		opts = append(opts[:from], opts[from+1:]...)
		opts = append(opts[:to], append([]scoring.Option{moved}, opts[to:]...)...)
		return opts, nil
	})
}

// RenameOption changes an option label without touching scores.
func RenameOption(dims []scoring.Dimension, id, value, label string) ([]scoring.Dimension, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("%w: option label is required", ErrInvalidInput)
	}
	idx := indexOf(dims, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	out := Clone(dims)
	for i := range out[idx].Options {
		if out[idx].Options[i].Value == value {
			out[idx].Options[i].Label = label
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: option %q", ErrNotFound, value)
}

func editOptions(dims []scoring.Dimension, id string, edit func([]scoring.Option) ([]scoring.Option, error)) ([]scoring.Dimension, error) {
	idx := indexOf(dims, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	out := Clone(dims)
	d := out[idx]
	if !needsOptions(d.Kind) {
		return nil, fmt.Errorf("%w: %s dimension has no options", ErrInvalidInput, d.Kind)
	}
	opts, err := edit(append([]scoring.Option(nil), d.Options...))
	if err != nil {
		return nil, err
	}
	d.Options = AutoScore(opts, d.IsPenalty)
	if err := Validate(d); err != nil {
		return nil, err
	}
	out[idx] = d
	return out, nil
}
