package dimensions

import (
	"errors"
	"testing"

	"offer-ranker/internal/scoring"
)

func scores(opts []scoring.Option) []float64 {
	out := make([]float64, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Score)
	}
	return out
}

func equalScores(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAutoScore(t *testing.T) {
	four := []scoring.Option{{Value: "a"}, {Value: "b"}, {Value: "c"}, {Value: "d"}}

	cases := []struct {
		name    string
		options []scoring.Option
		penalty bool
		want    []float64
	}{
		{"empty", nil, false, []float64{}},
		{"single", four[:1], false, []float64{100}},
		{"single_penalty", four[:1], true, []float64{-100}},
		{"three", four[:3], false, []float64{100, 50, 0}},
		{"four_rounded", four, false, []float64{100, 67, 33, 0}},
		{"four_penalty", four, true, []float64{-100, -67, -33, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scores(AutoScore(tc.options, tc.penalty))
			if !equalScores(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestAddOptionRescores(t *testing.T) {
	out, err := AddOption(sample(), "b", " Z ")
	if err != nil {
		t.Fatalf("AddOption: %v", err)
	}
	b, _ := Find(out, "b")
	if len(b.Options) != 3 || b.Options[2].Label != "Z" {
		t.Fatalf("expected new option appended, got %+v", b.Options)
	}
	if !equalScores(scores(b.Options), []float64{100, 50, 0}) {
		t.Fatalf("expected rescored options, got %v", scores(b.Options))
	}
	if _, err := AddOption(sample(), "a", "nope"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected slider to reject options, got %v", err)
	}
}

func TestMoveAndRemoveOption(t *testing.T) {
	dims, err := AddOption(sample(), "b", "Z")
	if err != nil {
		t.Fatalf("AddOption: %v", err)
	}
	moved, err := MoveOption(dims, "b", 2, 0)
	if err != nil {
		t.Fatalf("MoveOption: %v", err)
	}
	b, _ := Find(moved, "b")
	if b.Options[0].Label != "Z" || b.Options[1].Value != "x" || b.Options[2].Value != "y" {
		t.Fatalf("unexpected order after move: %+v", b.Options)
	}
	if b.Options[0].Score != 100 || b.Options[2].Score != 0 {
		t.Fatalf("expected rescored options after move: %+v", b.Options)
	}
	if _, err := MoveOption(dims, "b", 0, 9); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected out of range error, got %v", err)
	}

	removed, err := RemoveOption(moved, "b", "x")
	if err != nil {
		t.Fatalf("RemoveOption: %v", err)
	}
	b, _ = Find(removed, "b")
	if len(b.Options) != 2 || !equalScores(scores(b.Options), []float64{100, 0}) {
		t.Fatalf("unexpected options after remove: %+v", b.Options)
	}
	if _, err := RemoveOption(moved, "b", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRenameOptionKeepsScores(t *testing.T) {
	out, err := RenameOption(sample(), "b", "y", "Why")
	if err != nil {
		t.Fatalf("RenameOption: %v", err)
	}
	b, _ := Find(out, "b")
	if b.Options[1].Label != "Why" || b.Options[1].Score != 0 || b.Options[0].Score != 100 {
		t.Fatalf("unexpected options: %+v", b.Options)
	}
}
