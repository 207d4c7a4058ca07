package workspaces

import (
	"context"
	"errors"
	"testing"

	"offer-ranker/internal/scoring"
)

func TestMemoryRepoCopiesOnReadAndWrite(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	ws := Workspace{
		UserID:     "user-1",
		Version:    CurrentVersion,
		Dimensions: []scoring.Dimension{{ID: "a", Name: "A", Kind: scoring.KindSlider, Active: true}},
		Offers: []scoring.Offer{{
			ID:           "o1",
			Values:       map[string]scoring.Value{"a": scoring.Number(7)},
			ExtraBonuses: []scoring.Bonus{{DimensionID: "a", Points: 10}},
		}},
	}
	if err := repo.Save(ctx, ws); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ws.Offers[0].Values["a"] = scoring.Number(1)
	ws.Dimensions[0].Name = "changed"

	got, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Offers[0].Values["a"].AsNumber() != 7 || got.Dimensions[0].Name != "A" {
		t.Fatalf("stored workspace aliased the caller's copy: %+v", got)
	}

	got.Offers[0].ExtraBonuses[0].Points = 99
	again, _ := repo.Get(ctx, "user-1")
	if again.Offers[0].ExtraBonuses[0].Points != 10 {
		t.Fatalf("Get must return a copy")
	}
}

func TestMemoryRepoNotFoundAndDelete(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Save(ctx, Workspace{UserID: "u"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Delete(ctx, "u"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "u"); err != nil {
		t.Fatalf("Delete must be idempotent: %v", err)
	}
	if _, err := repo.Get(ctx, "u"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryRepoHonoursCanceledContext(t *testing.T) {
	repo := NewMemoryRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := repo.Save(ctx, Workspace{UserID: "u"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
