package workspaces

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"offer-ranker/internal/dimensions"
	"offer-ranker/internal/scoring"
	"offer-ranker/internal/shared/metrics"
	"offer-ranker/internal/shared/telemetry"
)

const lockStripes = 64

// Service applies edits to a caller's workspace. Each operation loads the
// snapshot, edits a copy and saves it back; edits for one caller are
// serialized within the process.
type Service struct {
	Repo    Repo
	Presets func() ([]scoring.Dimension, error)
	Now     func() time.Time

	locks [lockStripes]sync.Mutex
}

// NewService constructs a Service backed by repo and the built-in presets.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Presets: dimensions.Presets, Now: time.Now}
}

// Load returns the caller's workspace, or a fresh preset workspace when none
// has been saved yet. The fresh workspace is not persisted.
func (s *Service) Load(ctx context.Context, userID string) (Workspace, error) {
	if strings.TrimSpace(userID) == "" {
		return Workspace{}, errors.New("userID is required")
	}
	ws, err := s.Repo.Get(ctx, userID)
	switch {
	case err == nil:
		if ws.Version > CurrentVersion {
			return Workspace{}, fmt.Errorf("%w: %d", ErrUnsupportedState, ws.Version)
		}
		ws.Version = CurrentVersion
		if ws.Offers == nil {
			ws.Offers = []scoring.Offer{}
		}
		return ws, nil
	case errors.Is(err, ErrNotFound):
		return s.fresh(userID)
	default:
		metrics.IncWorkspaceFailure()
		return Workspace{}, fmt.Errorf("load workspace: %w", err)
	}
}

func (s *Service) fresh(userID string) (Workspace, error) {
	presets := s.Presets
	if presets == nil {
		presets = dimensions.Presets
	}
	dims, err := presets()
	if err != nil {
		return Workspace{}, err
	}
	return Workspace{
		UserID:     userID,
		Version:    CurrentVersion,
		Dimensions: dims,
		Offers:     []scoring.Offer{},
	}, nil
}

func (s *Service) lockFor(userID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &s.locks[h.Sum32()%lockStripes]
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// mutate runs edit on the caller's workspace under its lock and saves the result.
func (s *Service) mutate(ctx context.Context, userID, op string, edit func(*Workspace) error) (Workspace, error) {
	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	ws, err := s.Load(ctx, userID)
	if err != nil {
		return Workspace{}, err
	}
	if err := edit(&ws); err != nil {
		return Workspace{}, err
	}
	ws.UpdatedAt = s.now()
	if err := s.Repo.Save(ctx, ws); err != nil {
		metrics.IncWorkspaceFailure()
		telemetry.Error("workspace.save_failed", map[string]any{
			"user_id": userID,
			"op":      op,
			"error":   err,
		})
		return Workspace{}, fmt.Errorf("save workspace: %w", err)
	}
	metrics.IncWorkspaceWrite()
	telemetry.Info("workspace.saved", map[string]any{
		"user_id":    userID,
		"op":         op,
		"dimensions": len(ws.Dimensions),
		"offers":     len(ws.Offers),
	})
	return ws, nil
}

// Reset deletes the caller's workspace so the next Load starts from presets.
func (s *Service) Reset(ctx context.Context, userID string) error {
	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()
	if err := s.Repo.Delete(ctx, userID); err != nil {
		metrics.IncWorkspaceFailure()
		return fmt.Errorf("delete workspace: %w", err)
	}
	telemetry.Info("workspace.reset", map[string]any{"user_id": userID})
	return nil
}

// ReplaceDimensions swaps the whole dimension list. Bonuses and values that
// target dropped dimensions are kept; they are ignored while scoring.
func (s *Service) ReplaceDimensions(ctx context.Context, userID string, dims []scoring.Dimension) (Workspace, error) {
	seen := make(map[string]struct{}, len(dims))
	for _, d := range dims {
		if err := dimensions.Validate(d); err != nil {
			return Workspace{}, err
		}
		if _, ok := seen[d.ID]; ok {
			return Workspace{}, fmt.Errorf("%w: %q", dimensions.ErrDuplicate, d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return s.mutate(ctx, userID, "dimensions.replace", func(ws *Workspace) error {
		ws.Dimensions = dimensions.Clone(dims)
		return nil
	})
}

// ToggleDimension flips whether a dimension takes part in scoring.
func (s *Service) ToggleDimension(ctx context.Context, userID, dimensionID string) (Workspace, error) {
	return s.mutate(ctx, userID, "dimensions.toggle", func(ws *Workspace) error {
		dims, err := dimensions.Toggle(ws.Dimensions, dimensionID)
		if err != nil {
			return err
		}
		ws.Dimensions = dims
		return nil
	})
}

// ReorderDimensions changes priority; see dimensions.Reorder.
func (s *Service) ReorderDimensions(ctx context.Context, userID string, ids []string) (Workspace, error) {
	return s.mutate(ctx, userID, "dimensions.reorder", func(ws *Workspace) error {
		ws.Dimensions = dimensions.Reorder(ws.Dimensions, ids)
		return nil
	})
}

// UpdateDimension applies a patch to one dimension.
func (s *Service) UpdateDimension(ctx context.Context, userID, dimensionID string, patch dimensions.Patch) (Workspace, error) {
	return s.mutate(ctx, userID, "dimensions.update", func(ws *Workspace) error {
		dims, err := dimensions.Update(ws.Dimensions, dimensionID, patch)
		if err != nil {
			return err
		}
		ws.Dimensions = dims
		if updated, ok := dimensions.Find(dims, dimensionID); ok && updated.IsPenalty {
			stripBonuses(ws.Offers, dimensionID)
		}
		return nil
	})
}

// AddDimension appends a custom dimension and returns it with its assigned id.
func (s *Service) AddDimension(ctx context.Context, userID string, dim scoring.Dimension) (Workspace, scoring.Dimension, error) {
	var added scoring.Dimension
	ws, err := s.mutate(ctx, userID, "dimensions.add", func(ws *Workspace) error {
		dims, d, err := dimensions.Add(ws.Dimensions, dim)
		if err != nil {
			return err
		}
		ws.Dimensions = dims
		added = d
		return nil
	})
	return ws, added, err
}

// RemoveDimension deletes a custom dimension along with the offer values and
// bonuses that referenced it.
func (s *Service) RemoveDimension(ctx context.Context, userID, dimensionID string) (Workspace, error) {
	return s.mutate(ctx, userID, "dimensions.remove", func(ws *Workspace) error {
		dims, err := dimensions.Remove(ws.Dimensions, dimensionID)
		if err != nil {
			return err
		}
		ws.Dimensions = dims
		for i := range ws.Offers {
			delete(ws.Offers[i].Values, dimensionID)
		}
		stripBonuses(ws.Offers, dimensionID)
		return nil
	})
}

// AddOption appends an option to a select or location dimension.
func (s *Service) AddOption(ctx context.Context, userID, dimensionID, label string) (Workspace, error) {
	return s.editDimensions(ctx, userID, "options.add", func(dims []scoring.Dimension) ([]scoring.Dimension, error) {
		return dimensions.AddOption(dims, dimensionID, label)
	})
}

// RemoveOption drops an option. Offers that picked it keep the stale value
// and score 0 for the dimension.
func (s *Service) RemoveOption(ctx context.Context, userID, dimensionID, value string) (Workspace, error) {
	return s.editDimensions(ctx, userID, "options.remove", func(dims []scoring.Dimension) ([]scoring.Dimension, error) {
		return dimensions.RemoveOption(dims, dimensionID, value)
	})
}

// MoveOption reorders one option and re-scores the list.
func (s *Service) MoveOption(ctx context.Context, userID, dimensionID string, from, to int) (Workspace, error) {
	return s.editDimensions(ctx, userID, "options.move", func(dims []scoring.Dimension) ([]scoring.Dimension, error) {
		return dimensions.MoveOption(dims, dimensionID, from, to)
	})
}

// RenameOption relabels one option.
func (s *Service) RenameOption(ctx context.Context, userID, dimensionID, value, label string) (Workspace, error) {
	return s.editDimensions(ctx, userID, "options.rename", func(dims []scoring.Dimension) ([]scoring.Dimension, error) {
		return dimensions.RenameOption(dims, dimensionID, value, label)
	})
}

func (s *Service) editDimensions(ctx context.Context, userID, op string, edit func([]scoring.Dimension) ([]scoring.Dimension, error)) (Workspace, error) {
	return s.mutate(ctx, userID, op, func(ws *Workspace) error {
		dims, err := edit(ws.Dimensions)
		if err != nil {
			return err
		}
		ws.Dimensions = dims
		return nil
	})
}

// AddOffer stores a new offer with a generated id. An offer needs at least
// one value.
func (s *Service) AddOffer(ctx context.Context, userID string, values map[string]scoring.Value) (Workspace, scoring.Offer, error) {
	if len(copyValues(values)) == 0 {
		return Workspace{}, scoring.Offer{}, fmt.Errorf("%w: no values", ErrInvalidOffer)
	}
	offer := scoring.Offer{
		ID:           uuid.NewString(),
		Values:       copyValues(values),
		ExtraBonuses: []scoring.Bonus{},
	}
	ws, err := s.mutate(ctx, userID, "offers.add", func(ws *Workspace) error {
		ws.Offers = append(ws.Offers, offer)
		return nil
	})
	return ws, offer, err
}

// UpdateOffer replaces an offer's values. Bonuses are kept.
func (s *Service) UpdateOffer(ctx context.Context, userID, offerID string, values map[string]scoring.Value) (Workspace, error) {
	return s.mutate(ctx, userID, "offers.update", func(ws *Workspace) error {
		idx := ws.offerIndex(offerID)
		if idx < 0 {
			return ErrOfferNotFound
		}
		ws.Offers[idx].Values = copyValues(values)
		return nil
	})
}

// RemoveOffer deletes an offer.
func (s *Service) RemoveOffer(ctx context.Context, userID, offerID string) (Workspace, error) {
	return s.mutate(ctx, userID, "offers.remove", func(ws *Workspace) error {
		idx := ws.offerIndex(offerID)
		if idx < 0 {
			return ErrOfferNotFound
		}
		ws.Offers = append(ws.Offers[:idx], ws.Offers[idx+1:]...)
		return nil
	})
}

// SetBonus adds or replaces an offer's bonus for one dimension. Points are
// clamped to [0, MaxBonusPoints]; penalty and identity dimensions are rejected.
func (s *Service) SetBonus(ctx context.Context, userID, offerID, dimensionID string, points float64) (Workspace, error) {
	return s.mutate(ctx, userID, "bonuses.set", func(ws *Workspace) error {
		idx := ws.offerIndex(offerID)
		if idx < 0 {
			return ErrOfferNotFound
		}
		dim, ok := dimensions.Find(ws.Dimensions, dimensionID)
		if !ok {
			return dimensions.ErrNotFound
		}
		if dim.IsPenalty || dim.IsIdentity() {
			return fmt.Errorf("%w: %s", ErrBonusNotAllowed, dimensionID)
		}
		points = clampPoints(points)

		offer := &ws.Offers[idx]
		for i := range offer.ExtraBonuses {
			if offer.ExtraBonuses[i].DimensionID == dimensionID {
				offer.ExtraBonuses[i].Points = points
				return nil
			}
		}
		if len(offer.ExtraBonuses) >= MaxBonusDimensions {
			return ErrTooManyBonuses
		}
		offer.ExtraBonuses = append(offer.ExtraBonuses, scoring.Bonus{DimensionID: dimensionID, Points: points})
		return nil
	})
}

// RemoveBonus deletes an offer's bonus for one dimension.
func (s *Service) RemoveBonus(ctx context.Context, userID, offerID, dimensionID string) (Workspace, error) {
	return s.mutate(ctx, userID, "bonuses.remove", func(ws *Workspace) error {
		idx := ws.offerIndex(offerID)
		if idx < 0 {
			return ErrOfferNotFound
		}
		before := len(ws.Offers[idx].ExtraBonuses)
		stripBonuses(ws.Offers[idx:idx+1], dimensionID)
		if len(ws.Offers[idx].ExtraBonuses) == before {
			return ErrBonusNotFound
		}
		return nil
	})
}

// Rank scores the caller's stored offers.
func (s *Service) Rank(ctx context.Context, userID string) (Ranking, error) {
	ws, err := s.Load(ctx, userID)
	if err != nil {
		return Ranking{}, err
	}
	return RankSnapshot(ws.Dimensions, ws.Offers), nil
}

// RankSnapshot scores offers against dims without touching storage.
func RankSnapshot(dims []scoring.Dimension, offers []scoring.Offer) Ranking {
	start := time.Now()
	weights, results := scoring.Rank(dims, offers)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	metrics.ObserveRanking(len(offers), elapsed)
	return Ranking{Weights: weights, Results: results}
}

func stripBonuses(offers []scoring.Offer, dimensionID string) {
	for i := range offers {
		kept := offers[i].ExtraBonuses[:0]
		for _, b := range offers[i].ExtraBonuses {
			if b.DimensionID != dimensionID {
				kept = append(kept, b)
			}
		}
		offers[i].ExtraBonuses = kept
	}
}

func copyValues(values map[string]scoring.Value) map[string]scoring.Value {
	out := make(map[string]scoring.Value, len(values))
	for k, v := range values {
		if k = strings.TrimSpace(k); k != "" {
			out[k] = v
		}
	}
	return out
}

func clampPoints(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > scoring.MaxBonusPoints:
		return scoring.MaxBonusPoints
	}
	return p
}
