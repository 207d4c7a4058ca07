package workspaces

import (
	"time"

	"offer-ranker/internal/dimensions"
	"offer-ranker/internal/scoring"
)

// CurrentVersion is the snapshot layout written by this build.
const CurrentVersion = 1

// MaxBonusDimensions caps how many dimensions one offer may carry bonuses for.
const MaxBonusDimensions = 3

// Workspace is one caller's persisted dimension list and offers.
type Workspace struct {
	UserID     string              `json:"userId"`
	Version    int                 `json:"version"`
	Dimensions []scoring.Dimension `json:"dimensions"`
	Offers     []scoring.Offer     `json:"offers"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// Ranking is a scored snapshot.
type Ranking struct {
	Weights map[string]float64 `json:"weights"`
	Results []scoring.Result   `json:"results"`
}

func (w Workspace) offerIndex(id string) int {
	for i, o := range w.Offers {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func cloneWorkspace(w Workspace) Workspace {
	w.Dimensions = dimensions.Clone(w.Dimensions)
	w.Offers = cloneOffers(w.Offers)
	return w
}

func cloneOffers(offers []scoring.Offer) []scoring.Offer {
	if offers == nil {
		return nil
	}
	out := make([]scoring.Offer, len(offers))
	for i, o := range offers {
		out[i] = cloneOffer(o)
	}
	return out
}

func cloneOffer(o scoring.Offer) scoring.Offer {
	if o.Values != nil {
		values := make(map[string]scoring.Value, len(o.Values))
		for k, v := range o.Values {
			values[k] = v
		}
		o.Values = values
	}
	if o.ExtraBonuses != nil {
		o.ExtraBonuses = append([]scoring.Bonus(nil), o.ExtraBonuses...)
	}
	return o
}
