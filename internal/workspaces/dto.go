package workspaces

import (
	"time"

	"offer-ranker/internal/scoring"
)

type workspaceResponse struct {
	Version    int                 `json:"version"`
	Dimensions []scoring.Dimension `json:"dimensions"`
	Offers     []scoring.Offer     `json:"offers"`
	UpdatedAt  *time.Time          `json:"updatedAt,omitempty"`
}

func toWorkspaceResponse(ws Workspace) workspaceResponse {
	resp := workspaceResponse{
		Version:    ws.Version,
		Dimensions: ws.Dimensions,
		Offers:     ws.Offers,
	}
	if resp.Dimensions == nil {
		resp.Dimensions = []scoring.Dimension{}
	}
	if resp.Offers == nil {
		resp.Offers = []scoring.Offer{}
	}
	if !ws.UpdatedAt.IsZero() {
		t := ws.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

type replaceDimensionsRequest struct {
	Dimensions []scoring.Dimension `json:"dimensions" binding:"required"`
}

type addDimensionRequest struct {
	scoring.Dimension
	AutoScore bool `json:"autoScore"`
}

type reorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

type offerRequest struct {
	Values map[string]scoring.Value `json:"values" binding:"required"`
}

type bonusRequest struct {
	Points *float64 `json:"points" binding:"required"`
}

type optionLabelRequest struct {
	Label string `json:"label" binding:"required"`
}

type moveOptionRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

type rankRequest struct {
	Dimensions []scoring.Dimension `json:"dimensions"`
	Offers     []scoring.Offer     `json:"offers"`
}
