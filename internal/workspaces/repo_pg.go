package workspaces

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"offer-ranker/internal/scoring"
)

const guestPrefix = "guest:"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Get loads a workspace by caller ID.
func (r *PGRepo) Get(ctx context.Context, userID string) (Workspace, error) {
	const query = `
SELECT user_id, version, dimensions, offers, updated_at
FROM workspaces
WHERE user_id = $1
LIMIT 1`
	var ws Workspace
	var dims sql.NullString
	var offers sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&ws.UserID,
		&ws.Version,
		&dims,
		&offers,
		&ws.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Workspace{}, ErrNotFound
		}
		return Workspace{}, err
	}
	if dims.Valid && dims.String != "" {
		if err := json.Unmarshal([]byte(dims.String), &ws.Dimensions); err != nil {
			return Workspace{}, fmt.Errorf("decode dimensions: %w", err)
		}
	}
	if offers.Valid && offers.String != "" {
		if err := json.Unmarshal([]byte(offers.String), &ws.Offers); err != nil {
			return Workspace{}, fmt.Errorf("decode offers: %w", err)
		}
	}
	return ws, nil
}

// Save upserts the workspace row.
func (r *PGRepo) Save(ctx context.Context, ws Workspace) error {
	const query = `
INSERT INTO workspaces (user_id, version, dimensions, offers, is_guest, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE SET
	version = EXCLUDED.version,
	dimensions = EXCLUDED.dimensions,
	offers = EXCLUDED.offers,
	updated_at = EXCLUDED.updated_at`
	dims := ws.Dimensions
	if dims == nil {
		dims = []scoring.Dimension{}
	}
	dimsPayload, err := marshalJSONB(dims)
	if err != nil {
		return err
	}
	offers := ws.Offers
	if offers == nil {
		offers = []scoring.Offer{}
	}
	offersPayload, err := marshalJSONB(offers)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		ws.UserID,
		ws.Version,
		dimsPayload,
		offersPayload,
		strings.HasPrefix(ws.UserID, guestPrefix),
		ws.UpdatedAt,
	)
	return err
}

// Delete removes the workspace row if present.
func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM workspaces WHERE user_id = $1`, userID)
	return err
}

func marshalJSONB(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb: %w", err)
	}
	return payload, nil
}
