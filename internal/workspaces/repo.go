package workspaces

import "context"

// Repo persists one workspace per caller.
type Repo interface {
	Get(ctx context.Context, userID string) (Workspace, error)
	Save(ctx context.Context, ws Workspace) error
	Delete(ctx context.Context, userID string) error
}
