package workspaces

import (
	"context"
	"sync"
)

// MemoryRepo stores workspaces in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]Workspace
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]Workspace)}
}

// Get returns a copy of the caller's workspace.
func (r *MemoryRepo) Get(ctx context.Context, userID string) (Workspace, error) {
	if err := ctx.Err(); err != nil {
		return Workspace{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ws, ok := r.byUser[userID]
	if !ok {
		return Workspace{}, ErrNotFound
	}
	return cloneWorkspace(ws), nil
}

// Save replaces the caller's workspace.
func (r *MemoryRepo) Save(ctx context.Context, ws Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[ws.UserID] = cloneWorkspace(ws)
	return nil
}

// Delete removes the caller's workspace. Missing workspaces are not an error.
func (r *MemoryRepo) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
	return nil
}
