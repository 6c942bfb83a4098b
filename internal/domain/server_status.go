package domain

import (
	"context"
	"time"
)

// ServerStatus is the last observed state of a server.
type ServerStatus struct {
	ServerID  string      `json:"server_id"`
	Name      string      `json:"name"`
	State     ServerState `json:"state"`
	CheckedAt time.Time   `json:"checked_at"`
}

// ServerStatusCache holds the latest ServerStatus per server. GetStatus
// returns nil and no error for servers that were never checked.
type ServerStatusCache interface {
	SetStatus(ctx context.Context, status ServerStatus) error
	GetStatus(ctx context.Context, serverID string) (*ServerStatus, error)
	ListStatuses(ctx context.Context) ([]ServerStatus, error)
}

type ServerMonitor interface {
	// Refresh checks every server once and records the results.
	Refresh(ctx context.Context) error

	// Start refreshes on the configured schedule until ctx is done.
	Start(ctx context.Context) error
}
