package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/moghtech/komodo-core/internal/domain"
)

// StatusCache keeps server statuses in process memory
type StatusCache struct {
	mu       sync.RWMutex
	statuses map[string]domain.ServerStatus
}

func NewStatusCache() *StatusCache {
	return &StatusCache{
		statuses: make(map[string]domain.ServerStatus),
	}
}

func (c *StatusCache) SetStatus(ctx context.Context, status domain.ServerStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.statuses[status.ServerID] = status

	return nil
}

func (c *StatusCache) GetStatus(ctx context.Context, serverID string) (*domain.ServerStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status, ok := c.statuses[serverID]
	if !ok {
		return nil, nil
	}

	return &status, nil
}

// ListStatuses returns the statuses sorted by server name
func (c *StatusCache) ListStatuses(ctx context.Context) ([]domain.ServerStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	statuses := make([]domain.ServerStatus, 0, len(c.statuses))
	for _, status := range c.statuses {
		statuses = append(statuses, status)
	}

	sortStatuses(statuses)

	return statuses, nil
}

func sortStatuses(statuses []domain.ServerStatus) {
	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].Name != statuses[j].Name {
			return statuses[i].Name < statuses[j].Name
		}
		return statuses[i].ServerID < statuses[j].ServerID
	})
}
