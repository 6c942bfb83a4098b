package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/moghtech/komodo-core/internal/config"
	"github.com/moghtech/komodo-core/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const statusHashKey = "server_status"

// StatusCache stores server statuses in a single redis hash keyed by server id
type StatusCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// Connect creates a client for the configured redis and verifies it with a
// ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func NewStatusCache(client redis.UniversalClient, keyPrefix string) *StatusCache {
	return &StatusCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *StatusCache) key() string {
	return c.keyPrefix + statusHashKey
}

func (c *StatusCache) SetStatus(ctx context.Context, status domain.ServerStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal server status: %w", err)
	}

	if err := c.client.HSet(ctx, c.key(), status.ServerID, string(data)).Err(); err != nil {
		return fmt.Errorf("failed to save server status: %w", err)
	}

	return nil
}

func (c *StatusCache) GetStatus(ctx context.Context, serverID string) (*domain.ServerStatus, error) {
	data, err := c.client.HGet(ctx, c.key(), serverID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get server status: %w", err)
	}

	var status domain.ServerStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal server status: %w", err)
	}

	return &status, nil
}

// ListStatuses returns the statuses sorted by server name. Entries that fail
// to decode are skipped.
func (c *StatusCache) ListStatuses(ctx context.Context) ([]domain.ServerStatus, error) {
	entries, err := c.client.HGetAll(ctx, c.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list server statuses: %w", err)
	}

	statuses := make([]domain.ServerStatus, 0, len(entries))
	for serverID, data := range entries {
		var status domain.ServerStatus
		if err := json.Unmarshal([]byte(data), &status); err != nil {
			log.Warn().Err(err).Str("server_id", serverID).Msg("Skipping undecodable server status")
			continue
		}
		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].Name != statuses[j].Name {
			return statuses[i].Name < statuses[j].Name
		}
		return statuses[i].ServerID < statuses[j].ServerID
	})

	return statuses, nil
}
