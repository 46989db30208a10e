package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallbiznis/orgspace-auth/internal/domain"
)

// OrgCache is a read-through cache for organisation snapshots, including the
// membership set. Entries are invalidated whenever membership changes; a nil
// *OrgCache disables caching, which tests rely on.
type OrgCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewOrgCache wraps the redis client with the configured entry TTL.
func NewOrgCache(client redis.UniversalClient, ttl time.Duration) *OrgCache {
	return &OrgCache{client: client, ttl: ttl}
}

func orgKey(orgID string) string {
	return "org:" + orgID
}

// Get returns the cached organisation and whether it was present. Transport
// failures are reported as a miss with the error attached so callers can fall
// through to the repository.
func (c *OrgCache) Get(ctx context.Context, orgID string) (domain.Organisation, bool, error) {
	if c == nil || c.client == nil {
		return domain.Organisation{}, false, nil
	}

	payload, err := c.client.Get(ctx, orgKey(orgID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Organisation{}, false, nil
	}
	if err != nil {
		return domain.Organisation{}, false, fmt.Errorf("org cache get: %w", err)
	}

	var org domain.Organisation
	if err := json.Unmarshal(payload, &org); err != nil {
		return domain.Organisation{}, false, fmt.Errorf("org cache decode: %w", err)
	}
	return org, true, nil
}

// Set stores the organisation snapshot for the configured TTL.
func (c *OrgCache) Set(ctx context.Context, org domain.Organisation) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(org)
	if err != nil {
		return fmt.Errorf("org cache encode: %w", err)
	}
	if err := c.client.Set(ctx, orgKey(org.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("org cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot after a membership change.
func (c *OrgCache) Invalidate(ctx context.Context, orgID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, orgKey(orgID)).Err(); err != nil {
		return fmt.Errorf("org cache invalidate: %w", err)
	}
	return nil
}
