package market

import (
	"context"
	"encoding/json"
)

// Ping checks backend liveness. Used by the keep-alive service; bypasses
// the cache so every call actually reaches the server.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/ping", "ping")
	return err
}

// Health returns the backend health document.
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	data, err := c.get(ctx, "/health", "health")
	if err != nil {
		return nil, err
	}

	var health map[string]interface{}
	if err := json.Unmarshal(data, &health); err != nil {
		return nil, err
	}
	return health, nil
}
