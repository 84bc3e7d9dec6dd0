package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"nestquest/internal/models"
	"nestquest/internal/query"
)

// GetUser looks up the backend user record by provider UID, the canonical
// identity key. Role and profile lookups get one extra retry attempt.
func (c *Client) GetUser(ctx context.Context, uid string) (*models.RoleRecord, error) {
	data, err := c.queries.QueryRetry(ctx, query.UserKey(uid), 1, func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/users/"+url.PathEscape(uid), "get_user")
	})
	if err != nil {
		return nil, err
	}

	var record models.RoleRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode user record: %v", err)
	}
	return &record, nil
}

// CreateUser persists a new backend user record.
func (c *Client) CreateUser(ctx context.Context, record *models.RoleRecord) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPost, "/users", record, "create_user", true)
	}, query.AllUsersKey(), query.UserKey(record.UID))
	return err
}

// MintToken exchanges the user record for a backend bearer credential.
// Called during auth, before the credential slot is populated, so it goes
// straight to the network instead of through the cache.
func (c *Client) MintToken(ctx context.Context, record *models.RoleRecord) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "/jwt", record, "mint_token", false)
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %v", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("token endpoint returned an empty token")
	}
	return resp.Token, nil
}

// ListUsers returns every backend user record for the manage-users screen.
func (c *Client) ListUsers(ctx context.Context) ([]models.RoleRecord, error) {
	data, err := c.queries.Query(ctx, query.AllUsersKey(), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/users", "list_users")
	})
	if err != nil {
		return nil, err
	}

	var records []models.RoleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode user records: %v", err)
	}
	return records, nil
}

// MakeAdmin promotes a user to admin. Role changes happen backend-side
// only; the client just requests the transition.
func (c *Client) MakeAdmin(ctx context.Context, uid string) error {
	return c.patchUser(ctx, "admin", uid)
}

// MakeAgent promotes a user to agent.
func (c *Client) MakeAgent(ctx context.Context, uid string) error {
	return c.patchUser(ctx, "agent", uid)
}

// MarkFraud flags an agent as fraudulent, hiding their listings.
func (c *Client) MarkFraud(ctx context.Context, uid string) error {
	err := c.patchUser(ctx, "fraud", uid)
	if err != nil {
		return err
	}
	c.queries.InvalidatePrefix(ctx, query.PropertiesPrefix())
	return nil
}

// DeleteUser removes a backend user record.
func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(uid), nil, "delete_user", true)
	}, query.AllUsersKey(), query.UserKey(uid))
	return err
}

func (c *Client) patchUser(ctx context.Context, action, uid string) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%s/%s", action, url.PathEscape(uid)), nil, "patch_user_"+action, true)
	}, query.AllUsersKey(), query.UserKey(uid))
	return err
}
