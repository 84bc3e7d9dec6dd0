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

// Wishlist returns a user's saved listings.
func (c *Client) Wishlist(ctx context.Context, userEmail string) ([]models.WishlistEntry, error) {
	data, err := c.queries.Query(ctx, query.WishlistKey(userEmail), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/wishlist/"+url.PathEscape(userEmail), "wishlist")
	})
	if err != nil {
		return nil, err
	}

	var entries []models.WishlistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %v", err)
	}
	return entries, nil
}

// AddToWishlist saves a listing for the user.
func (c *Client) AddToWishlist(ctx context.Context, entry *models.WishlistEntry) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPost, "/wishlist", entry, "add_wishlist", true)
	}, query.WishlistKey(entry.UserEmail))
	return err
}

// RemoveFromWishlist drops a saved listing.
func (c *Client) RemoveFromWishlist(ctx context.Context, entryID, userEmail string) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodDelete, "/wishlist/"+url.PathEscape(entryID), nil, "remove_wishlist", true)
	}, query.WishlistKey(userEmail))
	return err
}
