package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"nestquest/internal/models"
	"nestquest/internal/query"
)

// LatestReviews returns the newest reviews for the home-page strip.
func (c *Client) LatestReviews(ctx context.Context, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = 3
	}
	data, err := c.queries.Query(ctx, query.LatestReviewsKey(limit), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/reviews/latest?limit="+strconv.Itoa(limit), "latest_reviews")
	})
	if err != nil {
		return nil, err
	}

	var reviews []models.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %v", err)
	}
	return reviews, nil
}

// PropertyReviews returns the reviews on one listing's detail page.
func (c *Client) PropertyReviews(ctx context.Context, propertyID string) ([]models.Review, error) {
	data, err := c.queries.Query(ctx, query.PropertyReviewsKey(propertyID), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/reviews/property/"+url.PathEscape(propertyID), "property_reviews")
	})
	if err != nil {
		return nil, err
	}

	var reviews []models.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %v", err)
	}
	return reviews, nil
}

// UserReviews returns the reviews a user has written.
func (c *Client) UserReviews(ctx context.Context, userEmail string) ([]models.Review, error) {
	data, err := c.queries.Query(ctx, query.UserReviewsKey(userEmail), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/reviews/user/"+url.PathEscape(userEmail), "user_reviews")
	})
	if err != nil {
		return nil, err
	}

	var reviews []models.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %v", err)
	}
	return reviews, nil
}

// AddReview posts a review on a listing.
func (c *Client) AddReview(ctx context.Context, input *models.ReviewInput) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPost, "/reviews", input, "add_review", true)
	}, query.PropertyReviewsKey(input.PropertyID), query.UserReviewsKey(input.ReviewerEmail))
	if err != nil {
		return err
	}
	c.queries.InvalidatePrefix(ctx, "reviews:latest")
	return nil
}

// DeleteReview removes one of the user's own reviews, or any review for an
// admin on the manage-reviews screen.
func (c *Client) DeleteReview(ctx context.Context, reviewID, reviewerEmail string) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodDelete, "/reviews/"+url.PathEscape(reviewID), nil, "delete_review", true)
	}, query.UserReviewsKey(reviewerEmail))
	if err != nil {
		return err
	}
	c.queries.InvalidatePrefix(ctx, "reviews:latest")
	return nil
}
