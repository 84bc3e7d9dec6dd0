package query

import (
	"fmt"
	"strings"

	"nestquest/internal/models"
)

// Cache keys are the tuple of resource path and ordered parameters; the
// same parameter set must always render the same key.

// cache key for the public property list with its screen parameters.
func PropertiesListKey(p models.PropertyListParams) string {
	var b strings.Builder
	b.WriteString("properties:list")
	fmt.Fprintf(&b, ":page:%d", p.Page)
	if p.Search != "" {
		fmt.Fprintf(&b, ":search:%s", strings.ToLower(strings.TrimSpace(p.Search)))
	}
	if p.SortBy != "" {
		fmt.Fprintf(&b, ":sort:%s", p.SortBy)
	}
	if p.MinPrice > 0 || p.MaxPrice > 0 {
		fmt.Fprintf(&b, ":price:%d-%d", p.MinPrice, p.MaxPrice)
	}
	return b.String()
}

// cache key prefix shared by every property list variant.
func PropertiesPrefix() string {
	return "properties:list"
}

// cache key for the admin view of all properties.
func AdminPropertiesKey() string {
	return "properties:admin"
}

// cache key for a single property detail page.
func PropertyKey(id string) string {
	return fmt.Sprintf("property:%s", id)
}

// cache key for an agent's own listings.
func AgentPropertiesKey(email string) string {
	return fmt.Sprintf("properties:agent:%s", strings.ToLower(email))
}

// cache key for an agent's sold listings.
func SoldPropertiesKey(email string) string {
	return fmt.Sprintf("properties:sold:%s", strings.ToLower(email))
}

// cache key for the advertised carousel on the home page.
func AdvertisedPropertiesKey() string {
	return "properties:advertised"
}

// cache key for a user's wishlist.
func WishlistKey(email string) string {
	return fmt.Sprintf("wishlist:%s", strings.ToLower(email))
}

// cache key for the latest-reviews strip on the home page.
func LatestReviewsKey(limit int) string {
	return fmt.Sprintf("reviews:latest:limit:%d", limit)
}

// cache key for one property's reviews.
func PropertyReviewsKey(propertyID string) string {
	return fmt.Sprintf("reviews:property:%s", propertyID)
}

// cache key for a user's own reviews.
func UserReviewsKey(email string) string {
	return fmt.Sprintf("reviews:user:%s", strings.ToLower(email))
}

// cache key for offers on an agent's listings.
func AgentOffersKey(email string) string {
	return fmt.Sprintf("offers:agent:%s", strings.ToLower(email))
}

// cache key for a buyer's offers and purchases.
func UserOffersKey(email string) string {
	return fmt.Sprintf("offers:user:%s", strings.ToLower(email))
}

// cache key for the admin user management list.
func AllUsersKey() string {
	return "users:all"
}

// cache key for one backend user record, keyed by provider UID.
func UserKey(uid string) string {
	return fmt.Sprintf("user:%s", uid)
}
