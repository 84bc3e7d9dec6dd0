package models

import "time"

// WishlistEntry links a user to a saved listing.
type WishlistEntry struct {
	ID            string    `json:"_id"`
	UserEmail     string    `json:"userEmail"`
	PropertyID    string    `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle,omitempty"`
	Location      string    `json:"location,omitempty"`
	Image         string    `json:"image,omitempty"`
	PriceRange    string    `json:"priceRange,omitempty"`
	AgentName     string    `json:"agentName,omitempty"`
	AddedAt       time.Time `json:"addedAt,omitempty"`
}
