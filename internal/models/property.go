package models

import "time"

// PropertyStatus is the admin verification state of a listing.
type PropertyStatus string

const (
	PropertyPending  PropertyStatus = "pending"
	PropertyVerified PropertyStatus = "verified"
	PropertyRejected PropertyStatus = "rejected"
)

// Property is a backend-owned listing. The client never invents
// identifiers; it only reads, creates, and requests status transitions.
type Property struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	Location    string         `json:"location"`
	Image       string         `json:"image"`
	MinPrice    int64          `json:"minPrice"`
	MaxPrice    int64          `json:"maxPrice"`
	PriceRange  string         `json:"priceRange,omitempty"`
	Description string         `json:"description,omitempty"`
	AgentName   string         `json:"agentName"`
	AgentImage  string         `json:"agentImage,omitempty"`
	AgentEmail  string         `json:"agentEmail"`
	Status      PropertyStatus `json:"status"`
	Advertised  bool           `json:"advertised,omitempty"`
	CreatedAt   time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty"`
}

// PropertyInput is the agent-submitted form for a new listing. Validated
// client-side before any network call; created listings start pending.
type PropertyInput struct {
	Title       string `json:"title" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Image       string `json:"image" validate:"required,url"`
	MinPrice    int64  `json:"minPrice" validate:"required,gt=0"`
	MaxPrice    int64  `json:"maxPrice" validate:"required,gt=0"`
	Description string `json:"description"`
	AgentName   string `json:"agentName"`
	AgentImage  string `json:"agentImage"`
	AgentEmail  string `json:"agentEmail" validate:"required,email"`
}

// PropertyListParams are the list-screen query parameters. Their encoding
// order is fixed so equal parameter sets always map to the same cache key.
type PropertyListParams struct {
	Page     int
	Search   string
	SortBy   string
	MinPrice int64
	MaxPrice int64
}
