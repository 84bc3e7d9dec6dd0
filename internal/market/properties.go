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

// ListProperties returns the public property list for one page of the
// search screen. Only verified listings are returned by the backend.
func (c *Client) ListProperties(ctx context.Context, params models.PropertyListParams) ([]models.Property, error) {
	key := query.PropertiesListKey(params)
	data, err := c.queries.Query(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/properties?"+encodeListParams(params), "list_properties")
	})
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %v", err)
	}
	return properties, nil
}

// AdminProperties returns every listing regardless of status, for the
// manage-properties screen.
func (c *Client) AdminProperties(ctx context.Context) ([]models.Property, error) {
	data, err := c.queries.Query(ctx, query.AdminPropertiesKey(), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/properties?admin=true", "admin_properties")
	})
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %v", err)
	}
	return properties, nil
}

// GetProperty returns one listing for the detail page.
func (c *Client) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	data, err := c.queries.Query(ctx, query.PropertyKey(id), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/properties/"+url.PathEscape(id), "get_property")
	})
	if err != nil {
		return nil, err
	}

	var property models.Property
	if err := json.Unmarshal(data, &property); err != nil {
		return nil, fmt.Errorf("failed to decode property: %v", err)
	}
	return &property, nil
}

// AgentProperties returns an agent's own listings.
func (c *Client) AgentProperties(ctx context.Context, agentEmail string) ([]models.Property, error) {
	data, err := c.queries.Query(ctx, query.AgentPropertiesKey(agentEmail), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/properties/agent/"+url.PathEscape(agentEmail), "agent_properties")
	})
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %v", err)
	}
	return properties, nil
}

// SoldProperties returns an agent's sold listings.
func (c *Client) SoldProperties(ctx context.Context, agentEmail string) ([]models.Property, error) {
	data, err := c.queries.Query(ctx, query.SoldPropertiesKey(agentEmail), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/properties/sold/"+url.PathEscape(agentEmail), "sold_properties")
	})
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %v", err)
	}
	return properties, nil
}

// AdvertisedProperties returns the advertised carousel for the home page.
func (c *Client) AdvertisedProperties(ctx context.Context) ([]models.Property, error) {
	data, err := c.queries.Query(ctx, query.AdvertisedPropertiesKey(), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/advertised-properties", "advertised_properties")
	})
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %v", err)
	}
	return properties, nil
}

// CreateProperty submits a new listing. The backend stores it with status
// pending until an admin verifies it.
func (c *Client) CreateProperty(ctx context.Context, input *models.PropertyInput) (*models.Property, error) {
	payload := struct {
		models.PropertyInput
		PriceRange string                `json:"priceRange"`
		Status     models.PropertyStatus `json:"status"`
	}{
		PropertyInput: *input,
		PriceRange:    fmt.Sprintf("$%d - $%d", input.MinPrice, input.MaxPrice),
		Status:        models.PropertyPending,
	}

	data, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPost, "/properties", payload, "create_property", true)
	}, query.AgentPropertiesKey(input.AgentEmail))
	if err != nil {
		return nil, err
	}
	c.queries.InvalidatePrefix(ctx, query.PropertiesPrefix())

	var property models.Property
	if err := json.Unmarshal(data, &property); err != nil {
		return nil, fmt.Errorf("failed to decode property: %v", err)
	}
	return &property, nil
}

// VerifyProperty transitions a pending listing to verified.
func (c *Client) VerifyProperty(ctx context.Context, id string) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPatch, "/properties/verify/"+url.PathEscape(id), nil, "verify_property", true)
	}, query.AdminPropertiesKey(), query.PropertyKey(id))
	if err != nil {
		return err
	}
	c.queries.InvalidatePrefix(ctx, query.PropertiesPrefix())
	return nil
}

// RejectProperty transitions a pending listing to rejected.
func (c *Client) RejectProperty(ctx context.Context, id string) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPatch, "/properties/reject/"+url.PathEscape(id), nil, "reject_property", true)
	}, query.AdminPropertiesKey(), query.PropertyKey(id))
	if err != nil {
		return err
	}
	c.queries.InvalidatePrefix(ctx, query.PropertiesPrefix())
	return nil
}

// AdvertiseProperty puts a verified listing into the home-page carousel.
// The backend rejects the transition for non-verified listings.
func (c *Client) AdvertiseProperty(ctx context.Context, id string) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPatch, "/properties/advertise/"+url.PathEscape(id), nil, "advertise_property", true)
	}, query.AdminPropertiesKey(), query.AdvertisedPropertiesKey(), query.PropertyKey(id))
	return err
}

// DeleteProperty removes a listing.
func (c *Client) DeleteProperty(ctx context.Context, id, agentEmail string) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodDelete, "/properties/"+url.PathEscape(id), nil, "delete_property", true)
	}, query.AdminPropertiesKey(), query.AgentPropertiesKey(agentEmail), query.PropertyKey(id))
	if err != nil {
		return err
	}
	c.queries.InvalidatePrefix(ctx, query.PropertiesPrefix())
	return nil
}

// encodeListParams renders the list parameters in a fixed order so equal
// parameter sets produce identical request URLs and cache keys.
func encodeListParams(p models.PropertyListParams) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(p.Page))
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if p.SortBy != "" {
		values.Set("sort", p.SortBy)
	}
	if p.MinPrice > 0 {
		values.Set("minPrice", strconv.FormatInt(p.MinPrice, 10))
	}
	if p.MaxPrice > 0 {
		values.Set("maxPrice", strconv.FormatInt(p.MaxPrice, 10))
	}
	return values.Encode()
}
