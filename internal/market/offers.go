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

// AgentOffers returns the offers made on an agent's listings.
func (c *Client) AgentOffers(ctx context.Context, agentEmail string) ([]models.Offer, error) {
	data, err := c.queries.Query(ctx, query.AgentOffersKey(agentEmail), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/offers/agent/"+url.PathEscape(agentEmail), "agent_offers")
	})
	if err != nil {
		return nil, err
	}

	var offers []models.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %v", err)
	}
	return offers, nil
}

// UserOffers returns a buyer's offers and completed purchases.
func (c *Client) UserOffers(ctx context.Context, buyerEmail string) ([]models.Offer, error) {
	data, err := c.queries.Query(ctx, query.UserOffersKey(buyerEmail), func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, "/offers/user/"+url.PathEscape(buyerEmail), "user_offers")
	})
	if err != nil {
		return nil, err
	}

	var offers []models.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %v", err)
	}
	return offers, nil
}

// CreateOffer submits a buyer offer on a listing.
func (c *Client) CreateOffer(ctx context.Context, input *models.OfferInput) (*models.Offer, error) {
	data, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPost, "/offers", input, "create_offer", true)
	}, query.UserOffersKey(input.BuyerEmail), query.AgentOffersKey(input.AgentEmail))
	if err != nil {
		return nil, err
	}

	var offer models.Offer
	if err := json.Unmarshal(data, &offer); err != nil {
		return nil, fmt.Errorf("failed to decode offer: %v", err)
	}
	return &offer, nil
}

// AcceptOffer accepts one offer; the backend rejects every competing offer
// on the same listing. Both the agent's offer list and the buyer's
// purchase list go stale.
func (c *Client) AcceptOffer(ctx context.Context, offerID, agentEmail, buyerEmail string) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPatch, "/offers/accept/"+url.PathEscape(offerID), nil, "accept_offer", true)
	}, query.AgentOffersKey(agentEmail), query.UserOffersKey(buyerEmail))
	return err
}

// RejectOffer declines one offer.
func (c *Client) RejectOffer(ctx context.Context, offerID, agentEmail, buyerEmail string) error {
	_, err := c.queries.Mutate(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPatch, "/offers/reject/"+url.PathEscape(offerID), nil, "reject_offer", true)
	}, query.AgentOffersKey(agentEmail), query.UserOffersKey(buyerEmail))
	return err
}
