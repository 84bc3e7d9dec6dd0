package handlers

import (
	"context"
	"net/http"

	"nestquest/internal/market"
	"nestquest/internal/models"
	"nestquest/internal/session"
	"nestquest/internal/validators"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	market    *market.Client
	store     *session.Store
	validator validators.OfferValidator
}

func NewOfferHandler(m *market.Client, store *session.Store, v validators.OfferValidator) *OfferHandler {
	return &OfferHandler{market: m, store: store, validator: v}
}

func (h *OfferHandler) UserOffers(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	offers, err := h.market.UserOffers(c.Request.Context(), identity.Email)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *OfferHandler) AgentOffers(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	offers, err := h.market.AgentOffers(c.Request.Context(), identity.Email)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

// CreateOffer checks the offered amount against the property's listed
// price range before submitting.
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input models.OfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.BuyerEmail = identity.Email
	if input.BuyerName == "" {
		input.BuyerName = identity.DisplayName
	}

	property, err := h.market.GetProperty(c.Request.Context(), input.PropertyID)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.validator.ValidateCreate(&input, property); err != nil {
		c.Error(err)
		return
	}

	offer, err := h.market.CreateOffer(c.Request.Context(), &input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

func (h *OfferHandler) AcceptOffer(c *gin.Context) {
	h.decide(c, h.market.AcceptOffer, "offer accepted")
}

func (h *OfferHandler) RejectOffer(c *gin.Context) {
	h.decide(c, h.market.RejectOffer, "offer rejected")
}

// decide resolves a pending offer one way or the other. Both sides'
// offer lists get invalidated by the market client so the next load
// reflects the decision.
func (h *OfferHandler) decide(c *gin.Context, action func(ctx context.Context, offerID, agentEmail, buyerEmail string) error, message string) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	buyerEmail := c.Query("buyerEmail")
	if buyerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'buyerEmail' is required"})
		return
	}

	if err := action(c.Request.Context(), c.Param("id"), identity.Email, buyerEmail); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
