package handlers

import (
	"net/http"
	"strconv"

	"nestquest/internal/market"
	"nestquest/internal/models"
	"nestquest/internal/session"
	"nestquest/internal/validators"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	market    *market.Client
	store     *session.Store
	validator validators.PropertyValidator
}

func NewPropertyHandler(m *market.Client, store *session.Store, v validators.PropertyValidator) *PropertyHandler {
	return &PropertyHandler{market: m, store: store, validator: v}
}

// ListProperties returns the public verified listing with pagination,
// search and price filters passed straight through to the backend.
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	minPrice, _ := strconv.ParseInt(c.DefaultQuery("minPrice", "0"), 10, 64)
	maxPrice, _ := strconv.ParseInt(c.DefaultQuery("maxPrice", "0"), 10, 64)

	params := models.PropertyListParams{
		Page:     page,
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}

	properties, err := h.market.ListProperties(c.Request.Context(), params)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *PropertyHandler) GetProperty(c *gin.Context) {
	property, err := h.market.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) AdvertisedProperties(c *gin.Context) {
	properties, err := h.market.AdvertisedProperties(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// AgentProperties lists the signed-in agent's own listings.
func (h *PropertyHandler) AgentProperties(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	properties, err := h.market.AgentProperties(c.Request.Context(), identity.Email)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *PropertyHandler) SoldProperties(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	properties, err := h.market.SoldProperties(c.Request.Context(), identity.Email)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// CreateProperty validates the submission locally before any network
// round trip, so a bad price range never reaches the backend.
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input models.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.AgentEmail = identity.Email
	if input.AgentName == "" {
		input.AgentName = identity.DisplayName
	}

	if err := h.validator.ValidateCreate(&input); err != nil {
		c.Error(err)
		return
	}

	property, err := h.market.CreateProperty(c.Request.Context(), &input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.market.DeleteProperty(c.Request.Context(), c.Param("id"), identity.Email); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "property deleted"})
}

// Admin moderation actions below.

func (h *PropertyHandler) AdminProperties(c *gin.Context) {
	properties, err := h.market.AdminProperties(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *PropertyHandler) VerifyProperty(c *gin.Context) {
	if err := h.market.VerifyProperty(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "property verified"})
}

func (h *PropertyHandler) RejectProperty(c *gin.Context) {
	if err := h.market.RejectProperty(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "property rejected"})
}

func (h *PropertyHandler) AdvertiseProperty(c *gin.Context) {
	if err := h.market.AdvertiseProperty(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "property advertised"})
}
