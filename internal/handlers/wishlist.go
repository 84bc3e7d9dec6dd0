package handlers

import (
	"net/http"

	"nestquest/internal/market"
	"nestquest/internal/models"
	"nestquest/internal/session"

	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	market *market.Client
	store  *session.Store
}

func NewWishlistHandler(m *market.Client, store *session.Store) *WishlistHandler {
	return &WishlistHandler{market: m, store: store}
}

func (h *WishlistHandler) List(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	entries, err := h.market.Wishlist(c.Request.Context(), identity.Email)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *WishlistHandler) Add(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var entry models.WishlistEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry.UserEmail = identity.Email

	if entry.PropertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "propertyId is required"})
		return
	}

	if err := h.market.AddToWishlist(c.Request.Context(), &entry); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "added to wishlist"})
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.market.RemoveFromWishlist(c.Request.Context(), c.Param("id"), identity.Email); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from wishlist"})
}
