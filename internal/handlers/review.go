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

type ReviewHandler struct {
	market    *market.Client
	store     *session.Store
	validator validators.ReviewValidator
}

func NewReviewHandler(m *market.Client, store *session.Store, v validators.ReviewValidator) *ReviewHandler {
	return &ReviewHandler{market: m, store: store, validator: v}
}

func (h *ReviewHandler) Latest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))
	reviews, err := h.market.LatestReviews(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) ForProperty(c *gin.Context) {
	reviews, err := h.market.PropertyReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Mine(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	reviews, err := h.market.UserReviews(c.Request.Context(), identity.Email)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Add(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.ReviewerEmail = identity.Email
	if input.ReviewerName == "" {
		input.ReviewerName = identity.DisplayName
	}
	if input.ReviewerImage == "" {
		input.ReviewerImage = identity.PhotoURL
	}

	if err := h.validator.ValidateCreate(&input); err != nil {
		c.Error(err)
		return
	}

	if err := h.market.AddReview(c.Request.Context(), &input); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "review added"})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	identity, ok := h.store.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.market.DeleteReview(c.Request.Context(), c.Param("id"), identity.Email); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
