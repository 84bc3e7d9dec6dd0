package handlers

import (
	"net/http"

	"nestquest/internal/market"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes the admin user-management actions.
type UserHandler struct {
	market *market.Client
}

func NewUserHandler(m *market.Client) *UserHandler {
	return &UserHandler{market: m}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.market.ListUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) MakeAdmin(c *gin.Context) {
	if err := h.market.MakeAdmin(c.Request.Context(), c.Param("uid")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user promoted to admin"})
}

func (h *UserHandler) MakeAgent(c *gin.Context) {
	if err := h.market.MakeAgent(c.Request.Context(), c.Param("uid")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user promoted to agent"})
}

// MarkFraud flags an agent. Their listings disappear from the public
// views, which is why the market client also drops the cached property
// lists here.
func (h *UserHandler) MarkFraud(c *gin.Context) {
	if err := h.market.MarkFraud(c.Request.Context(), c.Param("uid")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user marked as fraud"})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.market.DeleteUser(c.Request.Context(), c.Param("uid")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
