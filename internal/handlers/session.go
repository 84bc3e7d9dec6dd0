package handlers

import (
	"net/http"

	"nestquest/internal/gate"
	"nestquest/internal/models"
	"nestquest/internal/roles"
	"nestquest/internal/session"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	store    *session.Store
	resolver *roles.Resolver
}

func NewSessionHandler(store *session.Store, resolver *roles.Resolver) *SessionHandler {
	return &SessionHandler{store: store, resolver: resolver}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	PhotoURL string `json:"photoURL"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *SessionHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.store.Register(c.Request.Context(), req.Email, req.Password, req.Name, req.PhotoURL)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    identity,
		"warning": h.store.Warning(),
	})
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.store.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    identity,
		"warning": h.store.Warning(),
	})
}

// LoginWithProvider runs the external consent flow. The request blocks
// until the user approves or declines in their browser, so the client
// should use a generous timeout here.
func (h *SessionHandler) LoginWithProvider(c *gin.Context) {
	identity, err := h.store.LoginWithProvider(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    identity,
		"warning": h.store.Warning(),
	})
}

// Refresh renews the bearer credential from the provider's token
// endpoint without disturbing the session.
func (h *SessionHandler) Refresh(c *gin.Context) {
	if err := h.store.RefreshCredential(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "credential refreshed"})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.store.Logout(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Session reports the current session phase and identity. The phase is
// never "loading" by the time the server accepts requests, so callers
// can treat the answer as settled.
func (h *SessionHandler) Session(c *gin.Context) {
	identity, ok := h.store.Current()
	resp := gin.H{"phase": h.store.Phase().String()}
	if ok {
		resp["user"] = identity
	}
	if warning := h.store.Warning(); warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

// Nav returns the dashboard navigation for the current user's role.
// Anonymous callers get the ordinary user navigation since the sidebar
// is purely presentational.
func (h *SessionHandler) Nav(c *gin.Context) {
	role := models.RoleUser
	if identity, ok := h.store.Current(); ok {
		role = h.resolver.Resolve(c.Request.Context(), identity)
	}

	c.JSON(http.StatusOK, gin.H{
		"role": role,
		"nav":  gate.VisibleNav(role),
	})
}

// Dashboard answers the shell request for a dashboard section. The route
// guard has already verified the section is visible to the caller's role,
// so this only has to echo the shell payload.
func (h *SessionHandler) Dashboard(c *gin.Context) {
	identity, _ := h.store.Current()
	role := models.RoleUser
	if v, exists := c.Get("role"); exists {
		if r, ok := v.(models.Role); ok {
			role = r
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user": identity,
		"role": role,
		"nav":  gate.VisibleNav(role),
	})
}
