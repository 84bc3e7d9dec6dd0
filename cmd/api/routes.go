package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"nestquest/internal/middleware"
	"nestquest/internal/models"
	"nestquest/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "net/http/pprof"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.setupOperationalRoutes()
	a.setupSessionRoutes()
	a.setupDashboardRoutes()
	a.setupAPIRoutes()
}

// setupOperationalRoutes configures health, metrics and profiling
func (a *App) setupOperationalRoutes() {
	a.Router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := a.Market.Ping(ctx); err != nil {
			logger.GlobalLogger.Warnf("Backend ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "marketplace API unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "session": a.Session.Phase().String()})
	})

	// Expose pprof profiling endpoints (disable in production)
	if os.Getenv("ENV") != "production" {
		a.Router.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	// Expose Prometheus metrics endpoint
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupSessionRoutes configures sign-in and session inspection routes
func (a *App) setupSessionRoutes() {
	auth := a.Router.Group("/api/auth")
	{
		auth.POST("/register", a.SessionHandler.Register)
		auth.POST("/login", a.SessionHandler.Login)
		auth.POST("/login/provider", a.SessionHandler.LoginWithProvider)
		auth.POST("/refresh", a.SessionHandler.Refresh)
		auth.POST("/logout", a.SessionHandler.Logout)
		auth.GET("/session", a.SessionHandler.Session)
		auth.GET("/nav", a.SessionHandler.Nav)
	}
}

// setupDashboardRoutes guards the dashboard shell: unauthenticated
// browsers are redirected to the login page with the destination
// preserved, and sections outside the caller's role return 403.
func (a *App) setupDashboardRoutes() {
	dashboard := a.Router.Group("/dashboard")
	dashboard.Use(middleware.RequireSession(a.Session))
	dashboard.Use(middleware.RequireRoleAccess(a.Session, a.Resolver))
	{
		// Catch-all also serves the bare /dashboard via trailing-slash redirect.
		dashboard.GET("/*section", a.SessionHandler.Dashboard)
	}
}

// setupAPIRoutes configures the data routes
func (a *App) setupAPIRoutes() {
	api := a.Router.Group("/api")

	// Public routes
	api.GET("/properties", a.PropertyHandler.ListProperties)
	api.GET("/properties/advertised", a.PropertyHandler.AdvertisedProperties)
	api.GET("/properties/:id", a.PropertyHandler.GetProperty)
	api.GET("/properties/:id/reviews", a.ReviewHandler.ForProperty)
	api.GET("/reviews/latest", a.ReviewHandler.Latest)

	// Signed-in routes
	user := api.Group("")
	user.Use(middleware.RequireSession(a.Session))
	{
		user.GET("/wishlist", a.WishlistHandler.List)
		user.POST("/wishlist", a.WishlistHandler.Add)
		user.DELETE("/wishlist/:id", a.WishlistHandler.Remove)

		user.GET("/offers", a.OfferHandler.UserOffers)
		user.POST("/offers", a.OfferHandler.CreateOffer)

		user.GET("/reviews/mine", a.ReviewHandler.Mine)
		user.POST("/reviews", a.ReviewHandler.Add)
		user.DELETE("/reviews/:id", a.ReviewHandler.Delete)
	}

	// Agent routes
	agent := api.Group("/agent")
	agent.Use(middleware.RequireSession(a.Session))
	agent.Use(middleware.RequireRole(a.Session, a.Resolver, models.RoleAgent))
	{
		agent.GET("/properties", a.PropertyHandler.AgentProperties)
		agent.GET("/properties/sold", a.PropertyHandler.SoldProperties)
		agent.POST("/properties", a.PropertyHandler.CreateProperty)
		agent.DELETE("/properties/:id", a.PropertyHandler.DeleteProperty)

		agent.GET("/offers", a.OfferHandler.AgentOffers)
		agent.PATCH("/offers/accept/:id", a.OfferHandler.AcceptOffer)
		agent.PATCH("/offers/reject/:id", a.OfferHandler.RejectOffer)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.RequireSession(a.Session))
	admin.Use(middleware.RequireRole(a.Session, a.Resolver, models.RoleAdmin))
	{
		admin.GET("/properties", a.PropertyHandler.AdminProperties)
		admin.PATCH("/properties/verify/:id", a.PropertyHandler.VerifyProperty)
		admin.PATCH("/properties/reject/:id", a.PropertyHandler.RejectProperty)
		admin.PATCH("/properties/advertise/:id", a.PropertyHandler.AdvertiseProperty)

		admin.GET("/users", a.UserHandler.ListUsers)
		admin.PATCH("/users/admin/:uid", a.UserHandler.MakeAdmin)
		admin.PATCH("/users/agent/:uid", a.UserHandler.MakeAgent)
		admin.PATCH("/users/fraud/:uid", a.UserHandler.MarkFraud)
		admin.DELETE("/users/:uid", a.UserHandler.DeleteUser)
	}
}
