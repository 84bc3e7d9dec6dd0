package main

import (
	"net/http"
	"os"
	"time"

	"nestquest/internal/handlers"
	"nestquest/internal/identity"
	"nestquest/internal/market"
	"nestquest/internal/middleware"
	"nestquest/internal/query"
	"nestquest/internal/roles"
	"nestquest/internal/session"
	"nestquest/internal/validators"
	"nestquest/pkg/config"
	"nestquest/pkg/keepalive"
	"nestquest/pkg/logger"
	"nestquest/pkg/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// App represents the application structure
type App struct {
	Config   *config.Config
	Router   *gin.Engine
	Session  *session.Store
	Market   *market.Client
	Resolver *roles.Resolver

	SessionHandler  *handlers.SessionHandler
	PropertyHandler *handlers.PropertyHandler
	OfferHandler    *handlers.OfferHandler
	WishlistHandler *handlers.WishlistHandler
	ReviewHandler   *handlers.ReviewHandler
	UserHandler     *handlers.UserHandler

	RateLimiter *middleware.RateLimiter
	KeepAlive   *keepalive.Pinger
	Server      *http.Server
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	app := &App{Config: cfg}

	// Initialize infrastructure
	app.initializeMetrics()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	// Background services
	app.initializeKeepAlive()

	return app
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(rate.Limit(100/60.0), 10)
}

// initialize the query cache, identity provider, session store and
// marketplace client
func (a *App) initializeDependencies() {
	cacheStore := a.buildCacheStore()
	queries := query.NewClient(cacheStore)

	// Market client reads the credential slot lazily so it can be built
	// before the session store that owns the slot.
	a.Market = market.NewClient(a.Config.API.BaseURL, queries,
		market.WithCredentialSource(func() string {
			if a.Session == nil {
				return ""
			}
			return a.Session.Credential()
		}),
		market.WithUnauthorizedHook(func() {
			if a.Session != nil {
				a.Session.InvalidateCredential()
			}
		}),
	)

	consent := identity.NewDeviceFlow(identity.DeviceFlowConfig{
		Issuer:   a.Config.Provider.Issuer,
		ClientID: a.Config.Provider.ClientID,
	})
	provider := identity.NewRESTProvider(identity.RESTProviderConfig{
		APIKey:     a.Config.Provider.APIKey,
		AuthDomain: a.Config.Provider.AuthDomain,
		Consent:    consent,
	})

	credentials := a.buildCredentialStore()
	store, err := session.NewStore(provider, a.Market, credentials)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize session store: %v", err)
		os.Exit(1)
	}
	if err := store.Start(); err != nil {
		logger.GlobalLogger.Errorf("Failed to start session store: %v", err)
		os.Exit(1)
	}
	a.Session = store

	a.Resolver = roles.NewResolver(a.Market)

	// validators
	propertyValidator := validators.NewPropertyValidator()
	offerValidator := validators.NewOfferValidator()
	reviewValidator := validators.NewReviewValidator()

	// handlers
	a.SessionHandler = handlers.NewSessionHandler(a.Session, a.Resolver)
	a.PropertyHandler = handlers.NewPropertyHandler(a.Market, a.Session, propertyValidator)
	a.OfferHandler = handlers.NewOfferHandler(a.Market, a.Session, offerValidator)
	a.WishlistHandler = handlers.NewWishlistHandler(a.Market, a.Session)
	a.ReviewHandler = handlers.NewReviewHandler(a.Market, a.Session, reviewValidator)
	a.UserHandler = handlers.NewUserHandler(a.Market)
}

func (a *App) buildCacheStore() query.Store {
	if a.Config.Cache.Backend == "redis" {
		store, err := query.NewRedisStore(query.RedisConfig{
			Host:     a.Config.Cache.Redis.Host,
			Port:     a.Config.Cache.Redis.Port,
			Password: a.Config.Cache.Redis.Password,
			DB:       a.Config.Cache.Redis.DB,
		})
		if err != nil {
			logger.GlobalLogger.Errorf("Failed to initialize Redis: %v", err)
			os.Exit(1)
		}
		return store
	}
	return query.NewMemoryStore()
}

func (a *App) buildCredentialStore() session.CredentialStore {
	if a.Config.Credential.File == "" {
		return session.NewMemoryCredentialStore()
	}
	store, err := session.NewFileCredentialStore(a.Config.Credential.File)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to open credential file: %v", err)
		os.Exit(1)
	}
	return store
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// start the backend warm-up pinger when enabled
func (a *App) initializeKeepAlive() {
	if !a.Config.KeepAlive.Enabled {
		return
	}
	interval := time.Duration(a.Config.KeepAlive.IntervalMinutes) * time.Minute
	a.KeepAlive = keepalive.NewPinger(a.Market.Ping, interval)
	a.KeepAlive.Start()
}

// cleanup operations
func (a *App) cleanup() {
	if a.KeepAlive != nil {
		a.KeepAlive.Stop()
	}
	a.RateLimiter.Stop()
	a.Session.Close()
}
