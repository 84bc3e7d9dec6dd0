package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	apperrors "nestquest/internal/errors"
	"nestquest/internal/identity"
	"nestquest/internal/models"
	"nestquest/pkg/logger"
	"nestquest/pkg/metrics"
)

// Phase is the session state machine. Loading is the only transient phase;
// it is re-entered solely while a provider session-change event resolves.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseAuthenticated
	PhaseAnonymous
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// Backend is the slice of the marketplace API the session store needs for
// user-record sync and credential minting.
type Backend interface {
	GetUser(ctx context.Context, uid string) (*models.RoleRecord, error)
	CreateUser(ctx context.Context, record *models.RoleRecord) error
	MintToken(ctx context.Context, record *models.RoleRecord) (string, error)
}

// Store holds the current authenticated identity and owns the process-wide
// credential slot. Exactly one store exists per running client; it is the
// sole subscriber of provider session-change events.
type Store struct {
	provider identity.Provider
	backend  Backend
	signer   *localSigner

	// handlerMu serializes the session-change handler so the credential is
	// fully persisted before any role-gated request reads it.
	handlerMu sync.Mutex

	mu          sync.RWMutex
	phase       Phase
	identity    *models.Identity
	warning     string
	slot        *slot
	unsubscribe func()

	consentActive atomic.Bool
}

func NewStore(provider identity.Provider, backend Backend, credentials CredentialStore) (*Store, error) {
	credSlot, err := newSlot(credentials)
	if err != nil {
		return nil, err
	}
	signer, err := newLocalSigner()
	if err != nil {
		return nil, err
	}
	return &Store{
		provider: provider,
		backend:  backend,
		signer:   signer,
		slot:     credSlot,
		phase:    PhaseUninitialized,
	}, nil
}

// Start subscribes to provider session-change notifications for the store's
// entire lifetime. The store begins in the loading phase; consumers must
// not render role-gated UI until it settles.
func (s *Store) Start() error {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.mu.Unlock()
		return fmt.Errorf("session store already started")
	}
	s.phase = PhaseLoading
	s.mu.Unlock()

	unsubscribe, err := s.provider.Subscribe(s.handleSessionEvent)
	if err != nil {
		return fmt.Errorf("failed to subscribe to session changes: %v", err)
	}

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	// The provider emits a session-change event when it restores a prior
	// session; until then an idle store settles as anonymous.
	if s.phase == PhaseLoading {
		s.phase = PhaseAnonymous
	}
	s.mu.Unlock()
	return nil
}

// Close tears down the provider subscription. Called on shutdown only.
func (s *Store) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// handleSessionEvent is the single owner of provider session-change
// notifications. It persists or clears the credential before returning, so
// by the time any consumer observes the new phase the slot is consistent.
func (s *Store) handleSessionEvent(event identity.SessionEvent) {
	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()

	s.setPhase(PhaseLoading)

	if event.Account == nil {
		if err := s.slot.clear(); err != nil {
			logger.GlobalLogger.Errorf("Failed to clear persisted credential: %v", err)
		}
		s.mu.Lock()
		s.identity = nil
		s.phase = PhaseAnonymous
		s.mu.Unlock()
		return
	}

	if err := s.slot.write(event.Account.IDToken); err != nil {
		logger.GlobalLogger.Errorf("Failed to persist credential: %v", err)
	}
	s.mu.Lock()
	s.identity = event.Account.Identity()
	s.phase = PhaseAuthenticated
	s.mu.Unlock()
}

// Current returns the signed-in identity, or false when the store is
// anonymous or still resolving a session change. Loading is observable
// separately through Phase.
func (s *Store) Current() (*models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil || s.phase != PhaseAuthenticated {
		return nil, false
	}
	copied := *s.identity
	return &copied, true
}

// Phase returns the current session phase.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Warning returns and clears the most recent non-fatal sync warning.
func (s *Store) Warning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.warning
	s.warning = ""
	return w
}

// Credential returns a point-in-time snapshot of the bearer credential for
// one outgoing request.
func (s *Store) Credential() string {
	return s.slot.Read()
}

// InvalidateCredential drops the stored credential after the backend
// rejects it. The provider session is left alone; the next session-change
// event decides whether the user stays signed in.
func (s *Store) InvalidateCredential() {
	if err := s.slot.clear(); err != nil {
		logger.GlobalLogger.Errorf("Failed to clear rejected credential: %v", err)
	}
}

// Register creates a provider account, sets profile fields, persists the
// backend user record, and stores the minted credential.
func (s *Store) Register(ctx context.Context, email, password, displayName, imageURL string) (*models.Identity, error) {
	account, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		metrics.AuthOperationsTotal.WithLabelValues("register", "failure").Inc()
		return nil, err
	}

	if err := s.provider.UpdateProfile(ctx, account.IDToken, displayName, imageURL); err != nil {
		metrics.AuthOperationsTotal.WithLabelValues("register", "failure").Inc()
		return nil, err
	}
	account.DisplayName = displayName
	account.PhotoURL = imageURL

	record := &models.RoleRecord{
		UID:       account.UID,
		Email:     account.Email,
		Name:      displayName,
		PhotoURL:  imageURL,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	if err := s.backend.CreateUser(ctx, record); err != nil {
		metrics.AuthOperationsTotal.WithLabelValues("register", "failure").Inc()
		return nil, apperrors.NewAuthError(apperrors.AuthNetwork, fmt.Errorf("failed to save user record: %w", err))
	}

	identity := account.Identity()
	if err := s.fetchAndStoreCredential(ctx, record); err != nil {
		metrics.AuthOperationsTotal.WithLabelValues("register", "failure").Inc()
		return nil, err
	}

	metrics.AuthOperationsTotal.WithLabelValues("register", "success").Inc()
	return identity, nil
}

// Login authenticates against the identity provider and stores a bearer
// credential, falling back to a locally-issued one if the backend token
// endpoint fails. Backend sync problems are non-fatal.
func (s *Store) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	account, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		metrics.AuthOperationsTotal.WithLabelValues("login", "failure").Inc()
		return nil, err
	}

	identity := account.Identity()
	s.syncCredentialBestEffort(ctx, identity)

	metrics.AuthOperationsTotal.WithLabelValues("login", "success").Inc()
	return identity, nil
}

// LoginWithProvider opens the external consent flow. Backend failures
// during the post-auth sync step are non-fatal: authentication still
// succeeds and a warning is surfaced.
func (s *Store) LoginWithProvider(ctx context.Context) (*models.Identity, error) {
	if !s.consentActive.CompareAndSwap(false, true) {
		metrics.AuthOperationsTotal.WithLabelValues("login_provider", "failure").Inc()
		return nil, apperrors.NewAuthError(apperrors.AuthConcurrentPopup, fmt.Errorf("a consent flow is already in progress"))
	}
	defer s.consentActive.Store(false)

	account, err := s.provider.BeginConsent(ctx)
	if err != nil {
		metrics.AuthOperationsTotal.WithLabelValues("login_provider", "failure").Inc()
		return nil, err
	}

	identity := account.Identity()

	// Ensure a backend user record exists, creating one on first sign-in.
	if _, err := s.backend.GetUser(ctx, account.UID); err != nil {
		if apperrors.IsNotFound(err) {
			record := &models.RoleRecord{
				UID:       account.UID,
				Email:     account.Email,
				Name:      fallbackName(account),
				PhotoURL:  account.PhotoURL,
				Role:      models.RoleUser,
				CreatedAt: time.Now(),
			}
			if createErr := s.backend.CreateUser(ctx, record); createErr != nil {
				s.recordWarning(apperrors.MsgSyncWarning)
				logger.GlobalLogger.Warnf("Failed to save user record after provider sign-in: %v", createErr)
			}
		} else {
			s.recordWarning(apperrors.MsgSyncWarning)
			logger.GlobalLogger.Warnf("Backend unavailable after provider sign-in: %v", err)
		}
	}

	s.syncCredentialBestEffort(ctx, identity)

	metrics.AuthOperationsTotal.WithLabelValues("login_provider", "success").Inc()
	return identity, nil
}

// RefreshCredential asks the provider for a renewed ID token. The
// session-change event the provider emits persists the fresh credential
// before this returns.
func (s *Store) RefreshCredential(ctx context.Context) error {
	s.mu.RLock()
	signedIn := s.phase == PhaseAuthenticated
	s.mu.RUnlock()
	if !signedIn {
		return apperrors.NewAuthError(apperrors.AuthCredentialInvalid, fmt.Errorf("no active session to refresh"))
	}

	if _, err := s.provider.Refresh(ctx); err != nil {
		metrics.AuthOperationsTotal.WithLabelValues("refresh", "failure").Inc()
		return err
	}
	metrics.AuthOperationsTotal.WithLabelValues("refresh", "success").Inc()
	return nil
}

// Logout clears the provider session and the local credential. The
// credential is cleared unconditionally, before the provider call, so a
// failed network sign-out never leaves a usable token behind.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.slot.clear(); err != nil {
		logger.GlobalLogger.Errorf("Failed to clear persisted credential on logout: %v", err)
	}

	s.mu.Lock()
	s.identity = nil
	s.phase = PhaseAnonymous
	s.mu.Unlock()

	if err := s.provider.SignOut(ctx); err != nil {
		metrics.AuthOperationsTotal.WithLabelValues("logout", "failure").Inc()
		return err
	}
	metrics.AuthOperationsTotal.WithLabelValues("logout", "success").Inc()
	return nil
}

// fetchAndStoreCredential mints a backend credential for the record and
// persists it in the slot.
func (s *Store) fetchAndStoreCredential(ctx context.Context, record *models.RoleRecord) error {
	token, err := s.backend.MintToken(ctx, record)
	if err != nil {
		return apperrors.NewAuthError(apperrors.AuthNetwork, fmt.Errorf("failed to mint credential: %w", err))
	}
	if err := s.slot.write(token); err != nil {
		return apperrors.NewAuthError(apperrors.AuthOther, fmt.Errorf("failed to persist credential: %w", err))
	}
	return nil
}

// syncCredentialBestEffort fetches the user's record and a backend
// credential; every failure degrades rather than aborts, ending with a
// locally-issued credential as the last resort.
func (s *Store) syncCredentialBestEffort(ctx context.Context, identity *models.Identity) {
	record, err := s.backend.GetUser(ctx, identity.UID)
	if err != nil {
		record = &models.RoleRecord{
			UID:      identity.UID,
			Email:    identity.Email,
			Name:     identity.DisplayName,
			PhotoURL: identity.PhotoURL,
			Role:     models.RoleUser,
		}
		logger.GlobalLogger.Warnf("Failed to fetch user record, using defaults: uid=%s, error=%v", identity.UID, err)
	}

	token, err := s.backend.MintToken(ctx, record)
	if err != nil {
		logger.GlobalLogger.Warnf("Failed to mint backend credential, issuing local fallback: uid=%s, error=%v", identity.UID, err)
		s.recordWarning(apperrors.MsgSyncWarning)
		token, err = s.signer.mint(identity, record.Role)
		if err != nil {
			logger.GlobalLogger.Errorf("Failed to mint local credential: %v", err)
			return
		}
	}

	if err := s.slot.write(token); err != nil {
		logger.GlobalLogger.Errorf("Failed to persist credential: %v", err)
	}
}

func (s *Store) recordWarning(message string) {
	s.mu.Lock()
	s.warning = message
	s.mu.Unlock()
}

func (s *Store) setPhase(phase Phase) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}

func fallbackName(account *identity.Account) string {
	if account.DisplayName != "" {
		return account.DisplayName
	}
	// Mirror the provider's convention of deriving a name from the email
	// local part when the profile has none.
	for i, r := range account.Email {
		if r == '@' {
			return account.Email[:i]
		}
	}
	return account.Email
}
