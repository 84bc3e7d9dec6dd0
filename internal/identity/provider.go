package identity

import (
	"context"
	"time"

	"nestquest/internal/models"
)

// Account is the provider's view of a signed-in user, including the ID
// token the session store exchanges for a bearer credential.
type Account struct {
	UID          string
	Email        string
	DisplayName  string
	PhotoURL     string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Identity converts the provider account into the read-only identity shape
// consumers see.
func (a *Account) Identity() *models.Identity {
	return &models.Identity{
		UID:         a.UID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		PhotoURL:    a.PhotoURL,
	}
}

// SessionEvent is a provider session-change notification. A nil Account
// means the provider session was lost or signed out.
type SessionEvent struct {
	Account *Account
}

// Provider wraps the external identity service. The session store is the
// sole subscriber of session-change events.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Account, error)
	SignIn(ctx context.Context, email, password string) (*Account, error)
	UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) error
	// Refresh exchanges the current refresh token for a fresh ID token and
	// emits a session-change event with the renewed account.
	Refresh(ctx context.Context) (*Account, error)
	BeginConsent(ctx context.Context) (*Account, error)
	SignOut(ctx context.Context) error
	Subscribe(handler func(SessionEvent)) (unsubscribe func(), err error)
}
