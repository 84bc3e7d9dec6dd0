package session

import (
	"crypto/rand"
	"fmt"
	"time"

	"nestquest/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// localClaims mirror the backend-minted credential so the marketplace API
// accepts either during a backend outage window.
type localClaims struct {
	UID      string      `json:"uid"`
	Email    string      `json:"email"`
	Name     string      `json:"name,omitempty"`
	PhotoURL string      `json:"photoURL,omitempty"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// localSigner mints a locally-issued fallback credential when the backend
// token endpoint is unreachable. The key is ephemeral per process.
type localSigner struct {
	key []byte
}

func newLocalSigner() (*localSigner, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate local signing key: %v", err)
	}
	return &localSigner{key: key}, nil
}

func (s *localSigner) mint(identity *models.Identity, role models.Role) (string, error) {
	if identity == nil || identity.UID == "" {
		return "", fmt.Errorf("identity is required to mint a credential")
	}
	now := time.Now()
	claims := &localClaims{
		UID:      identity.UID,
		Email:    identity.Email,
		Name:     identity.DisplayName,
		PhotoURL: identity.PhotoURL,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    "nestquest-local",
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign local credential: %v", err)
	}
	return signed, nil
}
