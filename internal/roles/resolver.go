package roles

import (
	"context"
	"time"

	apperrors "nestquest/internal/errors"
	"nestquest/internal/models"
	"nestquest/pkg/logger"
)

// UserAPI is the slice of the marketplace client the resolver needs.
type UserAPI interface {
	GetUser(ctx context.Context, uid string) (*models.RoleRecord, error)
	CreateUser(ctx context.Context, record *models.RoleRecord) error
}

// Resolver determines the authorization role for a session identity by
// querying the backend user record, creating one if absent.
//
// The resolver fails open: on any backend error it returns the default
// user role instead of surfacing an error. The role only gates which views
// are shown; every privileged mutation is re-authorized server-side.
type Resolver struct {
	api UserAPI
}

func NewResolver(api UserAPI) *Resolver {
	return &Resolver{api: api}
}

// Resolve returns the role for the identity. A fresh identity with no
// backend record gets exactly one default record created; repeat calls
// find the record and create nothing.
func (r *Resolver) Resolve(ctx context.Context, identity *models.Identity) models.Role {
	if identity == nil || identity.UID == "" {
		return models.RoleUser
	}

	record, err := r.api.GetUser(ctx, identity.UID)
	if err == nil {
		if record.Role.Valid() {
			return record.Role
		}
		logger.GlobalLogger.Warnf("Backend returned unknown role %q for uid=%s, defaulting to user", record.Role, identity.UID)
		return models.RoleUser
	}

	if apperrors.IsNotFound(err) {
		fresh := &models.RoleRecord{
			UID:       identity.UID,
			Email:     identity.Email,
			Name:      identity.DisplayName,
			PhotoURL:  identity.PhotoURL,
			Role:      models.RoleUser,
			CreatedAt: time.Now(),
		}
		if createErr := r.api.CreateUser(ctx, fresh); createErr != nil {
			logger.GlobalLogger.Warnf("Failed to create user record: uid=%s, error=%v", identity.UID, createErr)
		}
		return models.RoleUser
	}

	logger.GlobalLogger.Warnf("Role lookup failed, defaulting to user: uid=%s, error=%v", identity.UID, err)
	return models.RoleUser
}
