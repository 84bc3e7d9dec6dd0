package models

import "time"

// Identity is the authenticated end-user as known to the identity provider.
// It is owned exclusively by the session store; consumers treat it as
// read-only.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Role is the authorization category stored by the backend. It controls
// which dashboard views and actions are shown; privileged mutations are
// independently authorized server-side regardless of the displayed role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAgent || r == RoleAdmin
}

// RoleRecord is the backend user record. Exactly one record exists per
// identity; the provider-issued UID is the canonical lookup key and email
// is a display field only.
type RoleRecord struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Role      Role      `json:"role"`
	Verified  bool      `json:"verified,omitempty"`
	Fraud     bool      `json:"fraud,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
