// internal/domain/user/entity.go
package user

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidProfile = errors.New("user: invalid profile")
	ErrNotFound       = errors.New("user: not found")
)

// Roles. Admin authority is granted only on an exact role match, looked up on
// every privileged request — never cached inside the session credential.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// CurrentSchemaVersion is the profile document schema version.
// Decoders backfill older documents up to this version in one explicit
// migration step (see repairProfileDoc in the Firestore adapter) instead of
// patching fields ad hoc on every read.
const CurrentSchemaVersion = 2

// Profile is the per-user account record.
// - docId = uid (Firestore)
type Profile struct {
	UID           string    `json:"uid" firestore:"uid"`
	Email         string    `json:"email" firestore:"email"`
	DisplayName   string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	Role          string    `json:"role" firestore:"role"`
	SchemaVersion int       `json:"schemaVersion" firestore:"schemaVersion"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// New creates a customer profile.
func New(uid, email, displayName string, now time.Time) (*Profile, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrInvalidProfile
	}
	return &Profile{
		UID:           uid,
		Email:         strings.TrimSpace(email),
		DisplayName:   strings.TrimSpace(displayName),
		Role:          RoleCustomer,
		SchemaVersion: CurrentSchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsAdmin reports whether the profile grants elevated operations.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
