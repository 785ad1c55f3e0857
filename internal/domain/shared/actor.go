package shared

import "github.com/google/uuid"

// Role is the coarse authorization role carried by an authenticated caller
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Actor is the authenticated caller of an application operation
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// NewActor creates an actor, treating unknown roles as a regular user
func NewActor(userID uuid.UUID, role string) Actor {
	r := RoleUser
	if Role(role) == RoleAdmin {
		r = RoleAdmin
	}
	return Actor{UserID: userID, Role: r}
}

// IsAdmin returns true for admin callers
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess returns true if the actor may read or mutate a record owned by ownerID
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.UserID == ownerID
}

// OwnerScope returns the owner id list queries must be restricted to,
// or nil when the actor may see every owner's data.
func (a Actor) OwnerScope() *uuid.UUID {
	if a.IsAdmin() {
		return nil
	}
	id := a.UserID
	return &id
}
