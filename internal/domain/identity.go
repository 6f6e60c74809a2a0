package domain

// PrivilegedID is the subject id of the configured privileged identity.
// Stored users always get a UUID, so the two never collide.
const PrivilegedID = "admin"

// Identity is the caller resolved for one request.
type Identity interface {
	ID() string
	Email() string
	Role() Role
	IsPrivileged() bool
	Profile() Profile
}

// PrivilegedIdentity is the statically configured admin account. It has no row in
// the users table.
type PrivilegedIdentity struct {
	email string
}

// NewPrivilegedIdentity returns the privileged identity for the configured email.
func NewPrivilegedIdentity(email string) PrivilegedIdentity {
	return PrivilegedIdentity{email: email}
}

func (p PrivilegedIdentity) ID() string         { return PrivilegedID }
func (p PrivilegedIdentity) Email() string      { return p.email }
func (p PrivilegedIdentity) Role() Role         { return RoleAdmin }
func (p PrivilegedIdentity) IsPrivileged() bool { return true }

func (p PrivilegedIdentity) Profile() Profile {
	return Profile{ID: PrivilegedID, Name: "Admin", Email: p.email, Role: RoleAdmin}
}

// StoredIdentity wraps a user loaded from the store.
type StoredIdentity struct {
	User *User
}

func (s StoredIdentity) ID() string         { return s.User.ID }
func (s StoredIdentity) Email() string      { return s.User.Email }
func (s StoredIdentity) Role() Role         { return s.User.Role }
func (s StoredIdentity) IsPrivileged() bool { return false }
func (s StoredIdentity) Profile() Profile   { return s.User.Profile() }

// HasRole reports whether id carries one of the allowed roles.
func HasRole(id Identity, allowed ...Role) bool {
	for _, r := range allowed {
		if id.Role() == r {
			return true
		}
	}
	return false
}
