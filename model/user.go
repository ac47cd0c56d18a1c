package model

// User roles. Guests are bound to exactly one service; admins curate
// every collection. Role values match the stored snapshots of the
// original deployment.
const (
	RoleAdmin = "admin"
	RoleGuest = "invitado"
)

// DefaultAdminUsername names the seeded administrator account. It can
// never be deleted.
const DefaultAdminUsername = "admin"

// User represents a system user. Credentials are plain strings compared
// verbatim at login; there is no real access-control boundary in this
// system, role checks are advisory.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Service  string `json:"service,omitempty"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) IsGuest() bool { return u.Role == RoleGuest }
