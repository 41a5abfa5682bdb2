package domain

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleStaff  Role = "STAFF"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleStaff || r == RoleAdmin
}

// Actor is the verified caller handed over by the identity layer.
type Actor struct {
	PartyID int64 `json:"party_id"`
	Role    Role  `json:"role"`
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

func (a Actor) IsClient() bool {
	return a.Role == RoleClient
}

// Owns reports whether a is the client that made r.
func (a Actor) Owns(r *Reservation) bool {
	return a.IsClient() && r.ClientID == a.PartyID
}
