package model

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
)

func (r Role) Valid() bool {
	return r == RoleGuest || r == RoleHost
}

// Actor is the caller identity handed to every operation explicitly.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsGuest(guestID string) bool {
	return a.Role == RoleGuest && a.ID != "" && a.ID == guestID
}

func (a Actor) IsHost(hostID string) bool {
	return a.Role == RoleHost && a.ID != "" && a.ID == hostID
}
