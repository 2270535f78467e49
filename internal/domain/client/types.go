package client

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleClient   Role = "client"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleClient:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role may manage price lists and run slot
// generation.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleOperator
}
