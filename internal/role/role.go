package role

import "fmt"

type Role string

const (
	Admin      Role = "ADMIN"
	Operator   Role = "OPERATOR"
	Manager    Role = "MANAGER"
	Staff      Role = "STAFF"
	Consultant Role = "CONSULTANT"
	Customer   Role = "CUSTOMER"
	KOL        Role = "KOL"
)

func All() []Role {
	return []Role{Admin, Operator, Manager, Staff, Consultant, Customer, KOL}
}

func Parse(s string) (Role, error) {
	switch Role(s) {
	case Admin, Operator, Manager, Staff, Consultant, Customer, KOL:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

// Set is an authorized-role list. An empty Set authorizes nobody.
type Set []Role

func Of(roles ...Role) Set { return Set(roles) }

// Any authorizes every known role.
func Any() Set { return Set(All()) }

func (s Set) Contains(r Role) bool {
	for _, x := range s {
		if x == r {
			return true
		}
	}
	return false
}
