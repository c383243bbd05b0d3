package types

import (
	"fmt"
	"strings"
)

// Permission is a caller's privilege level. Levels are ordered: a command
// runs only when the caller's level is at least the command's level.
type Permission int

const (
	PermissionUser Permission = iota
	PermissionServerAdmin
	PermissionServerOwner
	PermissionAdmin
	PermissionOwner
)

var permissionNames = map[Permission]string{
	PermissionUser:        "User",
	PermissionServerAdmin: "ServerAdmin",
	PermissionServerOwner: "ServerOwner",
	PermissionAdmin:       "Admin",
	PermissionOwner:       "Owner",
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Permission(%d)", int(p))
}

// Satisfies reports whether p is high enough to run a command requiring required.
func (p Permission) Satisfies(required Permission) bool {
	return p >= required
}

func (p Permission) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Permission) UnmarshalText(text []byte) error {
	parsed, err := ParsePermission(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func ParsePermission(s string) (Permission, error) {
	for p, name := range permissionNames {
		if strings.EqualFold(name, s) {
			return p, nil
		}
	}
	return PermissionUser, fmt.Errorf("unknown permission level %q", s)
}

// Ptr returns a pointer to p, for declarations that override an inherited level.
func (p Permission) Ptr() *Permission {
	return &p
}
