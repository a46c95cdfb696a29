// internal/session/permissions.go
package session

// Permission codes used by the terminal surface
const (
	PermSalesView      = "sales.view"
	PermSalesCreate    = "sales.create"
	PermSalesEdit      = "sales.edit"
	PermSalesVoid      = "sales.void"
	PermPaymentsCreate = "payments.create"
)

// PermissionSet is the permission-code membership of the current principal.
// It is rebuilt in full on every login and /me refresh. The zero value is a
// valid, empty set that denies everything.
type PermissionSet struct {
	codes     map[string]struct{}
	superuser bool
}

// NewPermissionSet builds a set from the backend's code list
func NewPermissionSet(codes []string, superuser bool) PermissionSet {
	set := PermissionSet{
		codes:     make(map[string]struct{}, len(codes)),
		superuser: superuser,
	}
	for _, code := range codes {
		set.codes[code] = struct{}{}
	}
	return set
}

// Can reports whether the principal holds the exact permission code.
// A superuser passes every check. Safe on the zero value.
func (s PermissionSet) Can(code string) bool {
	if s.superuser {
		return true
	}
	_, ok := s.codes[code]
	return ok
}

// IsSuperuser reports the superuser short-circuit flag
func (s PermissionSet) IsSuperuser() bool {
	return s.superuser
}
