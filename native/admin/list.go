package admin

import "errors"

// MaxAdmins caps every membership list, platform and store scope alike.
const MaxAdmins = 10

var (
	ErrTooManyAdmins = errors.New("admin: too many admins")
	ErrAdminExists   = errors.New("admin: admin already exists")
	ErrAdminNotFound = errors.New("admin: admin not found")
	ErrInvalidRole   = errors.New("admin: invalid role")
)

// Role tags the capability granted to a list member.
type Role uint8

const (
	RoleOwner Role = iota
	RoleManager
	RoleViewer
)

// Valid reports whether the role value is within the supported range.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleViewer:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleManager:
		return "manager"
	case RoleViewer:
		return "viewer"
	default:
		return "unknown"
	}
}

// Entry associates an address with its role.
type Entry struct {
	Addr [20]byte
	Role Role
}

// List is a bounded, order-preserving membership set. Insertion order is kept;
// removal closes the gap by shifting later entries left. The zero value is an
// empty list ready for use.
type List struct {
	Entries []Entry
}

// Len returns the current member count.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}

// Add appends a member. It rejects a full list before checking for duplicates
// so that capacity violations surface even for addresses already present.
func (l *List) Add(addr [20]byte, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if len(l.Entries) >= MaxAdmins {
		return ErrTooManyAdmins
	}
	for _, entry := range l.Entries {
		if entry.Addr == addr {
			return ErrAdminExists
		}
	}
	l.Entries = append(l.Entries, Entry{Addr: addr, Role: role})
	return nil
}

// Remove deletes the member, preserving the relative order of the remaining
// entries.
func (l *List) Remove(addr [20]byte) error {
	for i, entry := range l.Entries {
		if entry.Addr == addr {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			return nil
		}
	}
	return ErrAdminNotFound
}

// Contains reports membership.
func (l *List) Contains(addr [20]byte) bool {
	if l == nil {
		return false
	}
	for _, entry := range l.Entries {
		if entry.Addr == addr {
			return true
		}
	}
	return false
}

// RoleOf returns the member's role.
func (l *List) RoleOf(addr [20]byte) (Role, bool) {
	if l == nil {
		return 0, false
	}
	for _, entry := range l.Entries {
		if entry.Addr == addr {
			return entry.Role, true
		}
	}
	return 0, false
}

// HasRole reports whether the address holds one of the given roles.
func (l *List) HasRole(addr [20]byte, roles ...Role) bool {
	role, ok := l.RoleOf(addr)
	if !ok {
		return false
	}
	for _, candidate := range roles {
		if role == candidate {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the list.
func (l *List) Clone() List {
	if l == nil || len(l.Entries) == 0 {
		return List{}
	}
	return List{Entries: append([]Entry(nil), l.Entries...)}
}
