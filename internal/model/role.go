package model

// Role is a board capability level, totally ordered owner > editor > viewer.
type Role string

const (
	RoleOwner  Role = "owner"  // delete board, grant/revoke, edit, read
	RoleEditor Role = "editor" // edit, read
	RoleViewer Role = "viewer" // read only
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleOwner:  3,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants every capability of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Grantable reports whether r may be the subject of an explicit grant.
// Ownership is tied to board creation and is never granted or revoked.
func (r Role) Grantable() bool {
	return r == RoleEditor || r == RoleViewer
}
