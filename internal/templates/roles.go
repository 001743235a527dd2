// Package templates holds the boilerplate catalog: which file roles each
// declared type requests, the template text for each role, and placeholder
// rendering.
package templates

// Role is one of the file kinds a route directory can contain.
type Role string

const (
	RolePage    Role = "page"
	RoleLayout  Role = "layout"
	RoleLoading Role = "loading"
	RoleError   Role = "error"
)

// TypeDefault requests every role.
const TypeDefault = "default"

// DefaultExtension is appended to a role name to form its file name.
const DefaultExtension = ".tsx"

// AllRoles lists the roles in canonical order.
var AllRoles = []Role{RolePage, RoleLayout, RoleLoading, RoleError}

// FileName returns the canonical on-disk name for r.
func (r Role) FileName() string {
	return string(r) + DefaultExtension
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// DeclaredTypes lists every recognised declared type, default last.
func DeclaredTypes() []string {
	types := make([]string, 0, len(AllRoles)+1)
	for _, r := range AllRoles {
		types = append(types, string(r))
	}
	return append(types, TypeDefault)
}

// RolesForType returns the roles requested by a declared type, or nil for an
// unrecognised type.
func RolesForType(fileType string) []Role {
	if fileType == TypeDefault {
		roles := make([]Role, len(AllRoles))
		copy(roles, AllRoles)
		return roles
	}
	for _, r := range AllRoles {
		if string(r) == fileType {
			return []Role{r}
		}
	}
	return nil
}
