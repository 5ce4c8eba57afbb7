package auth

// UserContext is the runtime identity of an authenticated caller, built from
// validated token claims. It is constructed once per request and never
// mutated afterwards.
type UserContext struct {
	// UserID is the unique caller identifier (token subject).
	UserID string

	// Username is the display name claim, empty if the token omits it.
	Username string

	// Roles are the role names assigned to the caller.
	Roles []string

	// Permissions are explicit grants beyond the caller's role defaults.
	Permissions []string
}

// HasRole reports whether the caller holds the given role.
func (u UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasExplicitPermission reports whether the permission was granted directly
// on the token, independent of any role.
func (u UserContext) HasExplicitPermission(perm Permission) bool {
	for _, p := range u.Permissions {
		if p == string(perm) {
			return true
		}
	}
	return false
}
