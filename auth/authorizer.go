package auth

// AuthorizerConfig configures the permission engine.
type AuthorizerConfig struct {
	// RoleTable maps role names to their permission sets.
	// Default: DefaultRoleTable()
	RoleTable map[string][]Permission

	// BroadAccessRoles are roles allowed to act on accounts they do not own.
	// Default: DefaultBroadAccessRoles()
	BroadAccessRoles []string
}

// Authorizer answers authorization queries against a frozen role table.
// All methods are pure and deterministic: no I/O, no side effects.
type Authorizer struct {
	roles map[string]map[Permission]struct{}
	broad map[string]struct{}
}

// NewAuthorizer creates an authorizer. The role table is copied at
// construction; later mutation of the config has no effect.
func NewAuthorizer(config AuthorizerConfig) *Authorizer {
	if config.RoleTable == nil {
		config.RoleTable = DefaultRoleTable()
	}
	if config.BroadAccessRoles == nil {
		config.BroadAccessRoles = DefaultBroadAccessRoles()
	}

	roles := make(map[string]map[Permission]struct{}, len(config.RoleTable))
	for role, perms := range config.RoleTable {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		roles[role] = set
	}

	broad := make(map[string]struct{}, len(config.BroadAccessRoles))
	for _, r := range config.BroadAccessRoles {
		broad[r] = struct{}{}
	}

	return &Authorizer{roles: roles, broad: broad}
}

// HasPermission reports whether the permission is in the role-derived set of
// any of the caller's roles, or among the caller's explicit grants. Unknown
// roles contribute nothing.
func (a *Authorizer) HasPermission(user UserContext, perm Permission) bool {
	for _, role := range user.Roles {
		if set, ok := a.roles[role]; ok {
			if _, ok := set[perm]; ok {
				return true
			}
		}
	}
	return user.HasExplicitPermission(perm)
}

// HasBroadAccess reports whether any of the caller's roles grants cross-owner
// account access.
func (a *Authorizer) HasBroadAccess(user UserContext) bool {
	for _, role := range user.Roles {
		if _, ok := a.broad[role]; ok {
			return true
		}
	}
	return false
}

// CanCreateAccount reports whether the caller may create accounts. Only the
// capability matters; the target owner is not checked for creation.
func (a *Authorizer) CanCreateAccount(user UserContext, targetOwnerID string) bool {
	return a.HasPermission(user, PermAccountCreate)
}

// CanAccessAccount reports whether the caller may read the account owned by
// ownerID: broad-access roles see every account, everyone else only their own.
func (a *Authorizer) CanAccessAccount(user UserContext, ownerID string) bool {
	if a.HasBroadAccess(user) {
		return true
	}
	return user.UserID != "" && user.UserID == ownerID
}

// CanPerformTransaction reports whether the caller may create a transaction
// against the account owned by accountOwnerID. Requires the create capability
// plus either ownership or a broad-access role.
func (a *Authorizer) CanPerformTransaction(user UserContext, accountOwnerID, transactionType string) bool {
	if !a.HasPermission(user, PermTransactionCreate) {
		return false
	}
	if user.UserID != "" && user.UserID == accountOwnerID {
		return true
	}
	return a.HasBroadAccess(user)
}

// CanReverseTransaction reports whether the caller may reverse transactions.
func (a *Authorizer) CanReverseTransaction(user UserContext) bool {
	return a.HasPermission(user, PermTransactionReverse)
}

// CanAccessAnalytics reports whether the caller may query analytics for the
// account owned by ownerID. An empty ownerID means the caller's own accounts.
func (a *Authorizer) CanAccessAnalytics(user UserContext, ownerID string) bool {
	if !a.HasPermission(user, PermQueryAccountAnalytics) {
		return false
	}
	if ownerID == "" || ownerID == user.UserID {
		return true
	}
	return a.HasBroadAccess(user)
}
