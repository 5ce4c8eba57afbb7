package auth

// Permission is a fine-grained action identifier, namespaced as
// resource:action[:subresource]. The set is closed: new permissions are a
// code change, not data.
type Permission string

const (
	PermAccountCreate Permission = "account:create"
	PermAccountRead   Permission = "account:read"
	PermAccountUpdate Permission = "account:update"
	PermAccountDelete Permission = "account:delete"

	PermTransactionCreate  Permission = "transaction:create"
	PermTransactionRead    Permission = "transaction:read"
	PermTransactionReverse Permission = "transaction:reverse"

	PermQueryAccountAnalytics   Permission = "query:account:analytics"
	PermQueryTransactionHistory Permission = "query:transaction:history"

	PermAdminSystemStatus Permission = "admin:system:status"
)

// AllPermissions returns the full permission universe.
func AllPermissions() []Permission {
	return []Permission{
		PermAccountCreate,
		PermAccountRead,
		PermAccountUpdate,
		PermAccountDelete,
		PermTransactionCreate,
		PermTransactionRead,
		PermTransactionReverse,
		PermQueryAccountAnalytics,
		PermQueryTransactionHistory,
		PermAdminSystemStatus,
	}
}

// Role names recognized by the default role table.
const (
	RoleAdmin            = "admin"
	RoleFinancialOfficer = "financial_officer"
	RoleAccountManager   = "account_manager"
	RoleCustomerService  = "customer_service"
	RoleReadonlyUser     = "readonly_user"
	RoleCustomer         = "customer"
)

// DefaultRoleTable returns the static role → permission-set mapping. The
// table is treated as configuration data: loaded once at construction and
// immutable afterwards. Lookups for undefined roles yield the empty set.
//
// Customers deliberately lack account:create — account opening is an operator
// capability, not a self-service one.
func DefaultRoleTable() map[string][]Permission {
	return map[string][]Permission{
		RoleAdmin: AllPermissions(),
		RoleFinancialOfficer: {
			PermAccountRead,
			PermAccountUpdate,
			PermTransactionCreate,
			PermTransactionRead,
			PermTransactionReverse,
			PermQueryAccountAnalytics,
			PermQueryTransactionHistory,
		},
		RoleAccountManager: {
			PermAccountCreate,
			PermAccountRead,
			PermAccountUpdate,
			PermTransactionRead,
			PermQueryAccountAnalytics,
			PermQueryTransactionHistory,
		},
		RoleCustomerService: {
			PermAccountRead,
			PermTransactionRead,
			PermQueryTransactionHistory,
		},
		RoleReadonlyUser: {
			PermAccountRead,
			PermTransactionRead,
		},
		RoleCustomer: {
			PermAccountRead,
			PermTransactionCreate,
			PermTransactionRead,
			PermQueryTransactionHistory,
		},
	}
}

// DefaultBroadAccessRoles returns the roles granted cross-owner account
// access. Everyone else is limited to self-access.
func DefaultBroadAccessRoles() []string {
	return []string{
		RoleAdmin,
		RoleFinancialOfficer,
		RoleAccountManager,
		RoleCustomerService,
	}
}
