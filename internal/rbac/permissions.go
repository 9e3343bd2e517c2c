package rbac

// Module permission keys. The set is fixed: every resolved permission map
// contains exactly these keys.
const (
	ModuleDashboard  = "dashboard"
	ModuleBookings   = "bookings"
	ModuleCustomers  = "customers"
	ModuleInventory  = "inventory"
	ModuleSales      = "sales"
	ModuleLaundry    = "laundry"
	ModulePurchases  = "purchases"
	ModuleExpenses   = "expenses"
	ModuleDeliveries = "deliveries"
	ModuleReports    = "reports"
	ModuleFinancials = "financials"
	ModuleInvoices   = "invoices"
	ModuleFranchises = "franchises"
	ModuleStaff      = "staff"
	ModuleSettings   = "settings"
)

var modules = []string{
	ModuleDashboard,
	ModuleBookings,
	ModuleCustomers,
	ModuleInventory,
	ModuleSales,
	ModuleLaundry,
	ModulePurchases,
	ModuleExpenses,
	ModuleDeliveries,
	ModuleReports,
	ModuleFinancials,
	ModuleInvoices,
	ModuleFranchises,
	ModuleStaff,
	ModuleSettings,
}

// Modules returns the fixed module key set in stable order.
func Modules() []string {
	out := make([]string, len(modules))
	copy(out, modules)
	return out
}

// PermissionMap maps module keys to access flags. A resolved map always
// carries the full fixed key set.
type PermissionMap map[string]bool

// Allows reports whether the given module flag is set. Unknown keys are
// always false.
func (p PermissionMap) Allows(module string) bool {
	return p[module]
}

// Derive resolves the effective permission map for a principal.
//
// A non-nil stored map is explicit intent and always wins over the role:
// its values are copied for the fixed keys and every missing key is
// backfilled with false. That includes the empty map, which resolves to
// all-false rather than role defaults. Keys outside the fixed set are
// dropped. Only when no permission record exists at all (stored == nil)
// are role defaults synthesised.
func Derive(role Role, stored map[string]bool) PermissionMap {
	if stored == nil {
		return defaultsFor(role)
	}
	resolved := make(PermissionMap, len(modules))
	for _, key := range modules {
		resolved[key] = stored[key]
	}
	return resolved
}

// operational modules granted to staff on top of the readonly surface.
var staffModules = []string{
	ModuleBookings,
	ModuleCustomers,
	ModuleInventory,
	ModuleSales,
	ModuleLaundry,
	ModulePurchases,
	ModuleExpenses,
	ModuleDeliveries,
	ModuleInvoices,
}

// tenant administration modules granted to franchise admins.
var adminModules = []string{
	ModuleFinancials,
	ModuleStaff,
	ModuleSettings,
}

func defaultsFor(role Role) PermissionMap {
	resolved := make(PermissionMap, len(modules))
	for _, key := range modules {
		resolved[key] = false
	}
	// Read-surfacing modules for everyone.
	resolved[ModuleDashboard] = true
	resolved[ModuleReports] = true
	if role.AtLeast(RoleStaff) {
		for _, key := range staffModules {
			resolved[key] = true
		}
	}
	if role.AtLeast(RoleFranchiseAdmin) {
		for _, key := range adminModules {
			resolved[key] = true
		}
	}
	if role == RoleSuperAdmin {
		resolved[ModuleFranchises] = true
	}
	return resolved
}
