package capability

// Key identifies one capability from the closed enumeration.
type Key string

// The full capability vocabulary. The order of the constants matches the
// canonical order returned by All, which is also the landing-route priority
// order used at login (Settings never serves as a landing section).
const (
	Dashboard       Key = "dashboard"
	Invoices        Key = "invoices"
	Quotes          Key = "quotes"
	Clients         Key = "clients"
	Products        Key = "products"
	StockManagement Key = "stockManagement"
	HRManagement    Key = "hrManagement"
	Reports         Key = "reports"
	Settings        Key = "settings"
)

// All returns the closed enumeration in canonical order.
// The returned slice is a fresh copy on every call.
func All() []Key {
	return []Key{
		Dashboard,
		Invoices,
		Quotes,
		Clients,
		Products,
		StockManagement,
		HRManagement,
		Reports,
		Settings,
	}
}

// labels maps each capability to its human-readable section name,
// used on denial screens and in admin UIs.
var labels = map[Key]string{
	Dashboard:       "Dashboard",
	Invoices:        "Invoices",
	Quotes:          "Quotes",
	Clients:         "Clients",
	Products:        "Products",
	StockManagement: "Stock Management",
	HRManagement:    "HR Management",
	Reports:         "Financial Reports",
	Settings:        "Settings",
}

// Valid reports whether k belongs to the closed enumeration.
func (k Key) Valid() bool {
	_, ok := labels[k]
	return ok
}

// Label returns the human-readable name for the capability.
// Unknown keys fall back to the raw key string.
func Label(k Key) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

// Set is the permission record attached to every user account: one boolean
// per capability. The JSON field names match the persisted account record.
type Set struct {
	Dashboard       bool `json:"dashboard"`
	Invoices        bool `json:"invoices"`
	Quotes          bool `json:"quotes"`
	Clients         bool `json:"clients"`
	Products        bool `json:"products"`
	StockManagement bool `json:"stockManagement"`
	HRManagement    bool `json:"hrManagement"`
	Reports         bool `json:"reports"`
	Settings        bool `json:"settings"`
}

// AdminDefaults returns the preset assigned to admin/owner accounts:
// every capability granted.
func AdminDefaults() Set {
	return Set{
		Dashboard:       true,
		Invoices:        true,
		Quotes:          true,
		Clients:         true,
		Products:        true,
		StockManagement: true,
		HRManagement:    true,
		Reports:         true,
		Settings:        true,
	}
}

// UserDefaults returns the preset used as the initial state for a newly
// created non-admin account: only the dashboard is accessible.
func UserDefaults() Set {
	return Set{Dashboard: true}
}

// Has reports whether the capability is granted in the set.
// Keys outside the enumeration are never granted.
func (s Set) Has(k Key) bool {
	switch k {
	case Dashboard:
		return s.Dashboard
	case Invoices:
		return s.Invoices
	case Quotes:
		return s.Quotes
	case Clients:
		return s.Clients
	case Products:
		return s.Products
	case StockManagement:
		return s.StockManagement
	case HRManagement:
		return s.HRManagement
	case Reports:
		return s.Reports
	case Settings:
		return s.Settings
	}
	return false
}

// Grant returns a copy of the set with the capability enabled.
// Keys outside the enumeration leave the set unchanged.
func (s Set) Grant(k Key) Set {
	return s.with(k, true)
}

// Revoke returns a copy of the set with the capability disabled.
func (s Set) Revoke(k Key) Set {
	return s.with(k, false)
}

func (s Set) with(k Key, v bool) Set {
	switch k {
	case Dashboard:
		s.Dashboard = v
	case Invoices:
		s.Invoices = v
	case Quotes:
		s.Quotes = v
	case Clients:
		s.Clients = v
	case Products:
		s.Products = v
	case StockManagement:
		s.StockManagement = v
	case HRManagement:
		s.HRManagement = v
	case Reports:
		s.Reports = v
	case Settings:
		s.Settings = v
	}
	return s
}

// HasAny reports whether at least one capability is granted. Account
// creation and edits reject sets where this is false: an account with zero
// capabilities would be unable to reach any section.
func (s Set) HasAny() bool {
	for _, k := range All() {
		if s.Has(k) {
			return true
		}
	}
	return false
}

// IsAdminDefault reports whether the set equals the admin preset.
func (s Set) IsAdminDefault() bool {
	return s == AdminDefaults()
}

// IsUserDefault reports whether the set equals the new-user preset.
func (s Set) IsUserDefault() bool {
	return s == UserDefaults()
}

// Equal reports whether two sets grant exactly the same capabilities.
func (s Set) Equal(other Set) bool {
	return s == other
}

// Granted returns the granted capabilities in canonical order.
func (s Set) Granted() []Key {
	var out []Key
	for _, k := range All() {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}
