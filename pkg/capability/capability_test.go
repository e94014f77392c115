package capability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturehq/accesskit/pkg/capability"
)

func TestAll_ClosedEnumeration(t *testing.T) {
	keys := capability.All()
	require.Len(t, keys, 9)

	expected := []capability.Key{
		capability.Dashboard,
		capability.Invoices,
		capability.Quotes,
		capability.Clients,
		capability.Products,
		capability.StockManagement,
		capability.HRManagement,
		capability.Reports,
		capability.Settings,
	}
	assert.Equal(t, expected, keys)

	for _, k := range keys {
		assert.True(t, k.Valid(), "key %q must be valid", k)
	}
	assert.False(t, capability.Key("billing").Valid())
}

func TestPresets(t *testing.T) {
	admin := capability.AdminDefaults()
	for _, k := range capability.All() {
		assert.True(t, admin.Has(k), "admin preset must grant %q", k)
	}
	assert.True(t, admin.IsAdminDefault())
	assert.False(t, admin.IsUserDefault())

	user := capability.UserDefaults()
	assert.True(t, user.Has(capability.Dashboard))
	for _, k := range capability.All() {
		if k == capability.Dashboard {
			continue
		}
		assert.False(t, user.Has(k), "user preset must not grant %q", k)
	}
	assert.True(t, user.IsUserDefault())
	assert.False(t, user.IsAdminDefault())
}

func TestSet_HasAny(t *testing.T) {
	tests := []struct {
		name string
		set  capability.Set
		want bool
	}{
		{name: "empty set", set: capability.Set{}, want: false},
		{name: "user defaults", set: capability.UserDefaults(), want: true},
		{name: "admin defaults", set: capability.AdminDefaults(), want: true},
		{name: "single non-dashboard flag", set: capability.Set{Reports: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.HasAny())
		})
	}
}

func TestSet_GrantRevoke(t *testing.T) {
	s := capability.Set{}

	granted := s.Grant(capability.Invoices)
	assert.True(t, granted.Has(capability.Invoices))
	assert.False(t, s.Has(capability.Invoices), "Grant must not mutate the receiver")

	revoked := granted.Revoke(capability.Invoices)
	assert.False(t, revoked.Has(capability.Invoices))
	assert.True(t, granted.Has(capability.Invoices), "Revoke must not mutate the receiver")

	unknown := s.Grant(capability.Key("billing"))
	assert.Equal(t, s, unknown, "unknown keys must leave the set unchanged")
	assert.False(t, s.Has(capability.Key("billing")))
}

func TestSet_Granted(t *testing.T) {
	s := capability.Set{Dashboard: true, Invoices: true, Reports: true}
	assert.Equal(t, []capability.Key{
		capability.Dashboard,
		capability.Invoices,
		capability.Reports,
	}, s.Granted())

	assert.Nil(t, capability.Set{}.Granted())
}

func TestSet_Equal(t *testing.T) {
	a := capability.UserDefaults().Grant(capability.Quotes)
	b := capability.Set{Dashboard: true, Quotes: true}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(capability.UserDefaults()))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Stock Management", capability.Label(capability.StockManagement))
	assert.Equal(t, "HR Management", capability.Label(capability.HRManagement))
	assert.Equal(t, "unknown", capability.Label(capability.Key("unknown")))
}
