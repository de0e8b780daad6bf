package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMenuLabels(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		role          string
		want          []string
	}{
		{"guest", false, "", []string{"Registration", "Login"}},
		{"guest ignores role", false, RoleAdmin, []string{"Registration", "Login"}},
		{"customer", true, RoleCustomer, []string{"Registration", "Login", "Profile", "Logout"}},
		{"admin", true, RoleAdmin, []string{"Registration", "Login", "Profile", "Logout", "CreateProduct", "UpdateProduct"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MenuLabels(tt.authenticated, tt.role))
		})
	}
}

func TestMenu_RoutesAndLogoutAction(t *testing.T) {
	menu := Menu(true, RoleAdmin)

	routes := map[string]string{}
	for _, opt := range menu {
		routes[opt.Label] = opt.Route
		if opt.Label == MenuLogout {
			assert.Equal(t, ActionLogout, opt.Action)
			assert.Equal(t, "Confirm Logout?", opt.Confirm)
			assert.Empty(t, opt.Route)
		}
	}

	assert.Equal(t, "/registration", routes[MenuRegistration])
	assert.Equal(t, "/login", routes[MenuLogin])
	assert.Equal(t, "/profile", routes[MenuProfile])
	assert.Equal(t, "/createproduct", routes[MenuCreateProduct])
	assert.Equal(t, "/updateproduct", routes[MenuUpdateProduct])
}

func TestMenuLabels_DoesNotAliasBaseOptions(t *testing.T) {
	admin := MenuLabels(true, RoleAdmin)
	admin[0] = "changed"
	assert.Equal(t, []string{"Registration", "Login"}, MenuLabels(false, ""))
}

func TestCartBadge(t *testing.T) {
	var nilCart *Cart
	assert.Equal(t, 0, nilCart.Count())

	c := &Cart{Items: []CartItem{{ProductID: "p1", Quantity: 3}, {ProductID: "p2", Quantity: 1}}}
	badge := NewCartBadge(c.Count())
	assert.Equal(t, 2, badge.Count)
	assert.Equal(t, "/product/cart", badge.Route)
}
