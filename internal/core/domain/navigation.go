package domain

import "strings"

// Settings menu labels.
const (
	MenuRegistration  = "Registration"
	MenuLogin         = "Login"
	MenuProfile       = "Profile"
	MenuLogout        = "Logout"
	MenuCreateProduct = "CreateProduct"
	MenuUpdateProduct = "UpdateProduct"
)

const (
	// ActionLogout marks the menu option that clears the session instead of navigating.
	ActionLogout = "logout"

	logoutPrompt = "Confirm Logout?"
	cartRoute    = "/product/cart"
)

var (
	guestOptions    = []string{MenuRegistration, MenuLogin}
	customerOptions = []string{MenuProfile, MenuLogout}
	adminOptions    = []string{MenuCreateProduct, MenuUpdateProduct}
)

// Link is a plain navigation target.
type Link struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

// MenuOption is an entry of the settings menu.
type MenuOption struct {
	Label   string `json:"label"`
	Route   string `json:"route,omitempty"`
	Action  string `json:"action,omitempty"`
	Confirm string `json:"confirm,omitempty"`
}

// CartBadge is the cart indicator shown next to the search box.
type CartBadge struct {
	Count int    `json:"count"`
	Route string `json:"route"`
}

// Navigation is everything the navigation bar renders for one viewer.
type Navigation struct {
	Links       []Link       `json:"links"`
	SearchModes []SearchMode `json:"search_modes"`
	Cart        CartBadge    `json:"cart"`
	Menu        []MenuOption `json:"menu"`
	User        *User        `json:"user,omitempty"`
}

// NavigationLinks are the fixed links on the left of the bar.
func NavigationLinks() []Link {
	return []Link{
		{Label: "Products", Route: "/"},
		{Label: "Categories", Route: "/categories"},
	}
}

// MenuLabels returns the settings menu labels for a viewer. Anonymous
// visitors pass authenticated=false and any role.
func MenuLabels(authenticated bool, role string) []string {
	labels := append([]string(nil), guestOptions...)
	if !authenticated {
		return labels
	}
	labels = append(labels, customerOptions...)
	if role == RoleAdmin {
		labels = append(labels, adminOptions...)
	}
	return labels
}

// Menu builds the settings menu for a viewer.
func Menu(authenticated bool, role string) []MenuOption {
	labels := MenuLabels(authenticated, role)
	out := make([]MenuOption, 0, len(labels))
	for _, label := range labels {
		if label == MenuLogout {
			out = append(out, MenuOption{Label: label, Action: ActionLogout, Confirm: logoutPrompt})
			continue
		}
		out = append(out, MenuOption{Label: label, Route: "/" + strings.ToLower(label)})
	}
	return out
}

// NewCartBadge returns the cart indicator for count lines.
func NewCartBadge(count int) CartBadge {
	return CartBadge{Count: count, Route: cartRoute}
}
