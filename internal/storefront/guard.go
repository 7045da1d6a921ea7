package storefront

import (
	"net/url"
	"strings"

	"github.com/example/okeetropics/internal/models"
)

// Route paths the guard and the session store reason about.
const (
	PathHome          = "/"
	PathLogin         = "/auth/login"
	PathRegister      = "/auth/register"
	PathDashboard     = "/dashboard"
	PathOrders        = "/orders"
	PathAdminOrders   = "/admin/orders"
	PathAdminProducts = "/admin/products"
	PathAdminUsers    = "/admin/users"
	PathAdminArticles = "/admin/articles"
	PathProfile       = "/profile"
	PathCheckout      = "/checkout"
	PathReferrals     = "/referrals"
)

// protectedPrefixes are the path prefixes that require a logged-in identity.
var protectedPrefixes = []string{
	PathDashboard,
	PathOrders,
	PathAdminOrders,
	PathAdminProducts,
	PathAdminUsers,
	PathAdminArticles,
	PathProfile,
	PathCheckout,
}

// Action is the outcome of a route guard evaluation.
type Action int

const (
	// Allow renders the route.
	Allow Action = iota
	// RedirectToLogin sends an unauthenticated visitor to the login page,
	// carrying the attempted path so login can send them back.
	RedirectToLogin
	// DenyInPlace shows an access-denied message where the page would be.
	// Used for authenticated visitors whose role is insufficient; they are
	// deliberately not redirected.
	DenyInPlace
)

// Decision is what the guard tells the caller to do with the current route.
type Decision struct {
	Action     Action
	RedirectTo string
}

// Evaluate decides whether identity may view path. A nil identity means
// nobody is logged in.
func Evaluate(path string, identity *Identity) Decision {
	if isProtected(path) && identity == nil {
		return Decision{Action: RedirectToLogin, RedirectTo: LoginRedirect(path)}
	}

	if identity != nil {
		if strings.HasPrefix(path, PathAdminUsers) && identity.Role != models.RoleSuperAdmin {
			return Decision{Action: DenyInPlace}
		}
		if isAdminConsole(path) && !identity.Role.IsAdmin() {
			return Decision{Action: DenyInPlace}
		}
	}

	return Decision{Action: Allow}
}

// LoginRedirect builds the login URL carrying the attempted path as the
// redirect parameter.
func LoginRedirect(attempted string) string {
	return PathLogin + "?redirect=" + url.QueryEscape(attempted)
}

func isProtected(path string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isAdminConsole(path string) bool {
	return strings.HasPrefix(path, PathAdminOrders) ||
		strings.HasPrefix(path, PathAdminProducts) ||
		strings.HasPrefix(path, PathAdminArticles) ||
		strings.HasPrefix(path, PathAdminUsers)
}

// MenuItem is one navigation affordance.
type MenuItem struct {
	Label string
	Path  string
}

// Menu returns the navigation items for the given identity. The composition
// is a pure function of role.
func Menu(identity *Identity) []MenuItem {
	if identity == nil {
		return []MenuItem{
			{Label: "Sign In", Path: PathLogin},
			{Label: "Sign Up", Path: PathRegister},
		}
	}

	switch identity.Role {
	case models.RoleSuperAdmin:
		return []MenuItem{
			{Label: "Manage Users", Path: PathAdminUsers},
		}
	case models.RoleAdmin:
		return []MenuItem{
			{Label: "Dashboard", Path: PathDashboard},
			{Label: "Orders", Path: PathOrders},
			{Label: "Manage Orders", Path: PathAdminOrders},
			{Label: "Manage Products", Path: PathAdminProducts},
			{Label: "Referrals", Path: PathReferrals},
		}
	default:
		return []MenuItem{
			{Label: "Order History", Path: PathOrders},
			{Label: "Referrals", Path: PathReferrals},
		}
	}
}

// ShowCart reports whether the cart affordance is visible: only anonymous
// visitors and customers shop, admins never see it.
func ShowCart(identity *Identity) bool {
	return identity == nil || identity.Role == models.RoleCustomer
}
