package config

import "strings"

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityRefresh                      // Refresh token required
	SecurityAccess                       // Access token required
	SecurityAdmin                        // Access token with the admin role
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityRefresh:
		return "refresh"
	case SecurityAccess:
		return "access"
	case SecurityAdmin:
		return "admin"
	}
	return "unknown"
}

// EndpointSecurityConfig maps route names to their required security level.
// Route names are "<METHOD> <path template>" as registered on the router.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth
	"POST /api/v1/auth/signup":  SecurityPublic,
	"POST /api/v1/auth/login":   SecurityPublic,
	"POST /api/v1/auth/refresh": SecurityRefresh,
	"POST /api/v1/auth/logout":  SecurityAccess,

	// Catalogue - Public
	"GET /healthz":                      SecurityPublic,
	"GET /images/{key:.+}":              SecurityPublic,
	"GET /api/v1/categories":            SecurityPublic,
	"GET /api/v1/listings":              SecurityPublic,
	"GET /api/v1/listings/search":       SecurityPublic,
	"GET /api/v1/listings/{id}":         SecurityPublic,
	"GET /api/v1/listings/{id}/reviews": SecurityPublic,
	"GET /api/v1/support/greeting":      SecurityPublic,
	"POST /api/v1/support/chat":         SecurityPublic,

	// Listings - Access Protected
	"POST /api/v1/listings":              SecurityAccess,
	"PUT /api/v1/listings/{id}":          SecurityAccess,
	"DELETE /api/v1/listings/{id}":       SecurityAccess,
	"POST /api/v1/listings/{id}/image":   SecurityAccess,
	"POST /api/v1/listings/{id}/reviews": SecurityAccess,
	"POST /api/v1/images":                SecurityAccess,
	"GET /api/v1/my/listings":            SecurityAccess,

	// Profile
	"GET /api/v1/me":                       SecurityAccess,
	"PUT /api/v1/me":                       SecurityAccess,
	"PUT /api/v1/me/password":              SecurityAccess,
	"GET /api/v1/me/favorites":             SecurityAccess,
	"POST /api/v1/me/favorites":            SecurityAccess,
	"DELETE /api/v1/me/favorites/{itemId}": SecurityAccess,

	// Cart and checkout
	"GET /api/v1/cart":                   SecurityAccess,
	"DELETE /api/v1/cart":                SecurityAccess,
	"POST /api/v1/cart/items":            SecurityAccess,
	"DELETE /api/v1/cart/items/{itemId}": SecurityAccess,
	"GET /api/v1/checkout/agreement":     SecurityAccess,
	"POST /api/v1/checkout":              SecurityAccess,
	"GET /api/v1/orders/{ref}/receipt":   SecurityAccess,

	// Rentals
	"GET /api/v1/rentals":              SecurityAccess,
	"GET /api/v1/lendings":             SecurityAccess,
	"POST /api/v1/rentals/{id}/return": SecurityAccess,

	// Chat
	"GET /api/v1/threads":                SecurityAccess,
	"POST /api/v1/threads":               SecurityAccess,
	"GET /api/v1/threads/{id}/messages":  SecurityAccess,
	"POST /api/v1/threads/{id}/messages": SecurityAccess,

	// Notifications
	"GET /api/v1/notifications":            SecurityAccess,
	"POST /api/v1/notifications/{id}/read": SecurityAccess,
	"GET /api/v1/ws":                       SecurityAccess,

	// Admin
	"GET /api/v1/admin/overview":                   SecurityAdmin,
	"GET /api/v1/admin/users":                      SecurityAdmin,
	"GET /api/v1/admin/listings":                   SecurityAdmin,
	"PUT /api/v1/admin/listings/{id}/availability": SecurityAdmin,
	"DELETE /api/v1/admin/listings/{id}":           SecurityAdmin,
	"GET /api/v1/admin/content/agreement":          SecurityAdmin,
	"PUT /api/v1/admin/content/agreement":          SecurityAdmin,
}

// RouteKey builds the lookup key used in EndpointSecurityConfig.
func RouteKey(method, pathTemplate string) string {
	return strings.ToUpper(method) + " " + pathTemplate
}

// LevelFor returns the configured level for a route. Unknown routes
// require an access token.
func LevelFor(method, pathTemplate string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[RouteKey(method, pathTemplate)]; ok {
		return level
	}
	return SecurityAccess
}
