// config/security_config.go
package config

import "net/http"

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Any valid access token
	SecurityClient                      // Access token with the CLIENT role
	SecurityStaff                       // Access token with the STAFF or ADMIN role
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityAccess:
		return "access"
	case SecurityClient:
		return "client"
	case SecurityStaff:
		return "staff"
	}
	return "unknown"
}

func endpoint(method, pathTemplate string) string {
	return method + " " + pathTemplate
}

// EndpointSecurityConfig maps "METHOD route-template" to the required security level.
// Ownership of a reservation is checked by the service, not here.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Operations - Public
	endpoint(http.MethodGet, "/healthz"): SecurityPublic,
	endpoint(http.MethodGet, "/metrics"): SecurityPublic,

	// Pricing preview - Public
	endpoint(http.MethodPost, "/api/v1/reservations/simulate"): SecurityPublic,

	// Client
	endpoint(http.MethodPost, "/api/v1/reservations"):            SecurityClient,
	endpoint(http.MethodGet, "/api/v1/reservations/mine"):        SecurityClient,
	endpoint(http.MethodGet, "/api/v1/reservations/mine/{id}"):   SecurityClient,
	endpoint(http.MethodPut, "/api/v1/reservations/{id}"):        SecurityClient,
	endpoint(http.MethodPut, "/api/v1/reservations/{id}/cancel"): SecurityClient,

	// Staff
	endpoint(http.MethodGet, "/api/v1/reservations"):               SecurityStaff,
	endpoint(http.MethodGet, "/api/v1/reservations/{id}"):          SecurityStaff,
	endpoint(http.MethodPut, "/api/v1/reservations/{id}/confirm"):  SecurityStaff,
	endpoint(http.MethodPut, "/api/v1/reservations/{id}/pickup"):   SecurityStaff,
	endpoint(http.MethodPut, "/api/v1/reservations/{id}/finalize"): SecurityStaff,
}

// GetSecurityLevel returns the security level for a route template
func GetSecurityLevel(method, pathTemplate string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[endpoint(method, pathTemplate)]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityStaff
}
