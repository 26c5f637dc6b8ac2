package server

// Route path constants
const (
	// Login exchange: GET/POST with a Discord authorization code, OPTIONS preflight
	RouteLogin = "/api/login"

	// Redirect to the Discord consent page
	RouteLoginAuthorize = "/api/login/authorize"

	RouteHealth = "/healthz"
)
