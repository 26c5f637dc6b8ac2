package server

func (s *Server) initRoutes() {
	// Registered without a method so OPTIONS and unsupported methods still pass
	// through the CORS middleware.
	s.RegisterRouteHandler(RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteLoginAuthorize, ChainMiddleware(s.AuthorizeRedirectHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
}
