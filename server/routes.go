package server

func (s *Server) initRoutes() {
	// LOGIN
	s.RegisterRouteFunc("GET "+RouteGoogleLogin, s.GoogleLoginHandler())
	s.RegisterRouteFunc("GET "+RouteGoogleCallback, s.GoogleCallbackHandler())
	s.RegisterRouteFunc("GET "+RouteMe, s.MeHandler())
	s.RegisterRouteFunc("POST "+RouteLogout, s.LogoutHandler())
	s.RegisterRouteFunc("POST "+RouteCredentialLogin, s.CredentialLoginHandler())

	// Admin routes (require the admin capability on the principal)
	s.RegisterRouteFunc("POST "+RouteAdminSweep, s.RequireAdmin(s.SweepSessionsHandler()))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
}
