package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/event-day-signup/internal/handler"    // import the handlers that implement business logic
    "github.com/iliyamo/event-day-signup/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring probes hit this endpoint.
    e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the participant-facing endpoints.  Participants
// identify themselves with the X-Participant-ID header instead of a login;
// there is nothing to authenticate.  The cache middleware, when given, is
// applied to the availability listing only: it is the one hot read path,
// and signups must never be served from cache.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, reg *handler.RegistrationHandler, board *handler.ScoreboardHandler, cache echo.MiddlewareFunc) {
    e.POST("/v1/participants", reg.CreateParticipant)
    e.GET("/v1/participants/me", reg.Me)

    // Catalog and availability.
    e.GET("/v1/activities", cat.Activities)
    if cache != nil {
        e.GET("/v1/activities/:name/slots", cat.ActivitySlots, cache)
    } else {
        e.GET("/v1/activities/:name/slots", cat.ActivitySlots)
    }

    // Signup lifecycle.
    e.POST("/v1/registrations", reg.Signup)
    e.GET("/v1/registrations", reg.ListMine)
    e.DELETE("/v1/registrations/:id", reg.Cancel)

    // Scoreboard is world-readable; mutations are staff-only.
    e.GET("/v1/scoreboard", board.Get)
}

// RegisterAuth registers the staff authentication routes under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
    g := e.Group("/v1/auth")
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)
}

// RegisterAdmin registers the staff desk under /v1/admin.  Every route in
// the group requires a valid access token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, adm *handler.AdminHandler, board *handler.ScoreboardHandler, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("ADMIN"))

    // Roster and check-in desk.
    g.GET("/registrations", adm.SlotRoster)
    g.GET("/registrations/passphrase/:passphrase", adm.FindByPassphrase)
    g.POST("/registrations/:id/checkin", adm.CheckIn)
    g.DELETE("/registrations/:id/checkin", adm.UncheckIn)
    g.GET("/stats", adm.Stats)

    // Scoreboard management.
    g.POST("/games", board.AddGame)
    g.DELETE("/games/:id", board.DeleteGame)
    g.POST("/teams", board.AddTeam)
    g.DELETE("/teams/:id", board.DeleteTeam)
    g.PUT("/scores", board.UpsertScore)
}
