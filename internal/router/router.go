package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"

	"github.com/iliyamo/animula-auth/internal/handler"
	"github.com/iliyamo/animula-auth/internal/logging"
	"github.com/iliyamo/animula-auth/internal/middleware"
)

// New creates the Echo instance with the middleware every route shares:
// panic recovery, request ids and structured request logging.
func New(log logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	return e
}

// RegisterRoutes registers routes that do not touch authentication: the
// health check and the self-description page.
func RegisterRoutes(e *echo.Echo, baseURL string) {
	e.GET("/", handler.Index(baseURL))
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes under /api.  None of
// them sits behind verifying middleware; the profile route only gets the
// bearer token extracted, and the auth service decides whether it is
// missing or invalid.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	api := e.Group("/api")

	g := api.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.POST("/refresh", a.Refresh)

	// Older clients call the profile with POST.
	u := api.Group("/user", middleware.BearerToken())
	u.GET("/profile", a.Profile)
	u.POST("/profile", a.Profile)
}

// WithCORS wraps the Echo instance with a CORS handler for browser clients.
func WithCORS(e *echo.Echo, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
		MaxAge:         600,
	}).Handler(e)
}
