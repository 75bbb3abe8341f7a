package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/movierec/movie-recommendation-api/internal/config"     // configuration for JWT verification values
	"github.com/movierec/movie-recommendation-api/internal/handler"    // import the handlers that implement business logic
	"github.com/movierec/movie-recommendation-api/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/movierec/movie-recommendation-api/internal/model"      // role constants for the role middleware
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes. Unauthenticated
// operations live under /v1/auth, while the protected /v1/me endpoint
// verifies tokens through the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, cfg config.Config) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience))
	auth.GET("/me", a.Me)
}

// RegisterMovies registers the movie routes. The public listing requires
// no token; everything else runs behind the JWT middleware and the role
// allow-list. The Admin-only gate for the top-rated path lives in the
// handler's policy check, not in an extra route middleware, so that a
// User-role caller receives the policy's 403 reason.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler, cfg config.Config) {
	// Anonymous, cached public listing.
	e.GET("/v1/movies/public", m.GetPublicMovies)

	g := e.Group("/v1/movies")
	g.Use(middleware.JWTAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience))
	g.Use(middleware.RequireRole(string(model.RoleUser), string(model.RoleAdmin)))
	g.POST("/top", m.AddTopMovie)
	g.GET("/private", m.GetPrivateMovies)
	g.POST("", m.AddMovie)
	g.GET("/:id", m.GetMovieByID)
	g.PUT("/:id", m.UpdateMovie)
	g.DELETE("/:id", m.DeleteMovie)
}

// RegisterReviews registers the review routes, all authenticated.
func RegisterReviews(e *echo.Echo, r *handler.ReviewHandler, cfg config.Config) {
	g := e.Group("/v1/reviews")
	g.Use(middleware.JWTAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience))
	g.Use(middleware.RequireRole(string(model.RoleUser), string(model.RoleAdmin)))
	g.POST("", r.AddReview)
	g.GET("/movie/:movieId", r.GetReviewsByMovie)
	g.GET("/:id", r.GetReviewByID)
	g.PUT("/:id", r.UpdateReview)
	g.DELETE("/:id", r.DeleteReview)
}
