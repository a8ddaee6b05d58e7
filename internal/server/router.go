// Package server wires controllers and middleware into the HTTP router.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"slice-url/internal/controllers"
	"slice-url/internal/jwt"
	"slice-url/internal/middleware"
	"slice-url/internal/models"
	"slice-url/internal/service"
)

// Options carries everything the router needs
type Options struct {
	AuthService     service.AuthService
	LinkService     service.LinkService
	ResolverService service.ResolverService
	VisitService    service.VisitService
	JWTService      *jwt.JWTService
	// BaseURL prefixes short URLs; the request host is used when empty.
	BaseURL        string
	AuthLimiter    *middleware.RateLimiter
	ShortenLimiter *middleware.RateLimiter
	Logger         *slog.Logger
	// AllowAllOrigins answers any browser origin; otherwise only CORSOrigin is allowed.
	AllowAllOrigins bool
	CORSOrigin      string
}

// NewRouter builds the gin engine with every route of the API
func NewRouter(opts Options) *gin.Engine {
	// Initialize controllers
	authController := controllers.NewAuthController(opts.AuthService, opts.Logger)
	linkController := controllers.NewLinkController(opts.LinkService, opts.ResolverService, opts.BaseURL, opts.Logger)
	qrcodeController := controllers.NewQRCodeController(opts.LinkService, opts.Logger)
	visitController := controllers.NewVisitController(opts.VisitService, opts.Logger)

	requireAuth := middleware.AuthMiddleware(opts.JWTService)

	// Create a Gin router
	router := gin.Default()
	router.Use(cors.New(corsConfig(opts)))

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Auth routes, register and login with stricter rate limiting
	auth := router.Group("/auth")
	{
		auth.POST("/register", opts.AuthLimiter.LimitMiddleware(), authController.Register)
		auth.GET("/confirm-account", authController.ConfirmAccount)
		auth.POST("/login", opts.AuthLimiter.LimitMiddleware(), authController.Login)
		auth.POST("/social", authController.SocialAuth)
		auth.PUT("/change-password", requireAuth, authController.ChangePassword)
	}

	users := router.Group("/users", requireAuth)
	{
		users.PATCH("/update-account", authController.UpdateAccount)
		users.GET("/:userId", authController.GetUser)
	}

	links := router.Group("/links")
	{
		links.POST("/shorten", opts.ShortenLimiter.LimitMiddleware(), requireAuth, linkController.CreateShortLink)
		links.POST("/shorten-anonymously", opts.ShortenLimiter.LimitMiddleware(), middleware.AnonymousMiddleware(), linkController.CreateShortLink)

		// Public redirect endpoint
		links.GET("/redirect/:shortId", linkController.Redirect)

		links.GET("", requireAuth, linkController.GetLinks)
		links.GET("/:shortId", requireAuth, linkController.GetLink)
		links.GET("/:shortId/qrcode", requireAuth, qrcodeController.GenerateQRCode)
		links.DELETE("/:shortId", requireAuth, linkController.DeleteLink)
		links.PATCH("/:shortId", requireAuth, linkController.ChangeLinkAlias)
	}

	router.GET("/visit", visitController.CountVisit)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.Failure(http.StatusNotFound, "Route not found."))
	})

	return router
}

func corsConfig(opts Options) cors.Config {
	config := cors.DefaultConfig()
	if opts.AllowAllOrigins {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = []string{opts.CORSOrigin}
	}
	config.AddAllowHeaders("Authorization", middleware.AnonymousHeader)
	return config
}
