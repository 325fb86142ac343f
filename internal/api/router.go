package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/travelagency/booking-api/internal/api/handler"
	"github.com/travelagency/booking-api/internal/api/middleware"
	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Log         zerolog.Logger
	JWTSecret   string
	CORSOrigins []string

	Users    middleware.UserFinder
	Auth     ports.AuthService
	Packages ports.PackageService
	Bookings ports.BookingService
}

// NewRouter builds and returns the Echo instance with all API routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	// Recover sits inside Metrics and RequestLogger so panics are counted
	// and logged as 500s.
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.ContextLogger(d.Log))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Metrics())
	e.Use(middleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			echo.HeaderXRequestID,
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	packageHandler := handler.NewPackageHandler(d.Packages)
	bookingHandler := handler.NewBookingHandler(d.Bookings)

	authMiddleware := middleware.Auth(d.JWTSecret, d.Users)
	managers := middleware.RBAC(domain.RoleAgency, domain.RoleAdmin)
	clients := middleware.RBAC(domain.RoleClient)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Package routes ---
	packages := api.Group("/packages")
	packages.GET("", packageHandler.List)
	packages.GET("/agency", packageHandler.ListMine, authMiddleware, managers)
	packages.GET("/:id", packageHandler.Get)
	packages.POST("", packageHandler.Create, authMiddleware, managers)
	packages.PUT("/:id", packageHandler.Update, authMiddleware, managers)
	packages.DELETE("/:id", packageHandler.Delete, authMiddleware, managers)

	// --- Booking routes (all authenticated) ---
	bookings := api.Group("/bookings", authMiddleware)
	bookings.GET("", bookingHandler.List)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.POST("", bookingHandler.Create, clients)
	for _, route := range []struct {
		path string
		h    echo.HandlerFunc
	}{
		{"/:id/status", bookingHandler.UpdateStatus},
		{"/:id/payment", bookingHandler.UpdatePayment},
	} {
		bookings.PUT(route.path, route.h, managers)
		bookings.PATCH(route.path, route.h, managers)
	}

	return e
}
