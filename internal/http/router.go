// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carelink/internal/http/handlers"
	"carelink/internal/http/middleware"
	"carelink/internal/modules/booking"
	"carelink/internal/modules/rating"
)

type RouterDeps struct {
	Booking       *booking.Service
	Ratings       *rating.Service
	JWTSecret     string
	AdminPageSize int
	Logger        *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	bookingHandler := handlers.NewBookingHandler(deps.Booking)
	ratingHandler := handlers.NewRatingHandler(deps.Ratings)
	adminHandler := handlers.NewAdminHandler(deps.Booking, deps.AdminPageSize)

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.JWTSecret))

	api.POST("/bookings", bookingHandler.Submit)
	api.GET("/bookings", bookingHandler.List)
	api.GET("/bookings/:id/search-status", bookingHandler.SearchStatus)
	api.POST("/bookings/:id/accept", bookingHandler.Accept)
	api.POST("/bookings/:id/decline", bookingHandler.Decline)
	api.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	api.POST("/bookings/:id/rate", bookingHandler.Rate)

	api.GET("/partners/:id/ratings", ratingHandler.PartnerRatings)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRoles("admin"))
	admin.PUT("/service-orders/:id", adminHandler.Update)
	admin.DELETE("/service-orders/:id", adminHandler.Delete)
	admin.POST("/service-orders/:id/assign", adminHandler.Assign)
	admin.GET("/all-patient-orders", adminHandler.ListAll)

	return r
}
