package routes

import (
	"concierge/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(
	r *gin.Engine,
	chatHandler *handlers.ChatHandler,
	documentHandler *handlers.DocumentHandler,
	bookingHandler *handlers.BookingHandler,
) {
	r.GET("/health", handlers.HandleHealth)

	api := r.Group("/api")
	{
		api.POST("/chat", chatHandler.HandleTurn)
		api.POST("/documents/ingest", documentHandler.HandleIngest)
		api.GET("/admin/bookings", bookingHandler.HandleList)
	}
}
