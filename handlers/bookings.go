package handlers

import (
	"net/http"

	bookingsRepo "concierge/database/repository/bookings"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the read-only reporting view over stored bookings.
type BookingHandler struct {
	repo   bookingsRepo.BookingRepository
	logger *zap.Logger
}

func NewBookingHandler(repo bookingsRepo.BookingRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{repo: repo, logger: logger}
}

// HandleList returns all bookings, newest first.
func (h *BookingHandler) HandleList(c *gin.Context) {
	bookings, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list bookings", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// HandleHealth reports service liveness.
func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
