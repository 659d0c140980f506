// README: Partner rating endpoints (aggregate summary + feed).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/internal/modules/rating"
	"carelink/internal/types"
)

type RatingHandler struct {
	ratings *rating.Service
}

func NewRatingHandler(svc *rating.Service) *RatingHandler {
	return &RatingHandler{ratings: svc}
}

func (h *RatingHandler) PartnerRatings(c *gin.Context) {
	partnerID := types.ID(c.Param("id"))
	if partnerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing partner id"})
		return
	}

	avg, count, err := h.ratings.AggregateForPartner(c.Request.Context(), partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
		return
	}
	feed, err := h.ratings.RatingsFeed(c.Request.Context(), partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
		return
	}
	if feed == nil {
		feed = []rating.Row{}
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": rating.Summary{Average: avg, Count: count},
		"ratings": feed,
	})
}
