// README: Shared handler utilities (payload shaping, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/internal/modules/booking"
	"carelink/internal/types"
)

// orderPayload augments an order with its derived numeric display code and
// the quote as a money pair.
type orderPayload struct {
	*booking.Order
	OrderNumber int          `json:"order_number"`
	Quoted      *types.Money `json:"quoted,omitempty"`
}

func payload(o *booking.Order) orderPayload {
	return orderPayload{Order: o, OrderNumber: o.OrderNumber(), Quoted: o.Quoted()}
}

func payloads(orders []*booking.Order) []orderPayload {
	out := make([]orderPayload, 0, len(orders))
	for _, o := range orders {
		out = append(out, payload(o))
	}
	return out
}

// writeBookingError maps service failures onto the HTTP contract. Every
// mutation either returned the updated record or failed here with nothing
// changed.
func writeBookingError(c *gin.Context, err error) {
	var ve *booking.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, booking.ErrMissingEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "requires_email": true})
	case errors.Is(err, booking.ErrInvalidRating), errors.Is(err, booking.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, booking.ErrPatientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}
