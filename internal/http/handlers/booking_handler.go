// README: Patient-facing booking handlers (submit, list, poll, transitions, rate).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/internal/http/middleware"
	"carelink/internal/modules/booking"
	"carelink/internal/types"
)

type BookingHandler struct {
	booking *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{booking: svc}
}

type submitReq struct {
	PatientName      string       `json:"patient_name"`
	PatientContact   string       `json:"patient_contact"`
	ContactEmail     string       `json:"contact_email"`
	ServiceType      string       `json:"service_type"`
	ServiceCategory  string       `json:"service_category"`
	EquipmentName    *string      `json:"equipment_name"`
	EquipmentModel   *string      `json:"equipment_model"`
	IssueDescription string       `json:"issue_description"`
	UrgencyLevel     string       `json:"urgency_level"`
	PreferredTime    *string      `json:"preferred_time"`
	BillingFrequency string       `json:"billing_frequency"`
	VisitCount       *int         `json:"visit_count"`
	AddressLine      *string      `json:"address_line"`
	City             *string      `json:"city"`
	State            *string      `json:"state"`
	PostalCode       *string      `json:"postal_code"`
	Pickup           *types.Point `json:"pickup"`
	Dropoff          *types.Point `json:"dropoff"`
}

func (h *BookingHandler) Submit(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := h.booking.Submit(c.Request.Context(), booking.SubmitCommand{
		PatientID:        types.ID(middleware.CallerID(c)),
		PatientName:      req.PatientName,
		PatientContact:   req.PatientContact,
		ContactEmail:     req.ContactEmail,
		ServiceType:      req.ServiceType,
		ServiceCategory:  req.ServiceCategory,
		EquipmentName:    req.EquipmentName,
		EquipmentModel:   req.EquipmentModel,
		IssueDescription: req.IssueDescription,
		Urgency:          booking.Urgency(req.UrgencyLevel),
		PreferredTime:    req.PreferredTime,
		Billing:          booking.BillingFrequency(req.BillingFrequency),
		VisitCount:       req.VisitCount,
		AddressLine:      req.AddressLine,
		City:             req.City,
		State:            req.State,
		PostalCode:       req.PostalCode,
		Pickup:           req.Pickup,
		Dropoff:          req.Dropoff,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order_id":     o.ID,
		"order_number": o.OrderNumber(),
		"status":       o.Status,
		"quoted_price": o.QuotedPrice,
	})
}

func (h *BookingHandler) List(c *gin.Context) {
	orders, err := h.booking.ListByPatient(c.Request.Context(), types.ID(middleware.CallerID(c)))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": payloads(orders)})
}

func (h *BookingHandler) SearchStatus(c *gin.Context) {
	res, err := h.booking.SearchStatus(c.Request.Context(), c.Param("id"), types.ID(middleware.CallerID(c)))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	body := gin.H{"status": res.Signal, "booking": payload(res.Order)}
	if res.Partner != nil {
		body["partner"] = res.Partner
	}
	c.JSON(http.StatusOK, body)
}

func (h *BookingHandler) Accept(c *gin.Context) {
	h.writeTransition(c, h.booking.Accept)
}

func (h *BookingHandler) Decline(c *gin.Context) {
	h.writeTransition(c, h.booking.Decline)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.writeTransition(c, h.booking.Cancel)
}

func (h *BookingHandler) writeTransition(c *gin.Context, op func(ctx context.Context, ref string, patientID types.ID) (*booking.Order, error)) {
	o, err := op(c.Request.Context(), c.Param("id"), types.ID(middleware.CallerID(c)))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": payload(o)})
}

type rateReq struct {
	Rating int     `json:"rating"`
	Review *string `json:"review"`
}

func (h *BookingHandler) Rate(c *gin.Context) {
	var req rateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := h.booking.Rate(c.Request.Context(), c.Param("id"), types.ID(middleware.CallerID(c)), req.Rating, req.Review)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": payload(o)})
}
