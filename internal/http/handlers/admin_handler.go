// README: Admin override handlers; privileged, unscoped by design.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carelink/internal/modules/booking"
	"carelink/internal/types"
)

type AdminHandler struct {
	booking  *booking.Service
	pageSize int
}

func NewAdminHandler(svc *booking.Service, pageSize int) *AdminHandler {
	return &AdminHandler{booking: svc, pageSize: pageSize}
}

type adminUpdateReq struct {
	Status             *string `json:"status"`
	AssignedEngineerID *string `json:"assigned_engineer_id"`
	ServiceType        *string `json:"service_type"`
	ServiceCategory    *string `json:"service_category"`
	EquipmentName      *string `json:"equipment_name"`
	EquipmentModel     *string `json:"equipment_model"`
	IssueDescription   *string `json:"issue_description"`
	UrgencyLevel       *string `json:"urgency_level"`
	QuotedPrice        *int64  `json:"quoted_price"`
	EngineerNotes      *string `json:"engineer_notes"`
	PartnerRating      *int    `json:"partner_rating"`
	PartnerReview      *string `json:"partner_review"`
}

// Update writes the supplied fields directly, bypassing the guarded state
// machine. Role assertion happened in middleware; this path does not check
// ownership or transition legality.
func (h *AdminHandler) Update(c *gin.Context) {
	var req adminUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	ov := booking.AdminOverride{
		ServiceType:      req.ServiceType,
		ServiceCategory:  req.ServiceCategory,
		EquipmentName:    req.EquipmentName,
		EquipmentModel:   req.EquipmentModel,
		IssueDescription: req.IssueDescription,
		QuotedPrice:      req.QuotedPrice,
		EngineerNotes:    req.EngineerNotes,
		PartnerRating:    req.PartnerRating,
		PartnerReview:    req.PartnerReview,
	}
	if req.Status != nil {
		st := booking.Status(*req.Status)
		ov.Status = &st
	}
	if req.AssignedEngineerID != nil {
		id := types.ID(*req.AssignedEngineerID)
		ov.AssignedEngineerID = &id
	}
	if req.UrgencyLevel != nil {
		u := booking.Urgency(*req.UrgencyLevel)
		ov.Urgency = &u
	}
	o, err := h.booking.AdminUpdate(c.Request.Context(), c.Param("id"), ov)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": payload(o)})
}

func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.booking.AdminDelete(c.Request.Context(), c.Param("id")); err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) ListAll(c *gin.Context) {
	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	orders, err := h.booking.AdminList(c.Request.Context(), h.pageSize, (page-1)*h.pageSize)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": payloads(orders),
		"page":   page,
		"limit":  h.pageSize,
	})
}

type assignReq struct {
	EngineerID string `json:"engineer_id"`
}

// Assign is the unscoped acceptance path: pins the engineer on a pending
// order and moves it to accepted.
func (h *AdminHandler) Assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil || req.EngineerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing engineer_id"})
		return
	}
	o, err := h.booking.AssignPartner(c.Request.Context(), c.Param("id"), types.ID(req.EngineerID))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": payload(o)})
}
