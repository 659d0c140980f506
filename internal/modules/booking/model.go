// README: Service order aggregate, status definitions and derived display code.
package booking

import (
	"strconv"
	"time"

	"carelink/internal/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"

	// StatusQuoteSent is an informational sub-state layered onto accepted.
	// Only the admin override surface may write it; the guarded state
	// machine never produces it.
	StatusQuoteSent Status = "quote_sent"
)

type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

type BillingFrequency string

const (
	BillingPerVisit BillingFrequency = "per_visit"
	BillingMonthly  BillingFrequency = "monthly"
)

// Order is the central service booking record. Optional attributes are
// pointers rather than an open-ended map so the optionality contract is
// visible at compile time.
type Order struct {
	ID                 types.ID          `json:"id"`
	PatientID          types.ID          `json:"patient_id"`
	AssignedEngineerID *types.ID         `json:"assigned_engineer_id"`
	Status             Status            `json:"status"`
	ServiceType        string            `json:"service_type"`
	ServiceCategory    string            `json:"service_category"`
	EquipmentName      *string           `json:"equipment_name,omitempty"`
	EquipmentModel     *string           `json:"equipment_model,omitempty"`
	IssueDescription   string            `json:"issue_description"`
	Urgency            Urgency           `json:"urgency_level"`
	PreferredTime      *string           `json:"preferred_time,omitempty"`
	Billing            BillingFrequency  `json:"billing_frequency"`
	VisitCount         *int              `json:"visit_count,omitempty"`
	PatientName        string            `json:"patient_name"`
	PatientContact     string            `json:"patient_contact"`
	ContactEmail       string            `json:"contact_email"`
	AddressLine        *string           `json:"address_line,omitempty"`
	City               *string           `json:"city,omitempty"`
	State              *string           `json:"state,omitempty"`
	PostalCode         *string           `json:"postal_code,omitempty"`
	Location           string            `json:"location"`
	Pickup             *types.Point      `json:"pickup,omitempty"`
	Dropoff            *types.Point      `json:"dropoff,omitempty"`
	QuotedPrice        *int64            `json:"quoted_price"`
	Currency           string            `json:"currency"`
	EngineerNotes      *string           `json:"engineer_notes,omitempty"`
	Rating             *int              `json:"rating,omitempty"`
	Review             *string           `json:"review,omitempty"`
	PartnerRating      *int              `json:"partner_rating,omitempty"`
	PartnerReview      *string           `json:"partner_review,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	AcceptedAt         *time.Time        `json:"accepted_at,omitempty"`
	DeclinedAt         *time.Time        `json:"declined_at,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
}

// AllowedTransitions represents the guarded order state flow as code.
// declined, cancelled and completed are terminal. quote_sent is layered onto
// accepted, so it carries the same outgoing transitions; without them an
// admin-written quote would strand the order outside the guarded lifecycle.
var AllowedTransitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusDeclined, StatusCancelled},
	StatusAccepted:  {StatusCompleted, StatusCancelled},
	StatusQuoteSent: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusDeclined || s == StatusCancelled || s == StatusCompleted
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCancelled, StatusCompleted, StatusQuoteSent:
		return true
	default:
		return false
	}
}

// displayCodeWidth is the number of trailing hex characters of the canonical
// identifier that feed the derived display code.
const displayCodeWidth = 6

// DisplayCode derives the short numeric code shown to patients from the
// canonical identifier. It is a pure function of the identifier and a display
// convenience only; the canonical id always wins for identity comparison.
func DisplayCode(id types.ID) int {
	s := string(id)
	if len(s) > displayCodeWidth {
		s = s[len(s)-displayCodeWidth:]
	}
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0
	}
	return int(n % 1000000)
}

// OrderNumber attaches the derived code to an order for listings.
func (o *Order) OrderNumber() int {
	return DisplayCode(o.ID)
}

// Quoted pairs the quoted price with its currency, nil until a quote exists.
func (o *Order) Quoted() *types.Money {
	if o.QuotedPrice == nil {
		return nil
	}
	return &types.Money{Amount: *o.QuotedPrice, Currency: o.Currency}
}
