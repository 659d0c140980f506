// README: Booking service implements the guarded order lifecycle.
package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"carelink/internal/types"
)

// PatientRecord is the slice of the user directory the lifecycle needs.
type PatientRecord struct {
	ID    types.ID
	Name  string
	Phone string
	Email string
}

// PartnerProfile is the public partner view returned by the status poller.
type PartnerProfile struct {
	ID           types.ID `json:"id"`
	Name         string   `json:"name"`
	BusinessName string   `json:"business_name,omitempty"`
	Phone        string   `json:"phone"`
	Picture      string   `json:"picture,omitempty"`
	Rating       float64  `json:"rating"`
	RatingCount  int      `json:"rating_count"`
}

// Directory looks up users by identifier. Profile storage itself is owned
// elsewhere; the lifecycle only reads.
type Directory interface {
	PatientByID(ctx context.Context, id types.ID) (*PatientRecord, error)
	PartnerProfileByID(ctx context.Context, id types.ID) (*PartnerProfile, error)
}

// RatingSource supplies a partner's aggregate rating for the poller.
type RatingSource interface {
	AggregateForPartner(ctx context.Context, partnerID types.ID) (average float64, count int, err error)
}

type Service struct {
	store     *Store
	directory Directory
	ratings   RatingSource
	log       *zap.Logger
}

func NewService(store *Store, directory Directory, ratings RatingSource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, directory: directory, ratings: ratings, log: log}
}

var (
	ErrNotFound        = errors.New("booking not found")
	ErrPatientNotFound = errors.New("patient record not found")
	ErrMissingEmail    = errors.New("contact email required")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// ValidationError carries the field a submission is missing.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

type SubmitCommand struct {
	PatientID        types.ID
	PatientName      string
	PatientContact   string
	ContactEmail     string
	ServiceType      string
	ServiceCategory  string
	EquipmentName    *string
	EquipmentModel   *string
	IssueDescription string
	Urgency          Urgency
	PreferredTime    *string
	Billing          BillingFrequency
	VisitCount       *int
	AddressLine      *string
	City             *string
	State            *string
	PostalCode       *string
	Pickup           *types.Point
	Dropoff          *types.Point
}

// Submit validates a patient submission and persists the order in pending.
// A missing contact email is a distinguished failure so clients can prompt
// for one instead of showing a generic validation error.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*Order, error) {
	for _, f := range []struct{ name, value string }{
		{"patient_name", cmd.PatientName},
		{"patient_contact", cmd.PatientContact},
		{"issue_description", cmd.IssueDescription},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, &ValidationError{Field: f.name}
		}
	}

	patient, err := s.directory.PatientByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(cmd.ContactEmail)
	if email == "" {
		email = strings.TrimSpace(patient.Email)
	}
	if email == "" {
		return nil, ErrMissingEmail
	}

	urgency := cmd.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}
	billing := cmd.Billing
	if billing == "" {
		billing = BillingPerVisit
	}

	o := &Order{
		ID:               newID(),
		PatientID:        cmd.PatientID,
		Status:           StatusPending,
		ServiceType:      cmd.ServiceType,
		ServiceCategory:  cmd.ServiceCategory,
		EquipmentName:    cmd.EquipmentName,
		EquipmentModel:   cmd.EquipmentModel,
		IssueDescription: cmd.IssueDescription,
		Urgency:          urgency,
		PreferredTime:    cmd.PreferredTime,
		Billing:          billing,
		VisitCount:       cmd.VisitCount,
		PatientName:      cmd.PatientName,
		PatientContact:   cmd.PatientContact,
		ContactEmail:     email,
		AddressLine:      cmd.AddressLine,
		City:             cmd.City,
		State:            cmd.State,
		PostalCode:       cmd.PostalCode,
		Location:         joinLocation(cmd.AddressLine, cmd.City, cmd.State, cmd.PostalCode),
		Pickup:           cmd.Pickup,
		Dropoff:          cmd.Dropoff,
		Currency:         "INR",
		CreatedAt:        time.Now(),
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// joinLocation concatenates the discrete address parts into a single display
// string, keeping only non-empty parts.
func joinLocation(parts ...*string) string {
	var kept []string
	for _, p := range parts {
		if p == nil {
			continue
		}
		if v := strings.TrimSpace(*p); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}

// Accept, Decline and Cancel are patient-scoped: the patient who submitted
// the order drives them. A partner-side acceptance flow exists only as the
// unscoped admin update path.
func (s *Service) Accept(ctx context.Context, ref string, patientID types.ID) (*Order, error) {
	return s.transition(ctx, ref, patientID, StatusAccepted)
}

func (s *Service) Decline(ctx context.Context, ref string, patientID types.ID) (*Order, error) {
	return s.transition(ctx, ref, patientID, StatusDeclined)
}

func (s *Service) Cancel(ctx context.Context, ref string, patientID types.ID) (*Order, error) {
	return s.transition(ctx, ref, patientID, StatusCancelled)
}

// transition resolves the order within the caller's own scope, then applies
// the status change as an atomic conditional update. An already-terminal
// order never matches the conditional update, so repeated calls cannot
// overwrite the original transition timestamp.
func (s *Service) transition(ctx context.Context, ref string, patientID types.ID, to Status) (*Order, error) {
	o, _, err := s.Resolve(ctx, ref, patientID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, to) {
		return nil, ErrNotFound
	}
	ok, err := s.store.Transition(ctx, o.ID, patientID, o.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.store.GetByIDForPatient(ctx, o.ID, patientID)
}

// Rate attaches the patient's rating and review to a completed order, at
// most once.
func (s *Service) Rate(ctx context.Context, ref string, patientID types.ID, rating int, review *string) (*Order, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	o, _, err := s.Resolve(ctx, ref, patientID)
	if err != nil {
		return nil, err
	}
	ok, err := s.store.SetPatientRating(ctx, o.ID, patientID, rating, review)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.store.GetByIDForPatient(ctx, o.ID, patientID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID types.ID) ([]*Order, error) {
	return s.store.ListByPatient(ctx, patientID)
}

func newID() types.ID {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
