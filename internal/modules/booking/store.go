// README: Service order store backed by PostgreSQL.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carelink/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const orderColumns = `
	id, patient_id, assigned_engineer_id, status,
	service_type, service_category, equipment_name, equipment_model,
	issue_description, urgency_level, preferred_time, billing_frequency, visit_count,
	patient_name, patient_contact, contact_email,
	address_line, city, state, postal_code, location,
	pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
	quoted_price, currency, engineer_notes,
	rating, review, partner_rating, partner_review,
	created_at, accepted_at, declined_at, cancelled_at, completed_at`

func (s *Store) Create(ctx context.Context, o *Order) error {
	var pickupLat, pickupLng, dropoffLat, dropoffLng *float64
	if o.Pickup != nil {
		pickupLat, pickupLng = &o.Pickup.Lat, &o.Pickup.Lng
	}
	if o.Dropoff != nil {
		dropoffLat, dropoffLng = &o.Dropoff.Lat, &o.Dropoff.Lng
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO service_orders (
			id, patient_id, assigned_engineer_id, status,
			service_type, service_category, equipment_name, equipment_model,
			issue_description, urgency_level, preferred_time, billing_frequency, visit_count,
			patient_name, patient_contact, contact_email,
			address_line, city, state, postal_code, location,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			quoted_price, currency, engineer_notes, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, $19, $20, $21,
			$22, $23, $24, $25,
			$26, $27, $28, $29
		)`,
		string(o.ID),
		string(o.PatientID),
		idToStringPtr(o.AssignedEngineerID),
		string(o.Status),
		o.ServiceType, o.ServiceCategory, o.EquipmentName, o.EquipmentModel,
		o.IssueDescription, string(o.Urgency), o.PreferredTime, string(o.Billing), o.VisitCount,
		o.PatientName, o.PatientContact, o.ContactEmail,
		o.AddressLine, o.City, o.State, o.PostalCode, o.Location,
		pickupLat, pickupLng, dropoffLat, dropoffLng,
		o.QuotedPrice, o.Currency, o.EngineerNotes, o.CreatedAt,
	)
	return err
}

func (s *Store) GetByID(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM service_orders WHERE id = $1`, string(id))
	return scanOrder(row)
}

// GetByIDForPatient is the scoped point lookup; a patient can never read
// another patient's order through it.
func (s *Store) GetByIDForPatient(ctx context.Context, id, patientID types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM service_orders WHERE id = $1 AND patient_id = $2`,
		string(id), string(patientID))
	return scanOrder(row)
}

func (s *Store) ListByPatient(ctx context.Context, patientID types.ID) ([]*Order, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+orderColumns+` FROM service_orders
		 WHERE patient_id = $1 ORDER BY created_at DESC`, string(patientID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListRecent feeds unscoped reference resolution and the admin listing.
func (s *Store) ListRecent(ctx context.Context, limit, offset int) ([]*Order, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+orderColumns+` FROM service_orders
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// Transition performs the guarded status change as a single conditional
// update keyed on order id, owning patient and the expected current status,
// so racing transitions cannot both succeed. Each transition timestamp is
// written only while still NULL.
func (s *Store) Transition(ctx context.Context, id, patientID types.ID, from, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE service_orders
		SET status = $1,
		    accepted_at  = CASE WHEN $1 = 'accepted'  AND accepted_at  IS NULL THEN NOW() ELSE accepted_at  END,
		    declined_at  = CASE WHEN $1 = 'declined'  AND declined_at  IS NULL THEN NOW() ELSE declined_at  END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' AND cancelled_at IS NULL THEN NOW() ELSE cancelled_at END,
		    completed_at = CASE WHEN $1 = 'completed' AND completed_at IS NULL THEN NOW() ELSE completed_at END
		WHERE id = $2 AND patient_id = $3 AND status = $4`,
		string(to), string(id), string(patientID), string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AssignEngineer pins the fulfilling partner and accepts the order in one
// conditional write. The engineer reference is set exactly once here; only
// the admin override may reassign it afterwards.
func (s *Store) AssignEngineer(ctx context.Context, id, engineerID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE service_orders
		SET assigned_engineer_id = $1,
		    status = 'accepted',
		    accepted_at = CASE WHEN accepted_at IS NULL THEN NOW() ELSE accepted_at END
		WHERE id = $2 AND status = 'pending' AND assigned_engineer_id IS NULL`,
		string(engineerID), string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetPatientRating writes the patient-facing rating fields at most once, and
// only on a completed order owned by the caller.
func (s *Store) SetPatientRating(ctx context.Context, id, patientID types.ID, rating int, review *string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE service_orders
		SET rating = $1, review = $2
		WHERE id = $3 AND patient_id = $4 AND status = 'completed' AND rating IS NULL`,
		rating, review, string(id), string(patientID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AdminOverride is the privileged partial update. Absent fields are nil and
// leave the column untouched; present fields are written unconditionally,
// with no ownership scoping and no transition guard. Repeating the same call
// writes the same values, so it is idempotent.
type AdminOverride struct {
	Status             *Status
	AssignedEngineerID *types.ID
	ServiceType        *string
	ServiceCategory    *string
	EquipmentName      *string
	EquipmentModel     *string
	IssueDescription   *string
	Urgency            *Urgency
	QuotedPrice        *int64
	EngineerNotes      *string
	PartnerRating      *int
	PartnerReview      *string
}

func (s *Store) AdminUpdate(ctx context.Context, id types.ID, ov AdminOverride) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE service_orders
		SET status               = COALESCE($1, status),
		    assigned_engineer_id = COALESCE($2, assigned_engineer_id),
		    service_type         = COALESCE($3, service_type),
		    service_category     = COALESCE($4, service_category),
		    equipment_name       = COALESCE($5, equipment_name),
		    equipment_model      = COALESCE($6, equipment_model),
		    issue_description    = COALESCE($7, issue_description),
		    urgency_level        = COALESCE($8, urgency_level),
		    quoted_price         = COALESCE($9, quoted_price),
		    engineer_notes       = COALESCE($10, engineer_notes),
		    partner_rating       = COALESCE($11, partner_rating),
		    partner_review       = COALESCE($12, partner_review),
		    accepted_at  = CASE WHEN $1 = 'accepted'  AND accepted_at  IS NULL THEN NOW() ELSE accepted_at  END,
		    declined_at  = CASE WHEN $1 = 'declined'  AND declined_at  IS NULL THEN NOW() ELSE declined_at  END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' AND cancelled_at IS NULL THEN NOW() ELSE cancelled_at END,
		    completed_at = CASE WHEN $1 = 'completed' AND completed_at IS NULL THEN NOW() ELSE completed_at END
		WHERE id = $13`,
		statusToStringPtr(ov.Status),
		idToStringPtr(ov.AssignedEngineerID),
		ov.ServiceType,
		ov.ServiceCategory,
		ov.EquipmentName,
		ov.EquipmentModel,
		ov.IssueDescription,
		urgencyToStringPtr(ov.Urgency),
		ov.QuotedPrice,
		ov.EngineerNotes,
		ov.PartnerRating,
		ov.PartnerReview,
		string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Delete is the administrative hard delete. There is no tombstone model.
func (s *Store) Delete(ctx context.Context, id types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM service_orders WHERE id = $1`, string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var engineerID sql.NullString
	var pickupLat, pickupLng, dropoffLat, dropoffLng *float64
	var acceptedAt, declinedAt, cancelledAt, completedAt sql.NullTime

	err := row.Scan(
		&o.ID, &o.PatientID, &engineerID, &o.Status,
		&o.ServiceType, &o.ServiceCategory, &o.EquipmentName, &o.EquipmentModel,
		&o.IssueDescription, &o.Urgency, &o.PreferredTime, &o.Billing, &o.VisitCount,
		&o.PatientName, &o.PatientContact, &o.ContactEmail,
		&o.AddressLine, &o.City, &o.State, &o.PostalCode, &o.Location,
		&pickupLat, &pickupLng, &dropoffLat, &dropoffLng,
		&o.QuotedPrice, &o.Currency, &o.EngineerNotes,
		&o.Rating, &o.Review, &o.PartnerRating, &o.PartnerReview,
		&o.CreatedAt, &acceptedAt, &declinedAt, &cancelledAt, &completedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if engineerID.Valid {
		e := types.ID(engineerID.String)
		o.AssignedEngineerID = &e
	}
	if pickupLat != nil && pickupLng != nil {
		o.Pickup = &types.Point{Lat: *pickupLat, Lng: *pickupLng}
	}
	if dropoffLat != nil && dropoffLng != nil {
		o.Dropoff = &types.Point{Lat: *dropoffLat, Lng: *dropoffLng}
	}
	o.AcceptedAt = toTimePtr(acceptedAt)
	o.DeclinedAt = toTimePtr(declinedAt)
	o.CancelledAt = toTimePtr(cancelledAt)
	o.CompletedAt = toTimePtr(completedAt)
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]*Order, error) {
	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func idToStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func statusToStringPtr(v *Status) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func urgencyToStringPtr(v *Urgency) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
