// README: Rating rows read straight from completed service orders.
package rating

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"carelink/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Row is one qualifying rating: completed order, assigned to the partner,
// patient rating present.
type Row struct {
	PatientName   string    `json:"patient_name"`
	ServiceType   string    `json:"service_type"`
	EquipmentName *string   `json:"equipment_name,omitempty"`
	Rating        int       `json:"rating"`
	Review        *string   `json:"review,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListForPartner returns qualifying rating rows newest first. Rows that fail
// to scan are skipped, not fatal: one malformed historical record must not
// take the whole feed down.
func (s *Store) ListForPartner(ctx context.Context, partnerID types.ID) ([]Row, error) {
	rows, err := s.db.Query(ctx, `
		SELECT patient_name, service_type, equipment_name, rating, review, created_at
		FROM service_orders
		WHERE assigned_engineer_id = $1
		  AND status = 'completed'
		  AND rating IS NOT NULL
		ORDER BY created_at DESC`,
		string(partnerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.PatientName, &r.ServiceType, &r.EquipmentName, &r.Rating, &r.Review, &r.CreatedAt); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
