// README: Privileged admin override surface (no scoping, no transition guard).
package booking

import (
	"context"
	"errors"

	"carelink/internal/types"
)

var ErrInvalidStatus = errors.New("unknown status value")

// AdminUpdate writes an explicit field set directly, bypassing the guarded
// state machine. This is a deliberate escape hatch for support corrections:
// no ownership scoping, no transition legality check, last writer wins.
// Callers must already carry admin privilege; the service does not
// re-implement authorization.
func (s *Service) AdminUpdate(ctx context.Context, ref string, ov AdminOverride) (*Order, error) {
	if ov.Status != nil && !ov.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if ov.PartnerRating != nil && (*ov.PartnerRating < 1 || *ov.PartnerRating > 5) {
		return nil, ErrInvalidRating
	}
	o, _, err := s.Resolve(ctx, ref, "")
	if err != nil {
		return nil, err
	}
	ok, err := s.store.AdminUpdate(ctx, o.ID, ov)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.store.GetByID(ctx, o.ID)
}

// AdminDelete removes the order permanently. No tombstone is kept.
func (s *Service) AdminDelete(ctx context.Context, ref string) error {
	o, _, err := s.Resolve(ctx, ref, "")
	if err != nil {
		return err
	}
	ok, err := s.store.Delete(ctx, o.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// AdminList returns all patient orders, unscoped, newest first.
func (s *Service) AdminList(ctx context.Context, limit, offset int) ([]*Order, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListRecent(ctx, limit, offset)
}

// AssignPartner is the unscoped acceptance path used by partners and
// support staff: it pins the engineer and moves a pending order to accepted
// in one conditional write, so two racing assignments cannot both succeed.
func (s *Service) AssignPartner(ctx context.Context, ref string, partnerID types.ID) (*Order, error) {
	o, _, err := s.Resolve(ctx, ref, "")
	if err != nil {
		return nil, err
	}
	ok, err := s.store.AssignEngineer(ctx, o.ID, partnerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.store.GetByID(ctx, o.ID)
}
