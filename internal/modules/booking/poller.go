// README: Search-status poller: raw status to patient-facing signal.
package booking

import (
	"context"

	"go.uber.org/zap"

	"carelink/internal/types"
)

// Signal is the three-value patient-facing search status.
type Signal string

const (
	SignalSearching Signal = "searching"
	SignalFound     Signal = "found"
	SignalNotFound  Signal = "not_found"
)

// statusSignal maps a raw order status onto the poll signal. The admin
// override surface can write arbitrary statuses, so the mapping handles any
// string: only the listed values map to searching/found, everything else
// falls through to not_found.
func statusSignal(raw Status) Signal {
	switch raw {
	case StatusPending, "searching":
		return SignalSearching
	case StatusAccepted, "in_progress", "confirmed":
		return SignalFound
	default:
		return SignalNotFound
	}
}

// SearchStatusResult is the poll response payload.
type SearchStatusResult struct {
	Signal  Signal
	Order   *Order
	Partner *PartnerProfile
}

// SearchStatus answers a patient's poll after submission: has a partner
// engaged yet. It stays cheap by design, a single scoped resolve plus one
// partner lookup; the partner's aggregate rating comes from the rating
// source, which callers are expected to back with a cache.
func (s *Service) SearchStatus(ctx context.Context, ref string, patientID types.ID) (*SearchStatusResult, error) {
	o, _, err := s.Resolve(ctx, ref, patientID)
	if err != nil {
		return nil, err
	}

	res := &SearchStatusResult{Signal: statusSignal(o.Status), Order: o}
	if res.Signal != SignalFound || o.AssignedEngineerID == nil {
		return res, nil
	}

	partner, err := s.directory.PartnerProfileByID(ctx, *o.AssignedEngineerID)
	if err != nil {
		// The booking itself is still reportable; the partner card is
		// best effort.
		s.log.Debug("partner profile lookup failed",
			zap.String("order_id", string(o.ID)),
			zap.String("partner_id", string(*o.AssignedEngineerID)),
			zap.Error(err),
		)
		return res, nil
	}
	if s.ratings != nil {
		if avg, count, err := s.ratings.AggregateForPartner(ctx, partner.ID); err == nil {
			partner.Rating = avg
			partner.RatingCount = count
		}
	}
	res.Partner = partner
	return res, nil
}
