// README: Order reference resolution (canonical id, display code, fragments).
package booking

import (
	"context"
	"strconv"
	"strings"

	"carelink/internal/types"
)

// ResolvedVia reports how a reference was matched, so callers can log
// fallback hits. Fallback matches are best effort, not a uniqueness
// guarantee.
type ResolvedVia string

const (
	ViaCanonical   ResolvedVia = "canonical"
	ViaDisplayCode ResolvedVia = "display_code"
	ViaFragment    ResolvedVia = "fragment"
)

const canonicalIDLen = 24

// fragmentWindow is how many trailing characters of the canonical id a
// partial reference is matched against.
const fragmentWindow = 8

// IsCanonicalID reports whether a reference has the exact shape of a
// store-assigned identifier.
func IsCanonicalID(ref string) bool {
	if len(ref) != canonicalIDLen {
		return false
	}
	for _, c := range ref {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') {
			continue
		}
		return false
	}
	return true
}

func isNumeric(ref string) bool {
	if ref == "" {
		return false
	}
	for _, c := range ref {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// matchReference scans candidates (expected most-recently-created first) for
// a client-supplied partial reference. Clients display only the short code,
// so a reference may be the derived code or a truncated slice of the
// canonical id depending on client version; matching is forgiving rather
// than failing closed. The first match in scan order wins.
func matchReference(candidates []*Order, ref string) (*Order, ResolvedVia) {
	// an empty reference would Contains-match every candidate
	if ref == "" {
		return nil, ""
	}
	if isNumeric(ref) {
		if code, err := strconv.Atoi(ref); err == nil {
			for _, o := range candidates {
				if DisplayCode(o.ID) == code {
					return o, ViaDisplayCode
				}
			}
		}
	}
	for _, o := range candidates {
		id := string(o.ID)
		tail := id
		if len(id) > fragmentWindow {
			tail = id[len(id)-fragmentWindow:]
		}
		if strings.Contains(tail, ref) {
			return o, ViaFragment
		}
	}
	for _, o := range candidates {
		if strings.HasSuffix(string(o.ID), ref) {
			return o, ViaFragment
		}
	}
	return nil, ""
}

// Resolve locates the order a reference points at, scoped to a patient when
// patientID is non-empty. Canonical identifiers are always tried as a point
// lookup first; only non-canonical references fall back to scanning.
func (s *Service) Resolve(ctx context.Context, ref string, patientID types.ID) (*Order, ResolvedVia, error) {
	if IsCanonicalID(ref) {
		var (
			o   *Order
			err error
		)
		if patientID != "" {
			o, err = s.store.GetByIDForPatient(ctx, types.ID(ref), patientID)
		} else {
			o, err = s.store.GetByID(ctx, types.ID(ref))
		}
		if err != nil {
			return nil, "", err
		}
		return o, ViaCanonical, nil
	}

	var (
		candidates []*Order
		err        error
	)
	if patientID != "" {
		candidates, err = s.store.ListByPatient(ctx, patientID)
	} else {
		candidates, err = s.store.ListRecent(ctx, resolveScanLimit, 0)
	}
	if err != nil {
		return nil, "", err
	}
	o, via := matchReference(candidates, ref)
	if o == nil {
		return nil, "", ErrNotFound
	}
	return o, via, nil
}

// resolveScanLimit bounds the unscoped fallback scan used by the admin path.
const resolveScanLimit = 500
