// README: User directory reads (patients and partner public profiles).
package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"carelink/internal/modules/booking"
	"carelink/internal/types"
)

// Store reads user records owned by the external profile system. Partner
// public profiles sit on the poll hot path, so they are cached in redis with
// a short TTL.
type Store struct {
	db       *pgxpool.Pool
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewStore(db *pgxpool.Pool, cache *redis.Client, cacheTTL time.Duration) *Store {
	return &Store{db: db, cache: cache, cacheTTL: cacheTTL}
}

// PatientByID fetches the identity and contact fields submit needs.
func (s *Store) PatientByID(ctx context.Context, id types.ID) (*booking.PatientRecord, error) {
	var rec booking.PatientRecord
	var phone, email sql.NullString
	err := s.db.QueryRow(ctx,
		`SELECT id, name, phone, email FROM users WHERE id = $1`, string(id),
	).Scan(&rec.ID, &rec.Name, &phone, &email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, booking.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Phone = phone.String
	rec.Email = email.String
	return &rec, nil
}

// PartnerProfileByID fetches the public partner card shown to patients.
func (s *Store) PartnerProfileByID(ctx context.Context, id types.ID) (*booking.PartnerProfile, error) {
	if p, ok := s.cachedProfile(ctx, id); ok {
		return p, nil
	}

	var p booking.PartnerProfile
	var businessName, phone, picture sql.NullString
	err := s.db.QueryRow(ctx,
		`SELECT id, name, business_name, phone, picture FROM users WHERE id = $1`, string(id),
	).Scan(&p.ID, &p.Name, &businessName, &phone, &picture)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.BusinessName = businessName.String
	p.Phone = phone.String
	p.Picture = picture.String

	s.rememberProfile(ctx, &p)
	return &p, nil
}

func profileKey(id types.ID) string {
	return "partner_profile:" + string(id)
}

func (s *Store) cachedProfile(ctx context.Context, id types.ID) (*booking.PartnerProfile, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var p booking.PartnerProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (s *Store) rememberProfile(ctx context.Context, p *booking.PartnerProfile) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, profileKey(p.ID), raw, s.cacheTTL).Err()
}
