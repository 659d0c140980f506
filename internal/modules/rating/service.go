// README: Rating aggregation for partners, computed on demand.
package rating

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"carelink/internal/types"
)

type Service struct {
	store    *Store
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewService wires the aggregator. cache may be nil; aggregation then always
// hits the store.
func NewService(store *Store, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{store: store, cache: cache, cacheTTL: cacheTTL}
}

type Summary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// AggregateForPartner computes the running average (one decimal place) and
// completed-order count from qualifying orders. An empty qualifying set is
// average 0, count 0, never a division by zero.
func (s *Service) AggregateForPartner(ctx context.Context, partnerID types.ID) (float64, int, error) {
	if sum, ok := s.cached(ctx, partnerID); ok {
		return sum.Average, sum.Count, nil
	}

	rows, err := s.store.ListForPartner(ctx, partnerID)
	if err != nil {
		return 0, 0, err
	}
	sum := summarize(rows)
	s.remember(ctx, partnerID, sum)
	return sum.Average, sum.Count, nil
}

// RatingsFeed returns the partner's qualifying ratings, newest first.
func (s *Service) RatingsFeed(ctx context.Context, partnerID types.ID) ([]Row, error) {
	return s.store.ListForPartner(ctx, partnerID)
}

func summarize(rows []Row) Summary {
	if len(rows) == 0 {
		return Summary{}
	}
	total := 0
	count := 0
	for _, r := range rows {
		// The store filters on rating IS NOT NULL, but the aggregate
		// ignores out-of-range values defensively.
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		total += r.Rating
		count++
	}
	if count == 0 {
		return Summary{}
	}
	return Summary{Average: roundTo1(float64(total) / float64(count)), Count: count}
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *Service) cacheKey(partnerID types.ID) string {
	return fmt.Sprintf("partner_rating:%s", partnerID)
}

func (s *Service) cached(ctx context.Context, partnerID types.ID) (Summary, bool) {
	if s.cache == nil {
		return Summary{}, false
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(partnerID)).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var sum Summary
	if err := json.Unmarshal(raw, &sum); err != nil {
		return Summary{}, false
	}
	return sum, true
}

func (s *Service) remember(ctx context.Context, partnerID types.ID, sum Summary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(sum)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, s.cacheKey(partnerID), raw, s.cacheTTL).Err()
}
