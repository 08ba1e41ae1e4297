package catalog

import (
	"context"
	"fmt"
	"time"

	"eventhive/pkg/cache"

	"github.com/google/uuid"
)

// Service is the read-only catalog lookup consumed by the settlement
// pipeline. Tier mutation is owned exclusively by the booking committer.
type Service interface {
	GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context, page, limit int) ([]EventResponse, int64, error)
	GetTier(ctx context.Context, tierID uuid.UUID) (*TicketTier, error)
	GetEventTiers(ctx context.Context, eventID uuid.UUID) ([]TicketTier, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	cacheTTL time.Duration
}

// NewService creates a new catalog service instance
func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
	}
}

func (s *service) GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	return s.repo.GetEventWithTiers(ctx, eventID)
}

func (s *service) ListEvents(ctx context.Context, page, limit int) ([]EventResponse, int64, error) {
	type cachedPage struct {
		Events     []EventResponse `json:"events"`
		TotalCount int64           `json:"total_count"`
	}

	key := fmt.Sprintf("catalog:events:page:%d:limit:%d", page, limit)

	var result cachedPage
	if s.cache != nil {
		err := s.cache.GetOrSet(ctx, key, s.cacheTTL, func() (interface{}, error) {
			events, count, err := s.repo.ListPublishedEvents(ctx, page, limit)
			if err != nil {
				return nil, err
			}
			responses := make([]EventResponse, 0, len(events))
			for i := range events {
				responses = append(responses, events[i].ToResponse())
			}
			return cachedPage{Events: responses, TotalCount: count}, nil
		}, &result)
		if err != nil {
			return nil, 0, err
		}
		return result.Events, result.TotalCount, nil
	}

	events, count, err := s.repo.ListPublishedEvents(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}
	return responses, count, nil
}

// GetTier reads the tier outside any transaction. This is the soft check
// used by checkout; the authoritative read happens under row lock in the
// settlement transaction.
func (s *service) GetTier(ctx context.Context, tierID uuid.UUID) (*TicketTier, error) {
	return s.repo.GetTierByID(ctx, tierID)
}

func (s *service) GetEventTiers(ctx context.Context, eventID uuid.UUID) ([]TicketTier, error) {
	return s.repo.GetTiersByEventID(ctx, eventID)
}
