// Package revocation maintains the mapping from award uid to revocation
// reason. Revocation state is always a lookup against this registry, never
// a flag stored on the award, so there is no denormalized copy to drift.
package revocation

import (
	"context"
	"errors"
	"time"

	"badgehub/internal/audit"
	"badgehub/internal/domain"
	"badgehub/internal/platform/metrics"
	"badgehub/internal/storage"
	dErrors "badgehub/pkg/domain-errors"
)

type Service struct {
	store   storage.RevocationStore
	awards  storage.AwardStore
	auditor *audit.Publisher
	metrics *metrics.Metrics
}

func NewService(store storage.RevocationStore, awards storage.AwardStore, auditor *audit.Publisher, m *metrics.Metrics) *Service {
	return &Service{store: store, awards: awards, auditor: auditor, metrics: m}
}

// Revoke voids an award. Created only through administrative action; the
// public surface merely reads the registry. The award must exist: an
// unknown uid in the public revocation feed would be noise validators
// cannot act on.
func (s *Service) Revoke(ctx context.Context, awardUID, reason string) error {
	if awardUID == "" || reason == "" {
		return dErrors.New(dErrors.CodeValidation, "award uid and reason are required")
	}
	if _, err := s.awards.FindByUID(ctx, awardUID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "award not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "resolve award", err)
	}
	if err := s.store.Add(ctx, domain.Revocation{AwardUID: awardUID, Reason: reason}); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "store revocation", err)
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionAwardRevoked,
		AwardUID: awardUID,
		Reason:   reason,
	})
	return nil
}

// IsRevoked reports whether any revocation references the award uid.
func (s *Service) IsRevoked(ctx context.Context, awardUID string) (bool, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRevocationCheck(time.Since(start)) }()
	return s.store.Exists(ctx, awardUID)
}

// List returns every current revocation for the public feed. Order is not
// significant.
func (s *Service) List(ctx context.Context) ([]domain.Revocation, error) {
	return s.store.List(ctx)
}
