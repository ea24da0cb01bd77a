// Package assertion is the read-side orchestration: given a lookup key it
// assembles the correct public document or signals not-found/gone.
package assertion

import (
	"context"
	"errors"
	"strconv"

	"badgehub/internal/award"
	"badgehub/internal/catalog"
	"badgehub/internal/domain"
	"badgehub/internal/platform/metrics"
	"badgehub/internal/revocation"
	"badgehub/internal/storage"
	dErrors "badgehub/pkg/domain-errors"
)

// Outcome is the state of an assertion lookup.
type Outcome string

const (
	OutcomeValid    Outcome = "valid"
	OutcomeRevoked  Outcome = "revoked"
	OutcomeNotFound Outcome = "not_found"
)

// Result carries the lookup outcome; Document is populated only for
// OutcomeValid.
type Result struct {
	Outcome  Outcome
	Document domain.AssertionDocument
}

// Mode selects how a recipient reference is resolved.
type Mode string

const (
	ModeID    Mode = "id"
	ModeEmail Mode = "email"
)

type Service struct {
	awards      *award.Service
	catalog     *catalog.Service
	revocations *revocation.Service
	users       storage.UserStore
	metrics     *metrics.Metrics
}

func NewService(
	awards *award.Service,
	cat *catalog.Service,
	revocations *revocation.Service,
	users storage.UserStore,
	m *metrics.Metrics,
) *Service {
	return &Service{
		awards:      awards,
		catalog:     cat,
		revocations: revocations,
		users:       users,
		metrics:     m,
	}
}

// LookupByUID resolves an assertion by uid: an absent award is NotFound, a
// revoked one is Revoked, anything else is Valid with the full document.
// Revocation is checked at read time on every lookup.
func (s *Service) LookupByUID(ctx context.Context, uid string) (Result, error) {
	found, err := s.awards.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.IncAssertionsServed(string(OutcomeNotFound))
			return Result{Outcome: OutcomeNotFound}, nil
		}
		return Result{}, dErrors.Wrap(dErrors.CodeInternal, "resolve assertion", err)
	}
	revoked, err := s.revocations.IsRevoked(ctx, found.UID)
	if err != nil {
		return Result{}, dErrors.Wrap(dErrors.CodeInternal, "check revocation", err)
	}
	if revoked {
		s.metrics.IncAssertionsServed(string(OutcomeRevoked))
		return Result{Outcome: OutcomeRevoked}, nil
	}
	s.metrics.IncAssertionsServed(string(OutcomeValid))
	return Result{Outcome: OutcomeValid, Document: s.awards.Document(found)}, nil
}

// ResolveUser resolves a recipient reference by numeric id or email,
// depending on mode.
func (s *Service) ResolveUser(ctx context.Context, ref string, mode Mode) (domain.User, error) {
	switch mode {
	case ModeEmail:
		return s.users.FindByEmail(ctx, ref)
	case ModeID:
		id, err := strconv.ParseInt(ref, 10, 64)
		if err != nil {
			return domain.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return s.users.FindByID(ctx, id)
	default:
		return domain.User{}, dErrors.New(dErrors.CodeBadRequest, "unknown recipient mode")
	}
}

// BadgeImage streams the badge's reference image for a recipient, gated on
// an existing award. The baked assertion copy is served from /media; this
// endpoint deliberately returns the clean reference image.
func (s *Service) BadgeImage(ctx context.Context, badgeSlug, userRef string, mode Mode) ([]byte, error) {
	badge, err := s.catalog.GetBySlug(ctx, badgeSlug)
	if err != nil {
		return nil, err
	}
	user, err := s.ResolveUser(ctx, userRef, mode)
	if err != nil {
		return nil, err
	}
	if _, err := s.awards.FindByUserAndBadge(ctx, user.ID, badge.Slug); err != nil {
		return nil, err
	}
	return s.catalog.Image(ctx, badge)
}

// AwardsForUser lists a recipient's awards for the HTML overview page.
func (s *Service) AwardsForUser(ctx context.Context, userRef string, mode Mode) (domain.User, []domain.Award, error) {
	user, err := s.ResolveUser(ctx, userRef, mode)
	if err != nil {
		return domain.User{}, nil, err
	}
	awards, err := s.awards.ListByUser(ctx, user.ID)
	if err != nil {
		return domain.User{}, nil, err
	}
	return user, awards, nil
}

// AwardForUserAndBadge resolves one recipient's award of one badge for the
// HTML detail page.
func (s *Service) AwardForUserAndBadge(ctx context.Context, badgeSlug, userRef string, mode Mode) (domain.Award, domain.Badge, error) {
	badge, err := s.catalog.GetBySlug(ctx, badgeSlug)
	if err != nil {
		return domain.Award{}, domain.Badge{}, err
	}
	user, err := s.ResolveUser(ctx, userRef, mode)
	if err != nil {
		return domain.Award{}, domain.Badge{}, err
	}
	found, err := s.awards.FindByUserAndBadge(ctx, user.ID, badge.Slug)
	if err != nil {
		return domain.Award{}, domain.Badge{}, err
	}
	return found, badge, nil
}
