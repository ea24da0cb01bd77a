// Package award is the transactional core: creating assertions, freezing
// recipient identity into them, baking provenance into the badge image, and
// rendering the hosted assertion document.
package award

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"badgehub/internal/audit"
	"badgehub/internal/domain"
	"badgehub/internal/identity"
	"badgehub/internal/imaging"
	"badgehub/internal/platform/metrics"
	"badgehub/internal/storage"
	dErrors "badgehub/pkg/domain-errors"
)

// bakedMetadataKey is the tEXt key validators look for in baked badge
// images.
const bakedMetadataKey = "openbadges"

type Service struct {
	awards     storage.AwardStore
	badges     storage.BadgeStore
	users      storage.UserStore
	media      storage.MediaStore
	identities *identity.Service
	auditor    *audit.Publisher
	metrics    *metrics.Metrics
	base       domain.BaseURL
	now        func() time.Time
}

func NewService(
	awards storage.AwardStore,
	badges storage.BadgeStore,
	users storage.UserStore,
	media storage.MediaStore,
	identities *identity.Service,
	auditor *audit.Publisher,
	m *metrics.Metrics,
	base domain.BaseURL,
) *Service {
	return &Service{
		awards:     awards,
		badges:     badges,
		users:      users,
		media:      media,
		identities: identities,
		auditor:    auditor,
		metrics:    m,
		base:       base,
		now:        time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateInput carries an administrative award request.
type CreateInput struct {
	UserID    int64
	BadgeSlug string
	Evidence  string
	Expires   time.Time
}

// Create grants a badge to a user as one explicit, ordered sequence:
// resolve badge and user, reconcile and snapshot the recipient identity,
// generate the uid, bake the assertion URL into a copy of the badge image,
// then insert the award under the (user, badge) uniqueness constraint.
//
// Baking happens exactly once, here; saves elsewhere never re-trigger it.
// A bake failure aborts the whole creation, because an assertion without a
// provenance-carrying image is not worth issuing. The duplicate check is
// the store's insert-time constraint, so concurrent attempts for the same
// pair produce exactly one success and one CodeConflict.
func (s *Service) Create(ctx context.Context, input CreateInput) (domain.Award, error) {
	badge, err := s.badges.FindBySlug(ctx, input.BadgeSlug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Award{}, dErrors.New(dErrors.CodeNotFound, "badge not found")
		}
		return domain.Award{}, dErrors.Wrap(dErrors.CodeInternal, "resolve badge", err)
	}
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Award{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return domain.Award{}, dErrors.Wrap(dErrors.CodeInternal, "resolve user", err)
	}

	// Point-in-time freeze: the snapshot is written once and never
	// re-synced, so later email changes do not rewrite issued assertions.
	ident, err := s.identities.Reconcile(ctx, user)
	if err != nil {
		return domain.Award{}, err
	}

	uid := uuid.New().String()
	awarded := s.now().UTC()

	bakedName, err := s.bakeImage(ctx, badge, uid)
	if err != nil {
		return domain.Award{}, err
	}

	created := domain.Award{
		UID:       uid,
		UserID:    user.ID,
		BadgeSlug: badge.Slug,
		Awarded:   awarded,
		Evidence:  input.Evidence,
		ImageName: bakedName,
		Expires:   input.Expires,
		Identity:  ident.Snapshot(),
	}
	if err := s.awards.Create(ctx, created); err != nil {
		// Losing the uniqueness race leaves an orphaned baked image;
		// clean it up best-effort.
		_ = s.media.Delete(ctx, bakedName)
		if errors.Is(err, storage.ErrConflict) {
			return domain.Award{}, dErrors.New(dErrors.CodeConflict, "user already holds this badge")
		}
		return domain.Award{}, dErrors.Wrap(dErrors.CodeInternal, "store award", err)
	}

	s.metrics.IncAwardsCreated()
	s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionAwardCreated,
		AwardUID:  uid,
		BadgeSlug: badge.Slug,
		UserID:    user.ID,
	})
	return created, nil
}

// bakeImage copies the badge's reference image with the absolute assertion
// URL embedded as a tEXt chunk, and stores it under an assertion-specific
// name.
func (s *Service) bakeImage(ctx context.Context, badge domain.Badge, uid string) (string, error) {
	source, err := s.media.Get(ctx, badge.ImageName)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "load badge image", err)
	}
	baked, err := imaging.EmbedText(source, bakedMetadataKey, s.base.Assertion(uid))
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "bake assertion image", err)
	}
	name := assertionImageName(badge.ImageName, uid)
	if err := s.media.Put(ctx, name, baked); err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "store assertion image", err)
	}
	return name, nil
}

// assertionImageName swaps the badge image's .png suffix for an
// assertion-specific one. The uid keeps multiple awards of one badge from
// colliding in the media store.
func assertionImageName(badgeImageName, uid string) string {
	return fmt.Sprintf("%s_%s_assertion.png", strings.TrimSuffix(badgeImageName, ".png"), uid)
}

// FindByUID resolves an award by its public assertion identifier.
func (s *Service) FindByUID(ctx context.Context, uid string) (domain.Award, error) {
	return s.awards.FindByUID(ctx, uid)
}

// FindByUserAndBadge resolves the single award linking a user to a badge.
func (s *Service) FindByUserAndBadge(ctx context.Context, userID int64, badgeSlug string) (domain.Award, error) {
	return s.awards.FindByUserAndBadge(ctx, userID, badgeSlug)
}

// ListByUser returns every award held by a user.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Award, error) {
	return s.awards.ListByUser(ctx, userID)
}

// Document renders the hosted assertion document. Verification is always
// "hosted"; signed assertions are unsupported.
func (s *Service) Document(award domain.Award) domain.AssertionDocument {
	var evidence *string
	if award.Evidence != "" {
		evidence = &award.Evidence
	}
	expires := ""
	if !award.Expires.IsZero() {
		expires = award.Expires.Format(domain.DateOnly)
	}
	return domain.AssertionDocument{
		UID: award.UID,
		Recipient: domain.RecipientDocument{
			Identity: award.Identity.Hash,
			Type:     string(award.Identity.Type),
			Hashed:   award.Identity.Hashed,
			Salt:     award.Identity.Salt,
		},
		Badge: s.base.Badge(award.BadgeSlug),
		Verify: domain.VerifyDocument{
			Type: "hosted",
			URL:  s.base.Assertion(award.UID),
		},
		IssuedOn: award.Awarded.Format(domain.DateOnly),
		Image:    s.base.Media(award.ImageName),
		Evidence: evidence,
		Expires:  expires,
	}
}
