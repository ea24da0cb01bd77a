package award

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"badgehub/internal/domain"
	"badgehub/internal/identity"
	"badgehub/internal/imaging"
	"badgehub/internal/storage"
	dErrors "badgehub/pkg/domain-errors"
	"badgehub/pkg/testutil"
)

type AwardServiceSuite struct {
	suite.Suite
	users      *storage.InMemoryUserStore
	badges     *storage.InMemoryBadgeStore
	awards     *storage.InMemoryAwardStore
	media      *storage.InMemoryMediaStore
	identities *identity.Service
	service    *Service

	user  domain.User
	badge domain.Badge
}

func TestAwardServiceSuite(t *testing.T) {
	suite.Run(t, new(AwardServiceSuite))
}

func (s *AwardServiceSuite) SetupTest() {
	ctx := context.Background()

	s.users = storage.NewInMemoryUserStore()
	s.badges = storage.NewInMemoryBadgeStore()
	s.awards = storage.NewInMemoryAwardStore()
	s.media = storage.NewInMemoryMediaStore()
	s.identities = identity.NewService(storage.NewInMemoryIdentityStore())

	base, err := domain.ParseBaseURL("https://badges.example.com")
	s.Require().NoError(err)

	s.service = NewService(s.awards, s.badges, s.users, s.media, s.identities, nil, nil, base)
	s.service.WithClock(func() time.Time {
		return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	})

	s.user, err = s.users.Create(ctx, domain.User{Email: "alice@example.com"})
	s.Require().NoError(err)

	s.badge, err = s.badges.Create(ctx, domain.Badge{
		Title:     "Python Master",
		Slug:      "python-master",
		Criteria:  "https://badges.example.com/criterion/python-master/",
		ImageName: "badges/python-master.png",
	})
	s.Require().NoError(err)
	s.Require().NoError(s.media.Put(ctx, s.badge.ImageName, testutil.PNG(s.T())))
}

func (s *AwardServiceSuite) TestCreate() {
	ctx := context.Background()

	created, err := s.service.Create(ctx, CreateInput{UserID: s.user.ID, BadgeSlug: s.badge.Slug})
	s.Require().NoError(err)

	s.Run("uid is a uuid", func() {
		_, err := uuid.Parse(created.UID)
		s.NoError(err)
	})

	s.Run("identity snapshot verifies against the recipient email", func() {
		s.True(created.Identity.Hashed)
		s.Equal(domain.IdentityTypeEmail, created.Identity.Type)
		s.Equal(identity.Hash(s.user.Email, created.Identity.Salt), created.Identity.Hash)
	})

	s.Run("baked image carries the assertion url", func() {
		baked, err := s.media.Get(ctx, created.ImageName)
		s.Require().NoError(err)

		url, ok := imaging.ExtractText(baked, "openbadges")
		s.Require().True(ok)
		s.Equal("https://badges.example.com/assertion/"+created.UID+"/", url)
	})

	s.Run("baked image name is award specific", func() {
		s.Equal("badges/python-master_"+created.UID+"_assertion.png", created.ImageName)
	})

	s.Run("reference image is untouched", func() {
		ref, err := s.media.Get(ctx, s.badge.ImageName)
		s.Require().NoError(err)
		_, ok := imaging.ExtractText(ref, "openbadges")
		s.False(ok)
	})
}

func (s *AwardServiceSuite) TestCreateDuplicatePairConflicts() {
	ctx := context.Background()

	_, err := s.service.Create(ctx, CreateInput{UserID: s.user.ID, BadgeSlug: s.badge.Slug})
	s.Require().NoError(err)

	_, err = s.service.Create(ctx, CreateInput{UserID: s.user.ID, BadgeSlug: s.badge.Slug})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *AwardServiceSuite) TestCreateUnknownBadge() {
	_, err := s.service.Create(context.Background(), CreateInput{UserID: s.user.ID, BadgeSlug: "missing"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *AwardServiceSuite) TestCreateUnknownUser() {
	_, err := s.service.Create(context.Background(), CreateInput{UserID: 999, BadgeSlug: s.badge.Slug})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *AwardServiceSuite) TestCreateMissingBadgeImageAborts() {
	ctx := context.Background()
	s.Require().NoError(s.media.Delete(ctx, s.badge.ImageName))

	_, err := s.service.Create(ctx, CreateInput{UserID: s.user.ID, BadgeSlug: s.badge.Slug})
	s.Require().Error(err)

	// A failed bake must not leave a half-created award behind.
	awards, listErr := s.awards.ListByUser(ctx, s.user.ID)
	s.Require().NoError(listErr)
	s.Empty(awards)
}

func (s *AwardServiceSuite) TestSnapshotSurvivesEmailChange() {
	ctx := context.Background()

	created, err := s.service.Create(ctx, CreateInput{UserID: s.user.ID, BadgeSlug: s.badge.Slug})
	s.Require().NoError(err)

	// Simulate a later email change with reconciliation.
	s.Require().NoError(s.users.UpdateEmail(ctx, s.user.ID, "alice@new.example.com"))
	_, err = s.identities.Reconcile(ctx, domain.User{ID: s.user.ID, Email: "alice@new.example.com"})
	s.Require().NoError(err)

	stored, err := s.awards.FindByUID(ctx, created.UID)
	s.Require().NoError(err)

	// The frozen snapshot still verifies against the email at award time.
	s.Equal(created.Identity, stored.Identity)
	s.Equal(identity.Hash("alice@example.com", stored.Identity.Salt), stored.Identity.Hash)
}

func (s *AwardServiceSuite) TestDocument() {
	ctx := context.Background()

	s.Run("minimal award", func() {
		created, err := s.service.Create(ctx, CreateInput{UserID: s.user.ID, BadgeSlug: s.badge.Slug})
		s.Require().NoError(err)

		doc := s.service.Document(created)
		s.Equal(created.UID, doc.UID)
		s.Equal("hosted", doc.Verify.Type)
		s.Equal("https://badges.example.com/assertion/"+created.UID+"/", doc.Verify.URL)
		s.Equal("https://badges.example.com/badge/python-master/", doc.Badge)
		s.Equal("https://badges.example.com/media/"+created.ImageName, doc.Image)
		s.Equal("2026-03-14", doc.IssuedOn)
		s.Equal(created.Identity.Hash, doc.Recipient.Identity)
		s.Equal("email", doc.Recipient.Type)
		s.True(doc.Recipient.Hashed)
		s.Equal(created.Identity.Salt, doc.Recipient.Salt)

		// Absent evidence serializes as null, absent expiry as "".
		s.Nil(doc.Evidence)
		s.Equal("", doc.Expires)
	})

	s.Run("evidence and expiry set", func() {
		other, err := s.users.Create(ctx, domain.User{Email: "bob@example.com"})
		s.Require().NoError(err)

		created, err := s.service.Create(ctx, CreateInput{
			UserID:    other.ID,
			BadgeSlug: s.badge.Slug,
			Evidence:  "https://example.com/proof",
			Expires:   time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC),
		})
		s.Require().NoError(err)

		doc := s.service.Document(created)
		s.Require().NotNil(doc.Evidence)
		s.Equal("https://example.com/proof", *doc.Evidence)
		s.Equal("2027-01-31", doc.Expires)
	})
}
