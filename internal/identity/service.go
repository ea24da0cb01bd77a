package identity

import (
	"context"
	"errors"

	"badgehub/internal/domain"
	"badgehub/internal/storage"
	dErrors "badgehub/pkg/domain-errors"
)

// Service reconciles a user's stored identity with their current email.
// It is invoked explicitly on user creation and email change; there are no
// save-time side effects.
type Service struct {
	identities storage.IdentityStore
}

func NewService(identities storage.IdentityStore) *Service {
	return &Service{identities: identities}
}

// Reconcile ensures the stored identity matches the user's current email.
//
// When no identity exists it creates one with a fresh salt. When one
// exists, the candidate hash is recomputed with the existing salt: an
// unchanged hash means the email did not change and nothing is written;
// otherwise salt and hash are regenerated together and saved in one write.
//
// Lookup failures other than "record absent" are propagated, never treated
// as a missing identity. Silently recreating an identity over a flaky
// read would desync every future snapshot.
func (s *Service) Reconcile(ctx context.Context, user domain.User) (domain.Identity, error) {
	existing, err := s.identities.FindByUser(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return domain.Identity{}, dErrors.Wrap(dErrors.CodeInternal, "identity lookup failed", err)
		}
		created := newIdentity(user)
		if err := s.identities.Save(ctx, created); err != nil {
			return domain.Identity{}, dErrors.Wrap(dErrors.CodeInternal, "create identity", err)
		}
		return created, nil
	}

	if Hash(user.Email, existing.Salt) == existing.Hash {
		return existing, nil
	}

	regenerated := newIdentity(user)
	if err := s.identities.Save(ctx, regenerated); err != nil {
		return domain.Identity{}, dErrors.Wrap(dErrors.CodeInternal, "update identity", err)
	}
	return regenerated, nil
}

func newIdentity(user domain.User) domain.Identity {
	salt := GenerateSalt()
	return domain.Identity{
		UserID: user.ID,
		Type:   domain.IdentityTypeEmail,
		Hash:   Hash(user.Email, salt),
		Hashed: true,
		Salt:   salt,
	}
}
