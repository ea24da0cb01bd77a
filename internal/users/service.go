// Package users manages recipients and keeps their identity hashes in step
// with their email addresses.
package users

import (
	"context"
	"errors"

	"badgehub/internal/domain"
	"badgehub/internal/identity"
	"badgehub/internal/storage"
	dErrors "badgehub/pkg/domain-errors"
	"badgehub/pkg/email"
)

type Service struct {
	users      storage.UserStore
	identities *identity.Service
}

func NewService(users storage.UserStore, identities *identity.Service) *Service {
	return &Service{users: users, identities: identities}
}

// Register creates a recipient and their identity in one go, so every user
// observable by the award path already carries a hash.
func (s *Service) Register(ctx context.Context, address string) (domain.User, error) {
	if !email.Valid(address) {
		return domain.User{}, dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	user, err := s.users.Create(ctx, domain.User{Email: address})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return domain.User{}, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return domain.User{}, dErrors.Wrap(dErrors.CodeInternal, "create user", err)
	}
	if _, err := s.identities.Reconcile(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// ChangeEmail updates a recipient's address and reconciles their identity:
// salt and hash are regenerated together, never one without the other.
func (s *Service) ChangeEmail(ctx context.Context, id int64, address string) (domain.User, error) {
	if !email.Valid(address) {
		return domain.User{}, dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	if err := s.users.UpdateEmail(ctx, id, address); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		if errors.Is(err, storage.ErrConflict) {
			return domain.User{}, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return domain.User{}, dErrors.Wrap(dErrors.CodeInternal, "update email", err)
	}
	user := domain.User{ID: id, Email: address}
	if _, err := s.identities.Reconcile(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
