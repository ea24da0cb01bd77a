package storage

import (
	"context"

	"badgehub/internal/domain"
)

// Stores are interface-driven to keep the domain logic testable and to allow
// swapping in-memory and PostgreSQL persistence without rewiring business
// code.

type UserStore interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
}

type IdentityStore interface {
	FindByUser(ctx context.Context, userID int64) (domain.Identity, error)
	// Save creates or replaces the identity row for identity.UserID in a
	// single write, so salt and hash are never observed half-updated.
	Save(ctx context.Context, identity domain.Identity) error
}

type BadgeStore interface {
	Create(ctx context.Context, badge domain.Badge) (domain.Badge, error)
	FindBySlug(ctx context.Context, slug string) (domain.Badge, error)
}

type CriterionStore interface {
	Create(ctx context.Context, criterion domain.Criterion) error
	FindBySlug(ctx context.Context, slug string) (domain.Criterion, error)
}

type AwardStore interface {
	// Create returns ErrConflict when an award for the same
	// (user, badge) pair already exists. The check and the insert are a
	// single atomic operation.
	Create(ctx context.Context, award domain.Award) error
	FindByUID(ctx context.Context, uid string) (domain.Award, error)
	FindByUserAndBadge(ctx context.Context, userID int64, badgeSlug string) (domain.Award, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Award, error)
}

type IssuerStore interface {
	// First returns the canonical issuer row; ErrNotFound when none is
	// configured.
	First(ctx context.Context) (domain.Issuer, error)
	Save(ctx context.Context, issuer domain.Issuer) error
}

type RevocationStore interface {
	Add(ctx context.Context, revocation domain.Revocation) error
	Exists(ctx context.Context, awardUID string) (bool, error)
	List(ctx context.Context) ([]domain.Revocation, error)
}

// MediaStore holds PNG bytes addressed by name. Badge reference images and
// baked assertion images both live here.
type MediaStore interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
}
