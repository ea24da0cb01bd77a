package storage

import (
	"context"
	"sync"

	"badgehub/internal/domain"
)

// In-memory stores back tests and single-node deployments. They
// intentionally favor clarity over performance.

type InMemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{nextID: 1, users: make(map[int64]domain.User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domain.User{}, ErrConflict
		}
	}
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return user, nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return domain.User{}, ErrNotFound
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (s *InMemoryUserStore) UpdateEmail(_ context.Context, id int64, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	for _, existing := range s.users {
		if existing.Email == email && existing.ID != id {
			return ErrConflict
		}
	}
	user.Email = email
	s.users[id] = user
	return nil
}

type InMemoryIdentityStore struct {
	mu         sync.RWMutex
	identities map[int64]domain.Identity
}

func NewInMemoryIdentityStore() *InMemoryIdentityStore {
	return &InMemoryIdentityStore{identities: make(map[int64]domain.Identity)}
}

func (s *InMemoryIdentityStore) FindByUser(_ context.Context, userID int64) (domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if identity, ok := s.identities[userID]; ok {
		return identity, nil
	}
	return domain.Identity{}, ErrNotFound
}

func (s *InMemoryIdentityStore) Save(_ context.Context, identity domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[identity.UserID] = identity
	return nil
}

type InMemoryBadgeStore struct {
	mu     sync.RWMutex
	nextID int64
	badges map[string]domain.Badge
}

func NewInMemoryBadgeStore() *InMemoryBadgeStore {
	return &InMemoryBadgeStore{nextID: 1, badges: make(map[string]domain.Badge)}
}

func (s *InMemoryBadgeStore) Create(_ context.Context, badge domain.Badge) (domain.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.badges[badge.Slug]; ok {
		return domain.Badge{}, ErrConflict
	}
	for _, existing := range s.badges {
		if existing.Title == badge.Title {
			return domain.Badge{}, ErrConflict
		}
	}
	badge.ID = s.nextID
	s.nextID++
	s.badges[badge.Slug] = badge
	return badge, nil
}

func (s *InMemoryBadgeStore) FindBySlug(_ context.Context, slug string) (domain.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if badge, ok := s.badges[slug]; ok {
		return badge, nil
	}
	return domain.Badge{}, ErrNotFound
}

type InMemoryCriterionStore struct {
	mu       sync.RWMutex
	criteria map[string]domain.Criterion
}

func NewInMemoryCriterionStore() *InMemoryCriterionStore {
	return &InMemoryCriterionStore{criteria: make(map[string]domain.Criterion)}
}

func (s *InMemoryCriterionStore) Create(_ context.Context, criterion domain.Criterion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.criteria[criterion.Slug]; ok {
		return ErrConflict
	}
	s.criteria[criterion.Slug] = criterion
	return nil
}

func (s *InMemoryCriterionStore) FindBySlug(_ context.Context, slug string) (domain.Criterion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if criterion, ok := s.criteria[slug]; ok {
		return criterion, nil
	}
	return domain.Criterion{}, ErrNotFound
}

type awardKey struct {
	userID    int64
	badgeSlug string
}

type InMemoryAwardStore struct {
	mu     sync.RWMutex
	byUID  map[string]domain.Award
	byPair map[awardKey]string
}

func NewInMemoryAwardStore() *InMemoryAwardStore {
	return &InMemoryAwardStore{
		byUID:  make(map[string]domain.Award),
		byPair: make(map[awardKey]string),
	}
}

func (s *InMemoryAwardStore) Create(_ context.Context, award domain.Award) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := awardKey{userID: award.UserID, badgeSlug: award.BadgeSlug}
	if _, ok := s.byPair[key]; ok {
		return ErrConflict
	}
	s.byPair[key] = award.UID
	s.byUID[award.UID] = award
	return nil
}

func (s *InMemoryAwardStore) FindByUID(_ context.Context, uid string) (domain.Award, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if award, ok := s.byUID[uid]; ok {
		return award, nil
	}
	return domain.Award{}, ErrNotFound
}

func (s *InMemoryAwardStore) FindByUserAndBadge(_ context.Context, userID int64, badgeSlug string) (domain.Award, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if uid, ok := s.byPair[awardKey{userID: userID, badgeSlug: badgeSlug}]; ok {
		return s.byUID[uid], nil
	}
	return domain.Award{}, ErrNotFound
}

func (s *InMemoryAwardStore) ListByUser(_ context.Context, userID int64) ([]domain.Award, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var awards []domain.Award
	for _, award := range s.byUID {
		if award.UserID == userID {
			awards = append(awards, award)
		}
	}
	return awards, nil
}

type InMemoryIssuerStore struct {
	mu     sync.RWMutex
	issuer *domain.Issuer
}

func NewInMemoryIssuerStore() *InMemoryIssuerStore {
	return &InMemoryIssuerStore{}
}

func (s *InMemoryIssuerStore) First(_ context.Context) (domain.Issuer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.issuer == nil {
		return domain.Issuer{}, ErrNotFound
	}
	return *s.issuer, nil
}

func (s *InMemoryIssuerStore) Save(_ context.Context, issuer domain.Issuer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issuer = &issuer
	return nil
}

type InMemoryRevocationStore struct {
	mu      sync.RWMutex
	reasons map[string]string
}

func NewInMemoryRevocationStore() *InMemoryRevocationStore {
	return &InMemoryRevocationStore{reasons: make(map[string]string)}
}

func (s *InMemoryRevocationStore) Add(_ context.Context, revocation domain.Revocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reasons[revocation.AwardUID] = revocation.Reason
	return nil
}

func (s *InMemoryRevocationStore) Exists(_ context.Context, awardUID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.reasons[awardUID]
	return ok, nil
}

func (s *InMemoryRevocationStore) List(_ context.Context) ([]domain.Revocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	revocations := make([]domain.Revocation, 0, len(s.reasons))
	for uid, reason := range s.reasons {
		revocations = append(revocations, domain.Revocation{AwardUID: uid, Reason: reason})
	}
	return revocations, nil
}

type InMemoryMediaStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewInMemoryMediaStore() *InMemoryMediaStore {
	return &InMemoryMediaStore{blobs: make(map[string][]byte)}
}

func (s *InMemoryMediaStore) Put(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.blobs[name] = copied
	return nil
}

func (s *InMemoryMediaStore) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if data, ok := s.blobs[name]; ok {
		return data, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryMediaStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, name)
	return nil
}
