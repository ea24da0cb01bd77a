package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"badgehub/internal/domain"
)

// PostgreSQL implementations over database/sql with the pgx stdlib driver.
// Uniqueness is enforced by the schema, not by application locking: the
// unique index on awards(user_id, badge_slug) is what guarantees exactly
// one winner under concurrent creation.

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, user domain.User) (domain.User, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email) VALUES ($1) RETURNING id`, user.Email,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id int64) (domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email FROM users WHERE email = $1`, email,
	).Scan(&user.ID, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func (s *PostgresUserStore) UpdateEmail(ctx context.Context, id int64, email string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET email = $2 WHERE id = $1`, id, email)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update user email: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user email: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type PostgresIdentityStore struct {
	db *sql.DB
}

func NewPostgresIdentityStore(db *sql.DB) *PostgresIdentityStore {
	return &PostgresIdentityStore{db: db}
}

func (s *PostgresIdentityStore) FindByUser(ctx context.Context, userID int64) (domain.Identity, error) {
	identity := domain.Identity{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT type, hash, hashed, salt FROM identities WHERE user_id = $1`, userID,
	).Scan(&identity.Type, &identity.Hash, &identity.Hashed, &identity.Salt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Identity{}, ErrNotFound
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("find identity: %w", err)
	}
	return identity, nil
}

// Save upserts salt and hash in one statement so no reader ever observes a
// hash computed with a stale salt.
func (s *PostgresIdentityStore) Save(ctx context.Context, identity domain.Identity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identities (user_id, type, hash, hashed, salt)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			type = EXCLUDED.type,
			hash = EXCLUDED.hash,
			hashed = EXCLUDED.hashed,
			salt = EXCLUDED.salt
	`, identity.UserID, identity.Type, identity.Hash, identity.Hashed, identity.Salt)
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

type PostgresBadgeStore struct {
	db *sql.DB
}

func NewPostgresBadgeStore(db *sql.DB) *PostgresBadgeStore {
	return &PostgresBadgeStore{db: db}
}

func (s *PostgresBadgeStore) Create(ctx context.Context, badge domain.Badge) (domain.Badge, error) {
	alignments, err := json.Marshal(badge.Alignments)
	if err != nil {
		return domain.Badge{}, fmt.Errorf("marshal alignments: %w", err)
	}
	tags, err := json.Marshal(badge.Tags)
	if err != nil {
		return domain.Badge{}, fmt.Errorf("marshal tags: %w", err)
	}
	now := time.Now().UTC()
	badge.Created = now
	badge.Modified = now
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO badges (title, description, slug, criteria, image_name, alignments, tags, created, modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, badge.Title, badge.Description, badge.Slug, badge.Criteria, badge.ImageName,
		alignments, tags, badge.Created, badge.Modified,
	).Scan(&badge.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Badge{}, ErrConflict
		}
		return domain.Badge{}, fmt.Errorf("create badge: %w", err)
	}
	return badge, nil
}

func (s *PostgresBadgeStore) FindBySlug(ctx context.Context, slug string) (domain.Badge, error) {
	var (
		badge      domain.Badge
		alignments []byte
		tags       []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, slug, criteria, image_name, alignments, tags, created, modified
		FROM badges WHERE slug = $1
	`, slug).Scan(&badge.ID, &badge.Title, &badge.Description, &badge.Slug, &badge.Criteria,
		&badge.ImageName, &alignments, &tags, &badge.Created, &badge.Modified)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Badge{}, ErrNotFound
	}
	if err != nil {
		return domain.Badge{}, fmt.Errorf("find badge: %w", err)
	}
	if err := json.Unmarshal(alignments, &badge.Alignments); err != nil {
		return domain.Badge{}, fmt.Errorf("unmarshal alignments: %w", err)
	}
	if err := json.Unmarshal(tags, &badge.Tags); err != nil {
		return domain.Badge{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	return badge, nil
}

type PostgresCriterionStore struct {
	db *sql.DB
}

func NewPostgresCriterionStore(db *sql.DB) *PostgresCriterionStore {
	return &PostgresCriterionStore{db: db}
}

func (s *PostgresCriterionStore) Create(ctx context.Context, criterion domain.Criterion) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO criteria (slug, name, description) VALUES ($1, $2, $3)`,
		criterion.Slug, criterion.Name, criterion.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("create criterion: %w", err)
	}
	return nil
}

func (s *PostgresCriterionStore) FindBySlug(ctx context.Context, slug string) (domain.Criterion, error) {
	var criterion domain.Criterion
	err := s.db.QueryRowContext(ctx,
		`SELECT slug, name, description FROM criteria WHERE slug = $1`, slug,
	).Scan(&criterion.Slug, &criterion.Name, &criterion.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Criterion{}, ErrNotFound
	}
	if err != nil {
		return domain.Criterion{}, fmt.Errorf("find criterion: %w", err)
	}
	return criterion, nil
}

type PostgresAwardStore struct {
	db *sql.DB
}

func NewPostgresAwardStore(db *sql.DB) *PostgresAwardStore {
	return &PostgresAwardStore{db: db}
}

func (s *PostgresAwardStore) Create(ctx context.Context, award domain.Award) error {
	var expires *time.Time
	if !award.Expires.IsZero() {
		expires = &award.Expires
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO awards (uid, user_id, badge_slug, awarded, evidence, image_name, expires,
			identity_type, identity_hash, identity_hashed, identity_salt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, award.UID, award.UserID, award.BadgeSlug, award.Awarded, award.Evidence,
		award.ImageName, expires, award.Identity.Type, award.Identity.Hash,
		award.Identity.Hashed, award.Identity.Salt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("create award: %w", err)
	}
	return nil
}

const awardColumns = `uid, user_id, badge_slug, awarded, evidence, image_name, expires,
	identity_type, identity_hash, identity_hashed, identity_salt`

func scanAward(row interface{ Scan(...any) error }) (domain.Award, error) {
	var (
		award   domain.Award
		expires sql.NullTime
	)
	err := row.Scan(&award.UID, &award.UserID, &award.BadgeSlug, &award.Awarded,
		&award.Evidence, &award.ImageName, &expires,
		&award.Identity.Type, &award.Identity.Hash, &award.Identity.Hashed, &award.Identity.Salt)
	if err != nil {
		return domain.Award{}, err
	}
	if expires.Valid {
		award.Expires = expires.Time
	}
	return award, nil
}

func (s *PostgresAwardStore) FindByUID(ctx context.Context, uid string) (domain.Award, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+awardColumns+` FROM awards WHERE uid = $1`, uid)
	award, err := scanAward(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Award{}, ErrNotFound
	}
	if err != nil {
		return domain.Award{}, fmt.Errorf("find award by uid: %w", err)
	}
	return award, nil
}

func (s *PostgresAwardStore) FindByUserAndBadge(ctx context.Context, userID int64, badgeSlug string) (domain.Award, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+awardColumns+` FROM awards WHERE user_id = $1 AND badge_slug = $2`, userID, badgeSlug)
	award, err := scanAward(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Award{}, ErrNotFound
	}
	if err != nil {
		return domain.Award{}, fmt.Errorf("find award by user and badge: %w", err)
	}
	return award, nil
}

func (s *PostgresAwardStore) ListByUser(ctx context.Context, userID int64) ([]domain.Award, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+awardColumns+` FROM awards WHERE user_id = $1 ORDER BY awarded DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list awards: %w", err)
	}
	defer rows.Close()
	var awards []domain.Award
	for rows.Next() {
		award, err := scanAward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan award: %w", err)
		}
		awards = append(awards, award)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list awards: %w", err)
	}
	return awards, nil
}

type PostgresIssuerStore struct {
	db *sql.DB
}

func NewPostgresIssuerStore(db *sql.DB) *PostgresIssuerStore {
	return &PostgresIssuerStore{db: db}
}

func (s *PostgresIssuerStore) First(ctx context.Context) (domain.Issuer, error) {
	var issuer domain.Issuer
	err := s.db.QueryRowContext(ctx, `
		SELECT name, url, description, image_name, email
		FROM issuers ORDER BY id LIMIT 1
	`).Scan(&issuer.Name, &issuer.URL, &issuer.Description, &issuer.ImageName, &issuer.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Issuer{}, ErrNotFound
	}
	if err != nil {
		return domain.Issuer{}, fmt.Errorf("find issuer: %w", err)
	}
	return issuer, nil
}

func (s *PostgresIssuerStore) Save(ctx context.Context, issuer domain.Issuer) error {
	// Single canonical row; id 1 is the only row ever written.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issuers (id, name, url, description, image_name, email)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			url = EXCLUDED.url,
			description = EXCLUDED.description,
			image_name = EXCLUDED.image_name,
			email = EXCLUDED.email
	`, issuer.Name, issuer.URL, issuer.Description, issuer.ImageName, issuer.Email)
	if err != nil {
		return fmt.Errorf("save issuer: %w", err)
	}
	return nil
}

type PostgresRevocationStore struct {
	db *sql.DB
}

func NewPostgresRevocationStore(db *sql.DB) *PostgresRevocationStore {
	return &PostgresRevocationStore{db: db}
}

func (s *PostgresRevocationStore) Add(ctx context.Context, revocation domain.Revocation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revocations (award_uid, reason)
		VALUES ($1, $2)
		ON CONFLICT (award_uid) DO UPDATE SET reason = EXCLUDED.reason
	`, revocation.AwardUID, revocation.Reason)
	if err != nil {
		return fmt.Errorf("add revocation: %w", err)
	}
	return nil
}

func (s *PostgresRevocationStore) Exists(ctx context.Context, awardUID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revocations WHERE award_uid = $1)`, awardUID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return exists, nil
}

func (s *PostgresRevocationStore) List(ctx context.Context) ([]domain.Revocation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT award_uid, reason FROM revocations`)
	if err != nil {
		return nil, fmt.Errorf("list revocations: %w", err)
	}
	defer rows.Close()
	var revocations []domain.Revocation
	for rows.Next() {
		var revocation domain.Revocation
		if err := rows.Scan(&revocation.AwardUID, &revocation.Reason); err != nil {
			return nil, fmt.Errorf("scan revocation: %w", err)
		}
		revocations = append(revocations, revocation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list revocations: %w", err)
	}
	return revocations, nil
}

type PostgresMediaStore struct {
	db *sql.DB
}

func NewPostgresMediaStore(db *sql.DB) *PostgresMediaStore {
	return &PostgresMediaStore{db: db}
}

func (s *PostgresMediaStore) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media (name, data) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data
	`, name, data)
	if err != nil {
		return fmt.Errorf("put media: %w", err)
	}
	return nil
}

func (s *PostgresMediaStore) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM media WHERE name = $1`, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return data, nil
}

func (s *PostgresMediaStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
