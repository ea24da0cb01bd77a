package domain

import "time"

// Award records one badge granted to one recipient. The (UserID, BadgeSlug)
// pair is unique: a user cannot earn the same badge twice.
//
// Identity is snapshotted from the recipient's live Identity exactly once,
// at creation, and never re-synced. Revocation state is not stored here; it
// is a computed lookup against the revocation registry.
type Award struct {
	UID       string
	UserID    int64
	BadgeSlug string
	Awarded   time.Time
	Evidence  string
	ImageName string
	Expires   time.Time
	Identity  IdentitySnapshot
}

// Expired reports whether the award carries an expiry that has passed.
func (a Award) Expired(now time.Time) bool {
	return !a.Expires.IsZero() && now.After(a.Expires)
}

// Revocation voids an award, keyed by the award's public UID. Created only
// through administrative action.
type Revocation struct {
	AwardUID string
	Reason   string
}
