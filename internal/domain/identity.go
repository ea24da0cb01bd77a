package domain

// IdentityType enumerates how a recipient is identified. Only email is
// supported today; the type travels with every hash so consumers know what
// was hashed.
type IdentityType string

const IdentityTypeEmail IdentityType = "email"

// Valid reports whether the identity type is one we know how to hash.
func (t IdentityType) Valid() bool { return t == IdentityTypeEmail }

// User is a badge recipient. Users are referenced by numeric id in private
// routes and by email in the public *_email routes.
type User struct {
	ID    int64
	Email string
}

// Identity is the salted one-way hash of a user's email, owned 1:1 by the
// user. Hash and Salt are only ever written together: a hash computed with
// a stale salt is unverifiable.
type Identity struct {
	UserID int64
	Type   IdentityType
	Hash   string
	Hashed bool
	Salt   string
}

// IdentitySnapshot is the copy of identity fields frozen into an award at
// creation time. Later email changes must not rewrite issued assertions.
type IdentitySnapshot struct {
	Type   IdentityType
	Hash   string
	Hashed bool
	Salt   string
}

// Snapshot freezes the identity for embedding into an award.
func (i Identity) Snapshot() IdentitySnapshot {
	return IdentitySnapshot{Type: i.Type, Hash: i.Hash, Hashed: i.Hashed, Salt: i.Salt}
}
