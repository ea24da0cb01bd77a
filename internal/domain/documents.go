package domain

// Document types mirror the Open Badges hosted-assertion wire format.
// Field names and shapes are fixed by the consumers that fetch these
// documents; do not rename JSON keys.

// AlignmentDocument is the JSON form of an Alignment.
type AlignmentDocument struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// BadgeClassDocument is the JSON form of a Badge.
type BadgeClassDocument struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Criteria    string              `json:"criteria"`
	Issuer      string              `json:"issuer"`
	Alignment   []AlignmentDocument `json:"alignment"`
	Tags        []string            `json:"tags"`
}

// RecipientDocument carries the hashed identity inside an assertion.
type RecipientDocument struct {
	Identity string `json:"identity"`
	Type     string `json:"type"`
	Hashed   bool   `json:"hashed"`
	Salt     string `json:"salt"`
}

// VerifyDocument tells validators how to verify the assertion. Only the
// "hosted" type is ever emitted; signed assertions are unsupported.
type VerifyDocument struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// AssertionDocument is the JSON form of an Award. Dates render as
// YYYY-MM-DD; an unset expiry renders as the empty string, while a missing
// evidence URL renders as JSON null.
type AssertionDocument struct {
	UID       string            `json:"uid"`
	Recipient RecipientDocument `json:"recipient"`
	Badge     string            `json:"badge"`
	Verify    VerifyDocument    `json:"verify"`
	IssuedOn  string            `json:"issuedOn"`
	Image     string            `json:"image"`
	Evidence  *string           `json:"evidence"`
	Expires   string            `json:"expires"`
}

// IssuerDocument is the JSON form of the Issuer.
type IssuerDocument struct {
	Name           string `json:"name"`
	Image          string `json:"image"`
	URL            string `json:"url"`
	Email          string `json:"email"`
	RevocationList string `json:"revocationList"`
}

// DateOnly is the date layout used by issuedOn and expires.
const DateOnly = "2006-01-02"
