package domain

import "time"

// Alignment links a badge to an educational standard.
type Alignment struct {
	Name        string
	URL         string
	Description string
}

// Badge is a BadgeClass definition: long-lived catalog data that awards
// reference by slug. The slug is the badge's public identity and must not
// change once assertions point at it.
type Badge struct {
	ID          int64
	Title       string
	Description string
	Slug        string
	Criteria    string
	ImageName   string
	Alignments  []Alignment
	Tags        []string
	Created     time.Time
	Modified    time.Time
}

// Criterion is a human-readable page describing how a badge is earned.
type Criterion struct {
	Name        string
	Slug        string
	Description string
}
