package audit

import (
	"context"
	"time"
)

// Actions recorded by the badge lifecycle.
const (
	ActionAwardCreated = "award.created"
	ActionAwardRevoked = "award.revoked"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	AwardUID  string    `json:"award_uid"`
	BadgeSlug string    `json:"badge_slug,omitempty"`
	UserID    int64     `json:"user_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Sink persists or forwards audit events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}
