package learning

import (
	"context"
	"time"
)

// CertificateIssuedEvent is emitted once per (learner, course).
type CertificateIssuedEvent struct {
	UserID            uint
	Name              string
	Email             string
	CourseID          uint
	CourseTitle       string
	CertificateNumber string
	PointsAwarded     int
	IssuedAt          time.Time
}

// BadgePromotedEvent is emitted when a credit moves a learner up the ladder.
type BadgePromotedEvent struct {
	UserID      uint
	From        string
	To          string
	TotalPoints int
}

// Notifier receives events after the transaction that produced them commits.
// Implementations must not block the caller for long.
type Notifier interface {
	CertificateIssued(ctx context.Context, ev CertificateIssuedEvent)
	BadgePromoted(ctx context.Context, ev BadgePromotedEvent)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) CertificateIssued(context.Context, CertificateIssuedEvent) {}
func (NopNotifier) BadgePromoted(context.Context, BadgePromotedEvent)         {}
