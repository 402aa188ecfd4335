package utils

import (
	"context"
	"log"
	"sync"
	"time"

	"learnsphere/services/learning"
)

const notifyTimeout = 15 * time.Second

// Notifier delivers learning events in the background: certificate emails
// through SendGrid and badge promotions to the optional webhook.
type Notifier struct {
	webhook *BadgeWebhook
	wg      sync.WaitGroup
}

func NewNotifier(webhookURL string) *Notifier {
	n := &Notifier{}
	if webhookURL != "" {
		n.webhook = NewBadgeWebhook(webhookURL)
	}
	return n
}

func (n *Notifier) CertificateIssued(ctx context.Context, ev learning.CertificateIssuedEvent) {
	log.Printf("[NOTIFY] Certificate %s issued to user %d for course %d", ev.CertificateNumber, ev.UserID, ev.CourseID)
	n.dispatch(ctx, "certificate email", func(ctx context.Context) error {
		return SendCertificateEmail(ctx, ev.Email, ev.Name, ev.CourseTitle, ev.CertificateNumber, ev.PointsAwarded)
	})
}

func (n *Notifier) BadgePromoted(ctx context.Context, ev learning.BadgePromotedEvent) {
	log.Printf("[NOTIFY] User %d promoted from %s to %s at %d points", ev.UserID, ev.From, ev.To, ev.TotalPoints)
	if n.webhook == nil {
		return
	}
	n.dispatch(ctx, "badge webhook", func(ctx context.Context) error {
		return n.webhook.Post(ctx, ev)
	})
}

// Wait blocks until every in-flight delivery has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// dispatch runs fn detached from the request so a finished response does not
// cancel delivery.
func (n *Notifier) dispatch(ctx context.Context, what string, fn func(context.Context) error) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("[NOTIFY] %s failed: %v", what, err)
		}
	}()
}
