package utils

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// BadgeReconciler recomputes stored badge levels from point totals.
type BadgeReconciler interface {
	ReconcileBadges(ctx context.Context) (int, error)
}

// InitializeBadgeScheduler runs badge reconciliation on the given cron spec.
func InitializeBadgeScheduler(r BadgeReconciler, spec string) (*cron.Cron, error) {
	log.Println("[BADGE-SCHEDULER] Initializing badge scheduler...")

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { runBadgeReconcile(r) }); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[BADGE-SCHEDULER] Badge scheduler started - runs on %q", spec)
	return c, nil
}

func runBadgeReconcile(r BadgeReconciler) {
	log.Println("[BADGE-SCHEDULER] Reconciling badge levels...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	fixed, err := r.ReconcileBadges(ctx)
	if err != nil {
		log.Printf("[BADGE-SCHEDULER] Error reconciling badges: %v", err)
		return
	}
	log.Printf("[BADGE-SCHEDULER] Corrected %d badge levels", fixed)
}
