package learning

import (
	"context"
	"fmt"
	"log"

	"learnsphere/models"
	"learnsphere/services/badges"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type creditResult struct {
	Credited bool
	Total    int
	OldBadge string
	NewBadge string
}

// credit adds points to a learner once per (source, sourceID) and recomputes
// the badge. It must run inside the caller's transaction.
func (s *Service) credit(tx *gorm.DB, userID uint, source string, sourceID uint, points int) (creditResult, error) {
	if points <= 0 {
		return creditResult{}, nil
	}

	entry := models.PointLog{
		UserID:     userID,
		SourceType: source,
		SourceID:   sourceID,
		Points:     points,
		CreatedAt:  s.now(),
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if res.Error != nil {
		return creditResult{}, fmt.Errorf("insert point log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("[LEDGER] user %d already credited for %s #%d", userID, source, sourceID)
		return creditResult{}, nil
	}

	if err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("total_points", gorm.Expr("total_points + ?", points)).Error; err != nil {
		return creditResult{}, fmt.Errorf("increment points: %w", err)
	}

	var user models.User
	if err := tx.Select("id", "total_points", "badge_level").Where("id = ?", userID).First(&user).Error; err != nil {
		return creditResult{}, lookupErr(err, "learner", userID)
	}

	out := creditResult{
		Credited: true,
		Total:    user.TotalPoints,
		OldBadge: user.BadgeLevel,
		NewBadge: badges.NameFor(user.TotalPoints),
	}
	if out.NewBadge != out.OldBadge {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("badge_level", out.NewBadge).Error; err != nil {
			return creditResult{}, fmt.Errorf("update badge: %w", err)
		}
	}

	log.Printf("[LEDGER] user %d +%d for %s #%d (total %d, badge %s)",
		userID, points, source, sourceID, out.Total, out.NewBadge)
	return out, nil
}

func (s *Service) announcePromotion(ctx context.Context, userID uint, c creditResult) {
	if !c.Credited || !badges.Promoted(c.OldBadge, c.NewBadge) {
		return
	}
	s.notifier.BadgePromoted(ctx, BadgePromotedEvent{
		UserID:      userID,
		From:        c.OldBadge,
		To:          c.NewBadge,
		TotalPoints: c.Total,
	})
}

// ReconcileBadges rewrites badge_level for every learner whose stored badge no
// longer matches their points. It returns the number of learners fixed.
func (s *Service) ReconcileBadges(ctx context.Context) (int, error) {
	db := s.db.WithContext(ctx)
	var users []models.User
	fixed := 0

	err := db.Select("id", "total_points", "badge_level").
		FindInBatches(&users, 200, func(_ *gorm.DB, _ int) error {
			for _, u := range users {
				want := badges.NameFor(u.TotalPoints)
				if want == u.BadgeLevel {
					continue
				}
				if err := db.Model(&models.User{}).Where("id = ?", u.ID).Update("badge_level", want).Error; err != nil {
					return fmt.Errorf("fix badge for user %d: %w", u.ID, err)
				}
				fixed++
			}
			return nil
		}).Error
	if err != nil {
		return fixed, err
	}
	return fixed, nil
}
