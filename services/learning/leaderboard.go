package learning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learnsphere/models"

	"github.com/jinzhu/now"
)

// Leaderboard periods.
const (
	PeriodAll   = "all"
	PeriodWeek  = "week"
	PeriodToday = "today"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// LeaderboardEntry is one ranked learner.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	Points     int    `json:"points"`
	BadgeLevel string `json:"badge_level"`
}

var weekConfig = &now.Config{WeekStartDay: time.Monday}

// Leaderboard ranks learners by lifetime points ("all") or by the points they
// earned since the start of the current week or day.
func (s *Service) Leaderboard(ctx context.Context, period string, limit int) ([]LeaderboardEntry, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		period = PeriodAll
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	db := s.db.WithContext(ctx)
	var entries []LeaderboardEntry

	switch period {
	case PeriodAll:
		if err := db.Model(&models.User{}).
			Select("id AS user_id, name, total_points AS points, badge_level").
			Where("is_deleted = ?", false).
			Order("total_points desc, id asc").
			Limit(limit).
			Scan(&entries).Error; err != nil {
			return nil, fmt.Errorf("load leaderboard: %w", err)
		}
	case PeriodWeek, PeriodToday:
		since := weekConfig.With(s.now()).BeginningOfDay()
		if period == PeriodWeek {
			since = weekConfig.With(s.now()).BeginningOfWeek()
		}
		if err := db.Table("point_logs").
			Select("users.id AS user_id, users.name AS name, SUM(point_logs.points) AS points, users.badge_level AS badge_level").
			Joins("JOIN users ON users.id = point_logs.user_id").
			Where("point_logs.created_at >= ? AND users.is_deleted = ? AND users.deleted_at IS NULL", since, false).
			Group("users.id, users.name, users.badge_level").
			Order("points desc, users.id asc").
			Limit(limit).
			Scan(&entries).Error; err != nil {
			return nil, fmt.Errorf("load %s leaderboard: %w", period, err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", period, ErrInvalidPeriod)
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
