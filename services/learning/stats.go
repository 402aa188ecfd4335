package learning

import (
	"context"
	"fmt"

	"learnsphere/models"
	courseModels "learnsphere/models/course"
	"learnsphere/services/badges"
)

// LearnerStats is the gamification summary of one learner.
type LearnerStats struct {
	UserID        uint          `json:"user_id"`
	Name          string        `json:"name"`
	TotalPoints   int           `json:"total_points"`
	BadgeLevel    string        `json:"badge_level"`
	NextBadge     *badges.Badge `json:"next_badge"`
	BadgeProgress int           `json:"badge_progress"`
	QuizzesPassed int64         `json:"quizzes_passed"`
	QuizAttempts  int64         `json:"quiz_attempts"`
	Certificates  int64         `json:"certificates"`
	Enrollments   int64         `json:"enrollments"`
}

// Stats summarizes a learner's points, badge and activity.
func (s *Service) Stats(ctx context.Context, userID uint) (*LearnerStats, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, lookupErr(err, "learner", userID)
	}

	stats := &LearnerStats{
		UserID:        user.ID,
		Name:          user.Name,
		TotalPoints:   user.TotalPoints,
		BadgeLevel:    user.BadgeLevel,
		BadgeProgress: badges.Progress(user.BadgeLevel, user.TotalPoints),
	}
	if next, ok := badges.Next(user.BadgeLevel, user.TotalPoints); ok {
		stats.NextBadge = &next
	}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&courseModels.QuizFirstPass{}, &stats.QuizzesPassed},
		{&courseModels.QuizAttempt{}, &stats.QuizAttempts},
		{&courseModels.Certificate{}, &stats.Certificates},
		{&courseModels.Enrollment{}, &stats.Enrollments},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where("user_id = ?", userID).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("load stats for learner %d: %w", userID, err)
		}
	}
	return stats, nil
}

// Certificates lists a learner's certificates with their course, newest first.
func (s *Service) Certificates(ctx context.Context, userID uint) ([]courseModels.Certificate, error) {
	var certificates []courseModels.Certificate
	if err := s.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at desc, id desc").
		Find(&certificates).Error; err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certificates, nil
}

// Enrollments lists a learner's enrollments with their course, newest first.
func (s *Service) Enrollments(ctx context.Context, userID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	if err := s.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc, id desc").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}
