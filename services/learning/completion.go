package learning

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"learnsphere/models"
	courseModels "learnsphere/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LessonCompletionResult is returned by CompleteLesson.
type LessonCompletionResult struct {
	Success          bool   `json:"success"`
	CompletedLessons []uint `json:"completed_lessons"`
	Progress         int    `json:"progress"`
	PointsAwarded    int    `json:"points_awarded"`
}

// CourseCompletionResult is returned by CompleteCourse.
type CourseCompletionResult struct {
	Success       bool `json:"success"`
	PointsAwarded int  `json:"points_awarded"`
}

// issuedCertificate is what a first-time certificate issuance produced.
type issuedCertificate struct {
	certificate courseModels.Certificate
	points      int
	credit      creditResult
}

// Enroll registers a learner in an active, published course.
func (s *Service) Enroll(ctx context.Context, userID, courseID uint) (*courseModels.Enrollment, error) {
	db := s.db.WithContext(ctx)

	if err := db.Select("id").Where("id = ? AND is_deleted = ?", userID, false).First(&models.User{}).Error; err != nil {
		return nil, lookupErr(err, "learner", userID)
	}
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ? AND status = ?",
		courseID, false, true, courseModels.CourseStatusActive).First(&course).Error; err != nil {
		return nil, lookupErr(err, "course", courseID)
	}

	total, err := s.countLessons(db, courseID)
	if err != nil {
		return nil, err
	}

	enrollment := courseModels.Enrollment{
		UserID:       userID,
		CourseID:     courseID,
		Status:       courseModels.EnrollmentEnrolled,
		TotalLessons: total,
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment)
	if res.Error != nil {
		return nil, fmt.Errorf("enroll in course %d: %w", courseID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("learner %d already enrolled in course %d: %w", userID, courseID, ErrConflict)
	}

	log.Printf("[ENROLL] user %d enrolled in course %d (%d lessons)", userID, courseID, total)
	enrollment.Course = &course
	return &enrollment, nil
}

// CompleteLesson adds lessonID to the enrollment's completed set. Marking a
// lesson twice is a successful no-op. Reaching 100% issues the certificate.
func (s *Service) CompleteLesson(ctx context.Context, userID, courseID, lessonID uint) (*LessonCompletionResult, error) {
	db := s.db.WithContext(ctx)

	enrollment, err := s.findEnrollment(db, userID, courseID)
	if err != nil {
		return nil, err
	}
	if err := db.Select("id").
		Where("id = ? AND course_id = ? AND is_published = ? AND is_deleted = ?", lessonID, courseID, true, false).
		First(&courseModels.Lesson{}).Error; err != nil {
		return nil, lookupErr(err, "lesson", lessonID)
	}

	unlock := s.locks.Lock(enrollmentKey(enrollment.ID))
	defer unlock()

	result := &LessonCompletionResult{Success: true}
	var issued *issuedCertificate

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(enrollment, enrollment.ID).Error; err != nil {
			return lookupErr(err, "enrollment", enrollment.ID)
		}

		completion := courseModels.LessonCompletion{
			EnrollmentID: enrollment.ID,
			UserID:       userID,
			CourseID:     courseID,
			LessonID:     lessonID,
			CreatedAt:    s.now(),
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion)
		if res.Error != nil {
			return fmt.Errorf("record lesson completion: %w", res.Error)
		}

		if res.RowsAffected > 0 {
			var completed int64
			if err := tx.Model(&courseModels.LessonCompletion{}).
				Where("enrollment_id = ?", enrollment.ID).
				Count(&completed).Error; err != nil {
				return fmt.Errorf("count completions: %w", err)
			}
			total, err := s.countLessons(tx, courseID)
			if err != nil {
				return err
			}

			enrollment.CompletedLessons = int(completed)
			enrollment.TotalLessons = total
			enrollment.Progress = progressPercent(int(completed), total)
			switch {
			case enrollment.Progress >= 100:
				enrollment.Status = courseModels.EnrollmentCompleted
			case enrollment.Status != courseModels.EnrollmentCompleted:
				enrollment.Status = courseModels.EnrollmentInProgress
			}
			if err := tx.Model(&courseModels.Enrollment{}).
				Where("id = ?", enrollment.ID).
				Updates(map[string]interface{}{
					"completed_lessons": enrollment.CompletedLessons,
					"total_lessons":     enrollment.TotalLessons,
					"progress":          enrollment.Progress,
					"status":            enrollment.Status,
				}).Error; err != nil {
				return fmt.Errorf("update enrollment progress: %w", err)
			}

			if enrollment.Progress >= 100 {
				issued, err = s.issueCertificate(tx, enrollment)
				if err != nil {
					return err
				}
			}
		}

		return tx.Model(&courseModels.LessonCompletion{}).
			Where("enrollment_id = ?", enrollment.ID).
			Order("id asc").
			Pluck("lesson_id", &result.CompletedLessons).Error
	})
	if err != nil {
		return nil, fmt.Errorf("complete lesson %d: %w", lessonID, err)
	}

	result.Progress = enrollment.Progress
	if issued != nil {
		result.PointsAwarded = issued.points
	}

	log.Printf("[PROGRESS] user %d course %d lesson %d progress %d%%", userID, courseID, lessonID, result.Progress)
	s.afterIssue(ctx, issued)
	return result, nil
}

// CompleteCourse issues the course certificate and credits the completion
// bonus the first time it is called for a learner and course.
func (s *Service) CompleteCourse(ctx context.Context, userID, courseID uint) (*CourseCompletionResult, error) {
	db := s.db.WithContext(ctx)

	enrollment, err := s.findEnrollment(db, userID, courseID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(enrollmentKey(enrollment.ID))
	defer unlock()

	var issued *issuedCertificate
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(enrollment, enrollment.ID).Error; err != nil {
			return lookupErr(err, "enrollment", enrollment.ID)
		}
		issued, err = s.issueCertificate(tx, enrollment)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("complete course %d: %w", courseID, err)
	}

	result := &CourseCompletionResult{Success: true}
	if issued != nil {
		result.PointsAwarded = issued.points
	}
	s.afterIssue(ctx, issued)
	return result, nil
}

// issueCertificate creates the certificate if the learner has none for the
// course, marks the enrollment completed and credits the bonus. It returns nil
// when a certificate already existed.
func (s *Service) issueCertificate(tx *gorm.DB, enrollment *courseModels.Enrollment) (*issuedCertificate, error) {
	now := s.now()
	cert := courseModels.Certificate{
		UserID:            enrollment.UserID,
		CourseID:          enrollment.CourseID,
		CertificateNumber: certificateNumber(enrollment.UserID, enrollment.CourseID),
		IssuedAt:          now,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&cert)
	if res.Error != nil {
		return nil, fmt.Errorf("create certificate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	enrollment.Status = courseModels.EnrollmentCompleted
	enrollment.CompletedAt = &now
	if err := tx.Model(&courseModels.Enrollment{}).
		Where("id = ?", enrollment.ID).
		Updates(map[string]interface{}{
			"status":       enrollment.Status,
			"completed_at": now,
		}).Error; err != nil {
		return nil, fmt.Errorf("mark enrollment completed: %w", err)
	}

	c, err := s.credit(tx, enrollment.UserID, models.PointSourceCourseCompletion, enrollment.CourseID, s.completionBonus)
	if err != nil {
		return nil, err
	}

	issued := &issuedCertificate{certificate: cert, credit: c}
	if c.Credited {
		issued.points = s.completionBonus
	}
	log.Printf("[CERTIFICATE] %s issued to user %d for course %d (+%d)",
		cert.CertificateNumber, enrollment.UserID, enrollment.CourseID, issued.points)
	return issued, nil
}

// afterIssue sends the post-commit notifications of a certificate issuance.
func (s *Service) afterIssue(ctx context.Context, issued *issuedCertificate) {
	if issued == nil {
		return
	}
	cert := issued.certificate

	var user models.User
	var course courseModels.Course
	db := s.db.WithContext(ctx)
	if err := db.Where("id = ?", cert.UserID).First(&user).Error; err != nil {
		log.Printf("[CERTIFICATE] skip notification for %s: %v", cert.CertificateNumber, err)
		return
	}
	if err := db.Where("id = ?", cert.CourseID).First(&course).Error; err != nil {
		log.Printf("[CERTIFICATE] skip notification for %s: %v", cert.CertificateNumber, err)
		return
	}

	s.notifier.CertificateIssued(ctx, CertificateIssuedEvent{
		UserID:            user.ID,
		Name:              user.Name,
		Email:             user.Email,
		CourseID:          course.ID,
		CourseTitle:       course.Title,
		CertificateNumber: cert.CertificateNumber,
		PointsAwarded:     issued.points,
		IssuedAt:          cert.IssuedAt,
	})
	s.announcePromotion(ctx, cert.UserID, issued.credit)
}

func (s *Service) findEnrollment(db *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err != nil {
		return nil, lookupErr(err, "enrollment for course", courseID)
	}
	return &enrollment, nil
}

func (s *Service) countLessons(db *gorm.DB, courseID uint) (int, error) {
	var total int64
	if err := db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count lessons of course %d: %w", courseID, err)
	}
	return int(total), nil
}

// progressPercent rounds completed/total to a whole percentage in [0,100].
func progressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(completed) / float64(total)))
	if p > 100 {
		return 100
	}
	return p
}

func certificateNumber(userID, courseID uint) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("CERT-%d-%d-%s", courseID, userID, suffix)
}
