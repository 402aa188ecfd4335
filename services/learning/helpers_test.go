package learning

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"learnsphere/database/dbtest"
	"learnsphere/models"
	courseModels "learnsphere/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu           sync.Mutex
	certificates []CertificateIssuedEvent
	promotions   []BadgePromotedEvent
}

func (n *recordingNotifier) CertificateIssued(_ context.Context, ev CertificateIssuedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.certificates = append(n.certificates, ev)
}

func (n *recordingNotifier) BadgePromoted(_ context.Context, ev BadgePromotedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.promotions = append(n.promotions, ev)
}

func (n *recordingNotifier) certificateEvents() []CertificateIssuedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]CertificateIssuedEvent(nil), n.certificates...)
}

func (n *recordingNotifier) promotionEvents() []BadgePromotedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]BadgePromotedEvent(nil), n.promotions...)
}

var fixedNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	notifier *recordingNotifier
	seq      int
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		db:       dbtest.OpenTestDB(t),
		notifier: &recordingNotifier{},
	}
	opts = append([]Option{
		WithNotifier(f.notifier),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	f.svc = New(f.db, opts...)
	return f
}

func (f *fixture) learner(t *testing.T, points int) models.User {
	t.Helper()
	f.seq++
	user := models.User{
		Name:        fmt.Sprintf("learner %d", f.seq),
		Email:       fmt.Sprintf("learner%d@example.com", f.seq),
		Password:    "hash",
		TotalPoints: points,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

// course creates an active, published course with n published text lessons.
func (f *fixture) course(t *testing.T, n int) (courseModels.Course, []courseModels.Lesson) {
	t.Helper()
	course := courseModels.Course{
		Title:       "Go Basics",
		Status:      courseModels.CourseStatusActive,
		IsPublished: true,
	}
	require.NoError(t, f.db.Create(&course).Error)

	lessons := make([]courseModels.Lesson, n)
	for i := range lessons {
		lessons[i] = courseModels.Lesson{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			LessonType:  courseModels.LessonTypeText,
			OrderIndex:  i,
			IsPublished: true,
		}
		require.NoError(t, f.db.Create(&lessons[i]).Error)
	}
	return course, lessons
}

// quiz creates a published quiz lesson with one question per points value.
// Every question's correct answer is "right".
func (f *fixture) quiz(t *testing.T, rewards *courseModels.RewardSchedule, points ...int) (courseModels.Lesson, []courseModels.QuizQuestion) {
	t.Helper()
	course, _ := f.course(t, 0)

	lesson := courseModels.Lesson{
		CourseID:    course.ID,
		Title:       "Checkpoint",
		LessonType:  courseModels.LessonTypeQuiz,
		IsPublished: true,
		Settings:    datatypes.NewJSONType(courseModels.LessonSettings{Rewards: rewards}),
	}
	require.NoError(t, f.db.Create(&lesson).Error)

	questions := make([]courseModels.QuizQuestion, len(points))
	for i, p := range points {
		questions[i] = courseModels.QuizQuestion{
			LessonID:      lesson.ID,
			QuestionText:  fmt.Sprintf("Question %d", i+1),
			Options:       datatypes.JSONSlice[string]{"right", "wrong"},
			CorrectAnswer: "right",
			Points:        p,
			OrderIndex:    i,
		}
		require.NoError(t, f.db.Create(&questions[i]).Error)
	}
	return lesson, questions
}

func (f *fixture) enroll(t *testing.T, userID, courseID uint) courseModels.Enrollment {
	t.Helper()
	e, err := f.svc.Enroll(context.Background(), userID, courseID)
	require.NoError(t, err)
	return *e
}

func (f *fixture) reload(t *testing.T, userID uint) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, f.db.First(&user, userID).Error)
	return user
}

// answers marks the listed questions correct and every other one wrong.
func answers(questions []courseModels.QuizQuestion, correct ...int) map[string]any {
	out := make(map[string]any, len(questions))
	for _, q := range questions {
		out[idKey(q.ID)] = "wrong"
	}
	for _, i := range correct {
		out[idKey(questions[i].ID)] = "right"
	}
	return out
}

func idKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func allCorrect(questions []courseModels.QuizQuestion) map[string]any {
	idx := make([]int, len(questions))
	for i := range questions {
		idx[i] = i
	}
	return answers(questions, idx...)
}

func intPtr(v int) *int { return &v }
