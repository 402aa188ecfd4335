package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnsphere/config"
	controllers "learnsphere/controllers/course"
	"learnsphere/database"
	"learnsphere/database/dbtest"
	"learnsphere/models"
	courseModels "learnsphere/models/course"
	"learnsphere/services/learning"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	prevCfg, prevDB := config.AppConfig, database.Database
	config.AppConfig = &config.Config{
		JWTKey:                "test-secret",
		SaltRound:             bcrypt.MinCost,
		AdminEmails:           []string{"admin@example.com"},
		CourseCompletionBonus: 100,
	}
	db := dbtest.OpenTestDB(t)
	database.Database = database.DbInstance{Db: db}
	controllers.SetLearningService(learning.New(db))
	t.Cleanup(func() {
		config.AppConfig, database.Database = prevCfg, prevDB
		controllers.SetLearningService(nil)
	})

	return &testServer{app: SetupApp(), db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env), "%s %s", method, path)
	return resp.StatusCode, env
}

// signup registers and logs in a user, returning the bearer token.
func (s *testServer) signup(t *testing.T, name, email string) string {
	t.Helper()
	creds := fiber.Map{"name": name, "email": email, "password": "password123"}

	status, env := s.do(t, http.MethodPost, "/auth/signup", "", creds)
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = s.do(t, http.MethodPost, "/auth/login", "", fiber.Map{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, status, env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (s *testServer) course(t *testing.T, lessons int) (courseModels.Course, []courseModels.Lesson) {
	t.Helper()
	course := courseModels.Course{Title: "Go Basics", Status: courseModels.CourseStatusActive, IsPublished: true}
	require.NoError(t, s.db.Create(&course).Error)

	out := make([]courseModels.Lesson, lessons)
	for i := range out {
		out[i] = courseModels.Lesson{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			LessonType:  courseModels.LessonTypeQuiz,
			OrderIndex:  i,
			IsPublished: true,
		}
		require.NoError(t, s.db.Create(&out[i]).Error)
	}
	return course, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Status)
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "Ada Lovelace", "Ada@Example.com")

	status, _ := s.do(t, http.MethodPost, "/auth/signup", "", fiber.Map{"name": "Ada", "email": "ada@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, status)

	status, env := s.do(t, http.MethodPost, "/auth/signup", "", fiber.Map{"name": "Al", "email": "nope", "password": "short"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(env.Data), "email")

	var user models.User
	require.NoError(t, s.db.Where("email = ?", "ada@example.com").First(&user).Error)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "Newbie", user.BadgeLevel)

	status, env = s.do(t, http.MethodGet, "/auth/login/history?page=1&limit=5", token, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var history struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, 1, history.Pagination.Total)
}

func TestLoginLockout(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "Grace Hopper", "grace@example.com")

	for i := 0; i < 3; i++ {
		status, _ := s.do(t, http.MethodPost, "/auth/login", "", fiber.Map{"email": "grace@example.com", "password": "wrongpassword"})
		require.Equal(t, http.StatusUnauthorized, status)
	}

	status, env := s.do(t, http.MethodPost, "/auth/login", "", fiber.Map{"email": "grace@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, env.Message, "blocked")
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "Linus", "linus@example.com")

	status, _ := s.do(t, http.MethodPut, "/auth/change/login/password", token, fiber.Map{
		"currentPassword": "password123",
		"newPassword":     "newpassword456",
		"cnfPassword":     "mismatch",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = s.do(t, http.MethodPut, "/auth/change/login/password", token, fiber.Map{
		"currentPassword": "password123",
		"newPassword":     "newpassword456",
		"cnfPassword":     "newpassword456",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/auth/login", "", fiber.Map{"email": "linus@example.com", "password": "newpassword456"})
	assert.Equal(t, http.StatusOK, status)
}

func TestRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/user/stats", "/leaderboard", "/lesson/1/quiz"} {
		status, _ := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
	status, _ := s.do(t, http.MethodGet, "/user/stats", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestQuizAuthoringAndSubmission(t *testing.T) {
	s := newTestServer(t)
	admin := s.signup(t, "Admin", "admin@example.com")
	learner := s.signup(t, "Learner", "learner@example.com")
	_, lessons := s.course(t, 1)
	quizPath := fmt.Sprintf("/admin/lesson/%d", lessons[0].ID)

	question := fiber.Map{
		"question_text":  "Which keyword starts a goroutine?",
		"options":        []string{"go", "async", "spawn"},
		"correct_answer": "go",
		"points":         5,
	}

	status, _ := s.do(t, http.MethodPost, quizPath+"/question", learner, question)
	assert.Equal(t, http.StatusForbidden, status)

	bad := fiber.Map{"question_text": "?", "options": []string{"a", "b"}, "correct_answer": "c", "points": 1}
	status, env := s.do(t, http.MethodPost, quizPath+"/question", admin, bad)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(env.Data), "correct_answer")

	status, env = s.do(t, http.MethodPost, quizPath+"/question", admin, question)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var created courseModels.QuizQuestion
	require.NoError(t, json.Unmarshal(env.Data, &created))

	status, env = s.do(t, http.MethodPut, quizPath+"/rewards", admin, fiber.Map{"first": 150})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.JSONEq(t, `{"first":150,"second":80,"third":60,"other":40}`, string(env.Data))

	status, _ = s.do(t, http.MethodPut, quizPath+"/rewards", admin, fiber.Map{"second": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	lessonPath := fmt.Sprintf("/lesson/%d/quiz", lessons[0].ID)
	status, env = s.do(t, http.MethodGet, lessonPath, learner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(env.Data), "correct_answer")

	answer := fiber.Map{"answers": fiber.Map{fmt.Sprint(created.ID): "go"}}
	status, env = s.do(t, http.MethodPost, lessonPath+"/submit", learner, answer)
	require.Equal(t, http.StatusOK, status, env.Message)
	var result learning.QuizResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Passed)
	assert.Equal(t, 150, result.PointsAwarded)

	status, env = s.do(t, http.MethodPost, lessonPath+"/submit", learner, answer)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 2, result.AttemptNumber)
	assert.Zero(t, result.PointsAwarded)

	status, env = s.do(t, http.MethodGet, lessonPath+"/attempts", learner, nil)
	require.Equal(t, http.StatusOK, status)
	var attempts []courseModels.QuizAttempt
	require.NoError(t, json.Unmarshal(env.Data, &attempts))
	assert.Len(t, attempts, 2)

	status, env = s.do(t, http.MethodGet, "/user/stats", learner, nil)
	require.Equal(t, http.StatusOK, status)
	var stats learning.LearnerStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 150, stats.TotalPoints)
	assert.Equal(t, "Learner", stats.BadgeLevel)
	assert.EqualValues(t, 1, stats.QuizzesPassed)
	assert.EqualValues(t, 2, stats.QuizAttempts)

	status, _ = s.do(t, http.MethodPost, "/lesson/999/quiz/submit", learner, answer)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(t, http.MethodPost, "/lesson/abc/quiz/submit", learner, answer)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEnrollAndCompleteCourse(t *testing.T) {
	s := newTestServer(t)
	learner := s.signup(t, "Learner", "learner@example.com")
	course, lessons := s.course(t, 2)
	coursePath := fmt.Sprintf("/course/%d", course.ID)

	status, _ := s.do(t, http.MethodPost, coursePath+"/lesson/"+fmt.Sprint(lessons[0].ID)+"/complete", learner, nil)
	assert.Equal(t, http.StatusNotFound, status, "not enrolled yet")

	status, env := s.do(t, http.MethodPost, coursePath+"/enroll", learner, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	status, _ = s.do(t, http.MethodPost, coursePath+"/enroll", learner, nil)
	assert.Equal(t, http.StatusConflict, status)

	var progress learning.LessonCompletionResult
	for i, lesson := range lessons {
		status, env = s.do(t, http.MethodPost, fmt.Sprintf("%s/lesson/%d/complete", coursePath, lesson.ID), learner, nil)
		require.Equal(t, http.StatusOK, status, env.Message)
		require.NoError(t, json.Unmarshal(env.Data, &progress))
		assert.Len(t, progress.CompletedLessons, i+1)
	}
	assert.Equal(t, 100, progress.Progress)
	assert.Equal(t, 100, progress.PointsAwarded)

	status, env = s.do(t, http.MethodPost, coursePath+"/complete", learner, nil)
	require.Equal(t, http.StatusOK, status)
	var done learning.CourseCompletionResult
	require.NoError(t, json.Unmarshal(env.Data, &done))
	assert.True(t, done.Success)
	assert.Zero(t, done.PointsAwarded)

	status, env = s.do(t, http.MethodGet, "/user/certificates", learner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "CERT-")

	status, env = s.do(t, http.MethodGet, "/user/enrollments", learner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), courseModels.EnrollmentCompleted)
}

func TestLeaderboardValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "Learner", "learner@example.com")

	status, _ := s.do(t, http.MethodGet, "/leaderboard?period=month", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = s.do(t, http.MethodGet, "/leaderboard?limit=500", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env := s.do(t, http.MethodGet, "/leaderboard?period=week&limit=5", token, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var board struct {
		Period  string                      `json:"period"`
		Entries []learning.LeaderboardEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &board))
	assert.Equal(t, "week", board.Period)
	assert.Empty(t, board.Entries)

	status, env = s.do(t, http.MethodGet, "/leaderboard", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &board))
	assert.Equal(t, "all", board.Period)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 1, board.Entries[0].Rank)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	admin := s.signup(t, "Admin", "admin@example.com")

	status, env := s.do(t, http.MethodGet, "/user/profile", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var profile struct {
		User        models.User `json:"user"`
		Permissions []string    `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, models.RoleAdmin, profile.User.Role)
	assert.Contains(t, profile.Permissions, models.PermissionManageQuiz)
	assert.NotContains(t, string(env.Data), "password")

	status, _ = s.do(t, http.MethodPut, "/user/profile", admin, fiber.Map{"name": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = s.do(t, http.MethodPut, "/user/profile", admin, fiber.Map{"name": "Head Admin"})
	require.Equal(t, http.StatusOK, status)

	var user models.User
	require.NoError(t, s.db.Where("email = ?", "admin@example.com").First(&user).Error)
	assert.Equal(t, "Head Admin", user.Name)
}
