package utils

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"learnsphere/config"
	"learnsphere/services/learning"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })
}

func withSendgrid(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	prev := sendgridHost
	sendgridHost = srv.URL
	t.Cleanup(func() {
		sendgridHost = prev
		srv.Close()
	})
}

func TestSendEmailWithoutKeyIsSkipped(t *testing.T) {
	withConfig(t, &config.Config{})
	called := false
	withSendgrid(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	require.NoError(t, SendEmail(context.Background(), "Ada", "ada@example.com", "hi", "<p>hi</p>"))
	assert.False(t, called)
}

func TestSendCertificateEmail(t *testing.T) {
	withConfig(t, &config.Config{SendgridAPIKey: "SG.test", EmailSender: "no-reply@learnsphere.app"})

	var (
		mu      sync.Mutex
		path    string
		auth    string
		payload map[string]any
	)
	withSendgrid(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusAccepted)
	})

	err := SendCertificateEmail(context.Background(), "ada@example.com", "Ada", "Go Basics", "CERT-1-2-ABCDEF0123", 100)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/v3/mail/send", path)
	assert.Equal(t, "Bearer SG.test", auth)
	assert.Equal(t, "Course Completion Certificate - Go Basics", payload["subject"])

	from := payload["from"].(map[string]any)
	assert.Equal(t, "no-reply@learnsphere.app", from["email"])

	contents := payload["content"].([]any)
	require.Len(t, contents, 1)
	html := contents[0].(map[string]any)["value"].(string)
	assert.Contains(t, html, "CERT-1-2-ABCDEF0123")
	assert.Contains(t, html, "<strong>100</strong>")
}

func TestSendEmailReportsRejection(t *testing.T) {
	withConfig(t, &config.Config{SendgridAPIKey: "SG.test", EmailSender: "no-reply@learnsphere.app"})
	withSendgrid(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad"}]}`))
	})

	err := SendEmail(context.Background(), "Ada", "ada@example.com", "hi", "<p>hi</p>")
	assert.ErrorContains(t, err, "400")
}

func TestBadgeWebhookPost(t *testing.T) {
	var got badgePromotionPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := NewBadgeWebhook(srv.URL)
	err := hook.Post(context.Background(), learning.BadgePromotedEvent{UserID: 7, From: "Newbie", To: "Learner", TotalPoints: 120})
	require.NoError(t, err)

	assert.Equal(t, "badge.promoted", got.Event)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "Learner", got.To)
	assert.Equal(t, 120, got.TotalPoints)
	assert.False(t, got.PromotedAt.IsZero())
}

func TestBadgeWebhookErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewBadgeWebhook(srv.URL).Post(context.Background(), learning.BadgePromotedEvent{UserID: 1})
	assert.ErrorContains(t, err, "status 403")
}

func TestNotifierDeliversAfterRequestContextEnds(t *testing.T) {
	hits := make(chan badgePromotionPayload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p badgePromotionPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		hits <- p
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	n.BadgePromoted(ctx, learning.BadgePromotedEvent{UserID: 3, From: "Learner", To: "Scholar", TotalPoints: 300})
	cancel()
	n.Wait()

	require.Len(t, hits, 1)
	assert.Equal(t, "Scholar", (<-hits).To)
}

func TestNotifierWithoutWebhookOnlyLogs(t *testing.T) {
	n := NewNotifier("")
	n.BadgePromoted(context.Background(), learning.BadgePromotedEvent{UserID: 1, From: "Newbie", To: "Learner"})
	n.Wait()
	assert.Nil(t, n.webhook)
}

func TestNotifierCertificateSkipsWithoutSendgrid(t *testing.T) {
	withConfig(t, &config.Config{})
	n := NewNotifier("")
	n.CertificateIssued(context.Background(), learning.CertificateIssuedEvent{
		UserID:            1,
		Email:             "ada@example.com",
		CertificateNumber: "CERT-1-1-0000000000",
	})
	n.Wait()
}

var _ learning.Notifier = (*Notifier)(nil)

type stubReconciler struct {
	calls int
	err   error
}

func (s *stubReconciler) ReconcileBadges(context.Context) (int, error) {
	s.calls++
	return 2, s.err
}

func TestBadgeScheduler(t *testing.T) {
	r := &stubReconciler{}

	_, err := InitializeBadgeScheduler(r, "not a cron spec")
	assert.Error(t, err)

	c, err := InitializeBadgeScheduler(r, "0 3 * * *")
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)
	<-c.Stop().Done()

	runBadgeReconcile(r)
	r.err = errors.New("db down")
	runBadgeReconcile(r)
	assert.Equal(t, 2, r.calls)
}
