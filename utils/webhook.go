package utils

import (
	"context"
	"fmt"
	"time"

	"learnsphere/services/learning"

	"github.com/go-resty/resty/v2"
)

// BadgeWebhook posts badge promotions to an external endpoint.
type BadgeWebhook struct {
	client *resty.Client
	url    string
}

type badgePromotionPayload struct {
	Event       string    `json:"event"`
	UserID      uint      `json:"user_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	TotalPoints int       `json:"total_points"`
	PromotedAt  time.Time `json:"promoted_at"`
}

func NewBadgeWebhook(url string) *BadgeWebhook {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json")
	return &BadgeWebhook{client: client, url: url}
}

func (w *BadgeWebhook) Post(ctx context.Context, ev learning.BadgePromotedEvent) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(badgePromotionPayload{
			Event:       "badge.promoted",
			UserID:      ev.UserID,
			From:        ev.From,
			To:          ev.To,
			TotalPoints: ev.TotalPoints,
			PromotedAt:  time.Now().UTC(),
		}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("badge webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("badge webhook: status %d", resp.StatusCode())
	}
	return nil
}
