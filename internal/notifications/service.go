package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/config"
)

const userAgent = "webcam-monitor/0.1.0"

// Service defines the notification surface used by the monitor.
type Service interface {
	NotifyNewImages(ctx context.Context, webcam string, count int, newest int64) error
	NotifyWatchError(ctx context.Context, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		newImages: cfg.Notifications.NewImages,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	newImages bool
	errors    bool
}

func (n *ntfyService) NotifyNewImages(ctx context.Context, webcam string, count int, newest int64) error {
	if !n.newImages {
		return nil
	}
	data := payload{
		title: "Webcam Monitor - New Images",
		message: fmt.Sprintf("%d new image(s) from %s, newest captured %s",
			count, webcam, time.Unix(newest, 0).UTC().Format(time.RFC3339)),
		tags: []string{"webcam", "images", "new"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyWatchError(ctx context.Context, err error) error {
	if !n.errors {
		return nil
	}
	message := "unknown"
	if err != nil {
		message = strings.TrimSpace(err.Error())
	}
	data := payload{
		title:    "Webcam Monitor - Error",
		message:  fmt.Sprintf("Update run failed: %s", message),
		tags:     []string{"webcam", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Webcam Monitor - Test",
		message:  "Notification system test",
		tags:     []string{"webcam", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyNewImages(context.Context, string, int, int64) error { return nil }
func (noopService) NotifyWatchError(context.Context, error) error             { return nil }
func (noopService) TestNotification(context.Context) error                    { return nil }
