package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	pkgError "github.com/AzielCF/az-xpost/pkg/error"
	"github.com/sirupsen/logrus"
)

var submitWebhookFn = submitWebhook

// Notifier delivers run outcomes to the operator webhook. Delivery is
// best-effort: a failed or missing webhook never affects the run itself.
type Notifier struct {
	url        string
	runID      string
	httpClient *http.Client
}

func NewNotifier(url, runID string) *Notifier {
	return &Notifier{
		url:        url,
		runID:      runID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Notifier) Notify(ctx context.Context, message string, isError bool) {
	if n == nil || n.url == "" {
		logrus.Debug("[WEBHOOK] No webhook configured; skipping dispatch")
		return
	}

	level := "info"
	if isError {
		level = "error"
	}
	payload := map[string]any{
		"text":   message,
		"level":  level,
		"run_id": n.runID,
	}

	if err := submitWebhookFn(ctx, n.httpClient, n.url, payload); err != nil {
		logrus.WithError(err).Warn("[WEBHOOK] Failed to notify operator channel")
		return
	}
	logrus.WithField("level", level).Debug("[WEBHOOK] Outcome forwarded to operator channel")
}

func submitWebhook(ctx context.Context, client *http.Client, url string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgError.WebhookError(fmt.Sprintf("failed to encode webhook payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return pkgError.WebhookError(fmt.Sprintf("failed to build webhook request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return pkgError.WebhookError(fmt.Sprintf("webhook request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgError.WebhookError(fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}
	return nil
}
