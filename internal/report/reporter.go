package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-fee-digest/internal/api"
	"daily-fee-digest/internal/logger"
)

// ErrNoWebhookURL is returned by Send when no webhook URL is configured.
// The URL is only required at send time, so a dry run never hits this.
var ErrNoWebhookURL = errors.New("no webhook URL configured")

// Reporter delivers a digest payload to a webhook endpoint.
type Reporter struct {
	client  *api.Client
	url     string
	headers map[string]string
}

// NewReporter creates a reporter posting to url with the given extra
// headers and request timeout.
func NewReporter(url string, headers map[string]string, timeout time.Duration) *Reporter {
	return &Reporter{
		client:  api.NewClient(api.WithTimeout(timeout)),
		url:     url,
		headers: headers,
	}
}

// Send POSTs the payload as JSON. A transport failure or a non-2xx
// response fails the run; there is no retry.
func (r *Reporter) Send(ctx context.Context, payload any) error {
	if r.url == "" {
		return ErrNoWebhookURL
	}

	op := logger.StartOperation(ctx, "deliver_webhook", "url", r.url)
	_, err := r.client.POST(op.Context(), r.url, payload, r.headers)
	if err != nil {
		op.EndWithError(err)
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	op.End()

	logger.Info(ctx, "Digest delivered", "url", r.url)
	return nil
}
