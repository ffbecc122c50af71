package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	config "github.com/NordCoder/Upkeep/internal/config/notifier"
	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/obs/retry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

var (
	_ notification.SharePointClient = (*SharePointClient)(nil)
	_ notification.SharePointClient = NoopSharePoint{}
)

type sharePointRequest struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
}

// StatusError is a non-2xx answer of the SharePoint endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sharepoint: unexpected status %d: %s", e.Code, e.Body)
}

// Temporary reports whether the request may succeed when retried.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

func retryableHTTP(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

type SharePointClient struct {
	c        *http.Client
	endpoint string
	token    string
	policy   retry.Policy
	log      *zap.Logger
}

func NewSharePointClient(cfg config.SharePoint, log *zap.Logger) *SharePointClient {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "notifier.sharepoint_client"))

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	return &SharePointClient{
		c: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		policy:   retry.HTTPPolicy("sharepoint", attempts, retryableHTTP, log),
		log:      log,
	}
}

// WithPolicy replaces the retry policy.
func (s *SharePointClient) WithPolicy(p retry.Policy) *SharePointClient {
	cp := *s
	cp.policy = p
	return &cp
}

func (s *SharePointClient) CreateNotification(ctx context.Context, title, message, recipientEmail string) error {
	body, err := json.Marshal(sharePointRequest{Title: title, Message: message, Recipient: recipientEmail})
	if err != nil {
		return fmt.Errorf("marshal sharepoint request: %w", err)
	}
	return retry.Do(ctx, func() error { return s.post(ctx, body) }, s.policy)
}

func (s *SharePointClient) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.c.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
}

// NoopSharePoint stands in when no endpoint is configured.
type NoopSharePoint struct{ Log *zap.Logger }

func (n NoopSharePoint) CreateNotification(_ context.Context, title, _, recipientEmail string) error {
	if n.Log != nil {
		n.Log.Debug("sharepoint disabled; export dropped", zap.String("title", title), zap.String("to", recipientEmail))
	}
	return nil
}
