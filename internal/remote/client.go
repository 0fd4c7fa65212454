package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
	"github.com/tuanvumaihuynh/stockdesk/internal/config"
	"github.com/tuanvumaihuynh/stockdesk/internal/session"
	"github.com/tuanvumaihuynh/stockdesk/pkg/correlationid"
	"github.com/tuanvumaihuynh/stockdesk/pkg/validator"
)

var tracer = otel.Tracer("internal/remote")

const maxBodyBytes = 10 << 20 // 10 MB

// Client is the fetch layer for the remote order/stock service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    *session.Session
	validator  validator.Validator
	logger     *slog.Logger
}

// NewClient creates a remote client. Every request is authenticated with a
// bearer token taken from sess.
func NewClient(
	cfg config.Remote,
	logger *slog.Logger,
	sess *session.Session,
	v validator.Validator,
) (*Client, error) {
	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", cfg.BaseURL)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		session:    sess,
		validator:  v,
		logger:     logger.With(slog.String("component", "remote")),
	}, nil
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL.String() + "/" + strings.Join(escaped, "/")
}

// do sends the request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, endpoint string, body any) (respBody []byte, err error) {
	ctx, span := tracer.Start(ctx, "remote "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", endpoint),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "remote request failed")
		}
		span.End()
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("session token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := correlationid.FromContext(ctx); ok {
		req.Header.Set(correlationid.Header, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, apperr.RequestCancelledErr.WrapParent(fmt.Errorf("%s %s: %w", method, endpoint, err))
		}
		return nil, apperr.TransportErr.
			WithMsg("remote service is unreachable").
			WrapParent(fmt.Errorf("%s %s: %w", method, endpoint, err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.TransportErr.WrapParent(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.session.Invalidate()
		}

		c.logger.WarnContext(ctx, "remote service responded with error status",
			slog.String("method", method),
			slog.String("url", endpoint),
			slog.Int("status_code", resp.StatusCode),
		)

		return nil, apperr.TransportErr.
			WithMsg(statusMessage(resp.StatusCode, respBody)).
			WrapParent(fmt.Errorf("%s %s: unexpected status %d", method, endpoint, resp.StatusCode))
	}

	return respBody, nil
}

// statusMessage prefers the message of an error envelope over a generic text.
func statusMessage(statusCode int, body []byte) string {
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return fmt.Sprintf("remote service responded with status %d", statusCode)
}

func (c *Client) validateAll(items []any) error {
	for i, item := range items {
		if err := c.validator.Validate(item); err != nil {
			return apperr.ValidationErr.
				WithMsg("remote service returned an invalid record").
				WrapParent(fmt.Errorf("item %d: %w", i, err))
		}
	}
	return nil
}
