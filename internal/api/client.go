package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/brainink-app/afterschool-go/internal/observability"
)

const maxErrorBodyBytes = 64 * 1024

// Config defines construction options for the API client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	Logger     zerolog.Logger
	HTTPClient *http.Client
}

// Client is the authenticated HTTP helper every service goes through. It
// attaches bearer auth, serializes JSON or multipart bodies, and normalizes
// non-2xx responses into *Error values. It never retries and never caches.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// FilePart describes one file appended to a multipart request.
type FilePart struct {
	Field       string
	Name        string
	ContentType string
	Reader      io.Reader
}

// New constructs an API client for the given base URL.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("base url must be provided")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "brainink-client/1.0"
	}

	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: userAgent,
		logger:    cfg.Logger.With().Str("component", "api_client").Logger(),
		tracer:    otel.Tracer("github.com/brainink-app/afterschool-go/internal/api"),
	}, nil
}

// JSON issues a request with an optional JSON body and decodes the JSON
// response into out (out may be nil).
func (c *Client) JSON(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, token, contentType, reader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeBody(resp.Body, out)
}

// Multipart issues a POST with string fields and file parts. The multipart
// content type (and boundary) is computed by the writer, callers must not set
// one themselves.
func (c *Client) Multipart(ctx context.Context, path, token string, fields map[string]string, files []FilePart, out interface{}) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write multipart field %q: %w", key, err)
		}
	}

	for _, file := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create multipart part %q: %w", file.Name, err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return fmt.Errorf("copy multipart part %q: %w", file.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, token, writer.FormDataContentType(), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeBody(resp.Body, out)
}

// Download fetches raw bytes, for example a submission's stored file.
func (c *Client) Download(ctx context.Context, path, token string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, token, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read download body: %w", err)
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader) (*http.Response, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrAuthRequired
	}

	ctx, span := c.tracer.Start(ctx, "brainink.request", trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
	defer span.End()

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.ClientLatency().WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		kind := "transport"
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", ErrAborted, ctx.Err())
			kind = "aborted"
		}
		observability.ClientErrors().WithLabelValues(method, kind).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, err
	}

	observability.ClientRequests().WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := normalizeError(resp)
		resp.Body.Close()
		observability.ClientErrors().WithLabelValues(method, "api").Inc()
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.Warn().Int("status", apiErr.Status).Str("method", method).Str("path", path).Msg(apiErr.Message)
		return nil, apiErr
	}

	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// normalizeError turns a non-2xx response into the uniform error message
// every caller relies on: JSON detail/message field first, then the raw body
// text, then "HTTP <status>: <statusText>".
func normalizeError(resp *http.Response) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	message := ""
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Detail != "" {
			message = payload.Detail
		} else if payload.Message != "" {
			message = payload.Message
		}
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = statusFallback(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return &Error{Status: resp.StatusCode, Message: message}
}

func decodeBody(body io.Reader, out interface{}) error {
	if out == nil {
		_, err := io.Copy(io.Discard, body)
		return err
	}

	payload, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
