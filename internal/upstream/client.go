// Package upstream is the typed client for the remote exeat API, the system
// of record for requests, debts, roles and audit logs.
// Mutating calls are never retried.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/config"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

const maxResponseSize = 4 << 20

type requestIDKey struct{}

// WithRequestID attaches the portal request ID to ctx. Calls made with the
// returned context forward it as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client calls the exeat API on behalf of a signed-in user. Every method
// takes the user's exeat API token and a context that is cancelled when the
// originating browser request goes away.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg *config.UpstreamConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithHTTP builds a Client around an existing http.Client.
func NewClientWithHTTP(baseURL string, hc *http.Client, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

// errorBody is the shape of every non-2xx response.
type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// do performs one request. out may be nil. A response wrapped as {"data": X}
// is unwrapped before decoding into out.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if rid := requestIDFrom(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("exeat api unreachable",
			zap.String("request_id", requestIDFrom(ctx)),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return pkgerrors.Wrap(pkgerrors.KindNetwork, pkgerrors.ErrNetwork.Message, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.KindNetwork, pkgerrors.ErrNetwork.Message, err)
	}

	c.logger.Debug("exeat api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := decode(data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.KindUpstream, "the exeat service returned an unreadable response", err)
	}
	return nil
}

func decode(data []byte, out any) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err == nil {
		if inner, ok := envelope["data"]; ok {
			return json.Unmarshal(inner, out)
		}
	}
	return json.Unmarshal(data, out)
}

// classify turns a non-2xx response into a classified error. The server's
// message is kept verbatim so the user sees what the exeat API said.
func classify(status int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)
	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		msg = strings.TrimSpace(body.Error)
	}

	var kind pkgerrors.Kind
	var fallback *pkgerrors.Error
	switch {
	case status == http.StatusUnauthorized:
		kind, fallback = pkgerrors.KindUnauthenticated, pkgerrors.ErrUnauthenticated
	case status == http.StatusForbidden:
		kind, fallback = pkgerrors.KindPermissionDenied, pkgerrors.ErrPermissionDenied
	case status == http.StatusNotFound:
		kind, fallback = pkgerrors.KindNotFound, pkgerrors.ErrNotFound
	case status == http.StatusConflict:
		kind, fallback = pkgerrors.KindStaleState, pkgerrors.ErrStaleState
	case status == http.StatusUnprocessableEntity, status == http.StatusBadRequest:
		kind, fallback = pkgerrors.KindValidation, pkgerrors.ErrValidation
	default:
		kind, fallback = pkgerrors.KindUpstream, pkgerrors.ErrUpstream
	}
	if msg == "" {
		msg = fallback.Message
	}

	e := pkgerrors.Wrap(kind, msg, &StatusError{Code: status})
	if len(body.Errors) > 0 {
		e = e.WithFields(body.Errors)
	}
	return e
}

// StatusError records the HTTP status behind a classified error.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exeat api responded %d %s", e.Code, http.StatusText(e.Code))
}

// HTTPStatus returns the upstream status code behind err, or 0.
func HTTPStatus(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
