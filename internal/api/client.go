// Package api talks to the remote project service. Requests follow the
// service's RPC convention: every procedure is a POST to {base}/{procedure}
// with a JSON body, and every response wraps its payload in "result".
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"arcai/internal/jsonutil"
	"arcai/internal/project"
)

// DefaultTimeout bounds a single request when the caller supplies no client.
const DefaultTimeout = 10 * time.Second

// Procedure names.
const (
	ProcGetProject    = "projects.getOne"
	ProcUpdateProject = "projects.updateOne"
)

const tracerName = "arcai/api"

// ErrNoResult is returned when the service answers without a result.
var ErrNoResult = errors.New("no result")

// ProjectAPI is what the project page needs from the remote service.
type ProjectAPI interface {
	GetProject(ctx context.Context, secret, id string) (*project.Project, error)
	UpdateProject(ctx context.Context, secret, id string, p project.Project) error
}

// StatusError carries a non-2xx response.
type StatusError struct {
	Procedure string
	Code      int
	Body      string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api %s: %s", e.Procedure, http.StatusText(e.Code))
	}
	return fmt.Sprintf("api %s: %s: %s", e.Procedure, http.StatusText(e.Code), e.Body)
}

// Client is the HTTP implementation of ProjectAPI.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
	tracer  oteltrace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// NewClient returns a client rooted at baseURL (e.g. "https://host/api/trpc").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     slog.New(slog.DiscardHandler),
		tracer:  otel.Tracer(tracerName),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type getRequest struct {
	Secret string `json:"secret"`
	ID     string `json:"id"`
}

type updateRequest struct {
	Secret  string          `json:"secret"`
	ID      string          `json:"id"`
	Project project.Project `json:"project"`
}

type envelope struct {
	Result json.RawMessage `json:"result"`
}

// GetProject fetches one project. A null result yields ErrNoResult.
func (c *Client) GetProject(ctx context.Context, secret, id string) (*project.Project, error) {
	raw, err := c.call(ctx, ProcGetProject, id, getRequest{Secret: secret, ID: id})
	if err != nil {
		return nil, err
	}
	var p project.Project
	if err := jsonutil.UnmarshalWithContext(raw, &p, ProcGetProject+" result"); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject replaces the stored project.
func (c *Client) UpdateProject(ctx context.Context, secret, id string, p project.Project) error {
	_, err := c.call(ctx, ProcUpdateProject, id, updateRequest{Secret: secret, ID: id, Project: p})
	return err
}

func (c *Client) call(ctx context.Context, proc, id string, body any) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, proc,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("arcai.procedure", proc),
			attribute.String("arcai.project.id", id),
		),
	)
	defer span.End()

	raw, err := c.do(ctx, proc, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Debug("api call failed", "procedure", proc, "project", id, "error", err)
		return nil, err
	}
	c.log.Debug("api call", "procedure", proc, "project", id)
	return raw, nil
}

func (c *Client) do(ctx context.Context, proc string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("api %s: encode request: %w", proc, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+proc, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("api %s: %w", proc, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api %s: %w", proc, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Procedure: proc, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var env envelope
	if err := jsonutil.DecodeWithContext(resp.Body, &env, "api "+proc); err != nil {
		return nil, err
	}
	if jsonutil.IsNull(env.Result) {
		return nil, fmt.Errorf("api %s: %w", proc, ErrNoResult)
	}
	return env.Result, nil
}
