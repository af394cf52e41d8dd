// Package platform is a client for the Compute3 platform API and the
// endpoints of deployed agents.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/config"
	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// ContentTypeManifest marks the organization manifest as structured
	// config rather than JSON.
	ContentTypeManifest = "application/yaml"
	ContentTypeJSON     = "application/json"

	// RequestIDHeader carries a per-request id for correlating with
	// platform logs.
	RequestIDHeader = "X-Request-Id"

	maxBodyBytes   = 1 << 20
	defaultTimeout = 30 * time.Second
)

// ResponseError is returned for any non-2xx response.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Organization is the platform's record of a submitted manifest.
type Organization struct {
	ID string `json:"id"`
}

// StatusReady is the agent state reported once an instance is serving.
const StatusReady = "ready"

type AgentStatus struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
}

// OrganizationStatus lists the state of every agent of a deployment.
type OrganizationStatus struct {
	Agents []AgentStatus `json:"agents"`
}

// ReadyCount is the number of agents reporting StatusReady.
func (s *OrganizationStatus) ReadyCount() int {
	n := 0
	for _, a := range s.Agents {
		if a.Status == StatusReady {
			n++
		}
	}
	return n
}

// AllReady reports whether at least one agent is listed and all of them
// are ready.
func (s *OrganizationStatus) AllReady() bool {
	return len(s.Agents) > 0 && s.ReadyCount() == len(s.Agents)
}

type Client struct {
	log       logging.Logger
	http      *http.Client
	endpoint  string
	agentsURL string
	token     string
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New returns a client for the API at endpoint and the agents served under
// agentsURL, authenticating with token.
func New(log logging.Logger, endpoint, agentsURL, token string, opts ...Option) *Client {
	c := &Client{
		log:       log,
		http:      &http.Client{Timeout: defaultTimeout},
		endpoint:  strings.TrimRight(endpoint, "/"),
		agentsURL: strings.TrimRight(agentsURL, "/"),
		token:     token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig returns a client for the platform and workspace of cfg.
func FromConfig(log logging.Logger, cfg *config.Config, opts ...Option) *Client {
	return New(log, cfg.Endpoint(), cfg.AgentsURL(), cfg.APIKey(), opts...)
}

// Endpoint is the API base URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, c.endpoint+"/health", "", nil)
	return err
}

// CreateOrganization submits manifest verbatim to POST /organizations.
func (c *Client) CreateOrganization(ctx context.Context, manifest []byte) (*Organization, error) {
	body, err := c.do(ctx, http.MethodPost, c.endpoint+"/organizations", ContentTypeManifest, bytes.NewReader(manifest))
	if err != nil {
		return nil, err
	}
	var org Organization
	if err := json.Unmarshal(body, &org); err != nil {
		return nil, errors.Wrap(err, "decode organization")
	}
	return &org, nil
}

// OrganizationStatus fetches GET /organizations/{id}/status.
func (c *Client) OrganizationStatus(ctx context.Context, id string) (*OrganizationStatus, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint+"/organizations/"+url.PathEscape(id)+"/status", "", nil)
	if err != nil {
		return nil, err
	}
	var status OrganizationStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, errors.Wrap(err, "decode organization status")
	}
	return &status, nil
}

// AgentHealth probes GET /agents/{id}/health on the agents host.
func (c *Client) AgentHealth(ctx context.Context, agent agents.ID) error {
	_, err := c.do(ctx, http.MethodGet, c.agentURL(agent, "health"), "", nil)
	return err
}

// AgentAction posts payload as JSON to /agents/{id}/{action} and returns
// the response body.
func (c *Client) AgentAction(ctx context.Context, agent agents.ID, action string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode payload")
	}
	return c.do(ctx, http.MethodPost, c.agentURL(agent, action), ContentTypeJSON, bytes.NewReader(raw))
}

func (c *Client) agentURL(agent agents.ID, action string) string {
	return c.agentsURL + "/agents/" + url.PathEscape(agent.String()) + "/" + action
}

func (c *Client) do(ctx context.Context, method, target, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	reqID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", ContentTypeJSON)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"url":        target,
		"request-id": reqID,
	})
	log.Debug("sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, target)
	}
	defer resp.Body.Close()

	raw, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "read response of %s %s", method, target)
	}
	if logging.Debuggable {
		log.WithField("body", string(raw)).Debug("response body")
	}
	log.WithField("status", resp.StatusCode).Debug("received response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ResponseError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	return raw, nil
}
