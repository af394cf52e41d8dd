package platform

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/config"
	"github.com/DeganAI/Autonate/pkg/internal/testoutput"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, h http.Handler) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(testoutput.Logger(t, "platform"), srv.URL+"/", srv.URL, "c3-token", WithHTTPClient(srv.Client()))
}

func TestHealthSendsCredential(t *testing.T) {
	var got *http.Request
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, "/health", got.URL.Path)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "Bearer c3-token", got.Header.Get("Authorization"))
	_, err := uuid.Parse(got.Header.Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestCreateOrganization(t *testing.T) {
	manifest := []byte("name: Autonate Liberation Force\n")
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/organizations", r.URL.Path)
		assert.Equal(t, "application/yaml", r.Header.Get("Content-Type"))
		body, _ := ioutil.ReadAll(r.Body)
		assert.Equal(t, manifest, body)
		w.Write([]byte(`{"id":"org-123"}`))
	}))

	org, err := c.CreateOrganization(context.Background(), manifest)
	require.NoError(t, err)
	assert.Equal(t, "org-123", org.ID)
}

func TestNonSuccessCarriesBody(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))

	_, err := c.CreateOrganization(context.Background(), []byte("x"))
	var re *ResponseError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusTooManyRequests, re.StatusCode)
	assert.Equal(t, "quota exceeded", re.Body)
	assert.Contains(t, err.Error(), "429 Too Many Requests: quota exceeded")
}

func TestOrganizationStatus(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations/org 1/status", r.URL.Path)
		json.NewEncoder(w).Encode(OrganizationStatus{Agents: []AgentStatus{
			{ID: "autonate-prime", Status: "ready"},
			{ID: "route-oracle", Status: "starting"},
		}})
	}))

	status, err := c.OrganizationStatus(context.Background(), "org 1")
	require.NoError(t, err)
	assert.Equal(t, 1, status.ReadyCount())
	assert.False(t, status.AllReady())
}

func TestAllReady(t *testing.T) {
	assert.False(t, (&OrganizationStatus{}).AllReady())
	assert.True(t, (&OrganizationStatus{Agents: []AgentStatus{{Status: "ready"}, {Status: "ready"}}}).AllReady())
	assert.False(t, (&OrganizationStatus{Agents: []AgentStatus{{Status: "ready"}, {Status: "Ready"}}}).AllReady())
}

func TestAgentEndpoints(t *testing.T) {
	var paths []string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var payload map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, []string{"Mike"}, payload["coordinators"])
			w.Write([]byte(`{"ok":true}`))
		}
	}))

	require.NoError(t, c.AgentHealth(context.Background(), agents.RouteOracle))
	body, err := c.AgentAction(context.Background(), agents.WellnessGuardian, "check", map[string][]string{"coordinators": {"Mike"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, []string{
		"GET /agents/route-oracle/health",
		"POST /agents/wellness-guardian/check",
	}, paths)
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.New(config.Values{Workspace: "ws", APIKey: "k"})
	require.NoError(t, err)
	c := FromConfig(testoutput.Logger(t, "platform"), cfg)
	assert.Equal(t, "https://launch.comput3.ai", c.Endpoint())
	assert.Equal(t, "https://ws.compute3.ai/agents/route-oracle/health", c.agentURL(agents.RouteOracle, "health"))
}
