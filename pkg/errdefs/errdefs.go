// Package errdefs defines the failure kinds of a deployment run. Every kind
// is fatal to the run; callers match them with the Is helpers, which see
// through any wrapping added on the way up.
package errdefs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ConfigurationError lists every required credential absent at startup.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Missing, ", ")
}

// ConnectivityError reports a failed reachability probe.
type ConnectivityError struct {
	Endpoint string
	Err      error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("failed to connect to platform at %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// BuildError reports the agent whose descriptor or image failed to build.
type BuildError struct {
	Agent string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s: %v", e.Agent, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// PublishError reports a registry login, tag or push failure. Agent is
// empty when the login failed.
type PublishError struct {
	Registry string
	Agent    string
	Ref      string
	Err      error
}

func (e *PublishError) Error() string {
	if e.Agent == "" {
		return fmt.Sprintf("login to registry %s: %v", e.Registry, e.Err)
	}
	return fmt.Sprintf("publish %s as %s: %v", e.Agent, e.Ref, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// DeploymentError reports a rejected or unreadable organization
// submission. Body holds the platform's response when it answered.
type DeploymentError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DeploymentError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("deployment failed (status %d): %s", e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("deployment failed: %v", e.Err)
	default:
		return "deployment failed: " + e.Body
	}
}

func (e *DeploymentError) Unwrap() error { return e.Err }

// ReadinessTimeoutError reports agents still not ready when the wait
// window closed.
type ReadinessTimeoutError struct {
	DeploymentID string
	Ready        int
	Total        int
	Timeout      time.Duration
}

func (e *ReadinessTimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for agents of %s to be ready after %s (%d/%d ready)",
		e.DeploymentID, e.Timeout, e.Ready, e.Total)
}

// AgentUnhealthyError names the first agent whose health check failed.
type AgentUnhealthyError struct {
	Agent string
	Err   error
}

func (e *AgentUnhealthyError) Error() string {
	return fmt.Sprintf("agent %s health check failed: %v", e.Agent, e.Err)
}

func (e *AgentUnhealthyError) Unwrap() error { return e.Err }

// SmokeTestError names the functional check that failed.
type SmokeTestError struct {
	Test  string
	Agent string
	Err   error
}

func (e *SmokeTestError) Error() string {
	return fmt.Sprintf("smoke test %q against %s failed: %v", e.Test, e.Agent, e.Err)
}

func (e *SmokeTestError) Unwrap() error { return e.Err }

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsConnectivity(err error) bool {
	var target *ConnectivityError
	return errors.As(err, &target)
}

func IsBuild(err error) bool {
	var target *BuildError
	return errors.As(err, &target)
}

func IsPublish(err error) bool {
	var target *PublishError
	return errors.As(err, &target)
}

func IsDeployment(err error) bool {
	var target *DeploymentError
	return errors.As(err, &target)
}

func IsReadinessTimeout(err error) bool {
	var target *ReadinessTimeoutError
	return errors.As(err, &target)
}

func IsAgentUnhealthy(err error) bool {
	var target *AgentUnhealthyError
	return errors.As(err, &target)
}

func IsSmokeTest(err error) bool {
	var target *SmokeTestError
	return errors.As(err, &target)
}

// IsCancelled reports whether err stems from the run context being
// cancelled, which only happens when the process is signalled.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Kind returns a short name for the failure kind of err, or "unknown".
// A cancelled run is reported as "cancelled" whichever stage it hit.
func Kind(err error) string {
	switch {
	case IsCancelled(err):
		return "cancelled"
	case IsConfiguration(err):
		return "configuration"
	case IsConnectivity(err):
		return "connectivity"
	case IsBuild(err):
		return "build"
	case IsPublish(err):
		return "publish"
	case IsDeployment(err):
		return "deployment"
	case IsReadinessTimeout(err):
		return "readiness-timeout"
	case IsAgentUnhealthy(err):
		return "agent-unhealthy"
	case IsSmokeTest(err):
		return "smoke-test"
	}
	return "unknown"
}
