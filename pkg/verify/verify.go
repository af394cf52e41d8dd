// Package verify checks a running deployment: per-agent health and a list
// of functional smoke tests.
package verify

import (
	"context"

	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/errdefs"
	"github.com/DeganAI/Autonate/pkg/logging"
)

// HealthChecker reports whether a single agent answers its health
// endpoint.
type HealthChecker interface {
	AgentHealth(ctx context.Context, agent agents.ID) error
}

type Verifier struct {
	log    logging.Logger
	health HealthChecker
	agents agents.Registry
}

func NewVerifier(log logging.Logger, health HealthChecker, registry agents.Registry) *Verifier {
	return &Verifier{log: log, health: health, agents: registry}
}

// Verify checks agents one at a time in registry order and stops at the
// first unhealthy one.
func (v *Verifier) Verify(ctx context.Context) error {
	v.log.Info("verifying deployment")
	for _, agent := range v.agents.IDs() {
		if err := v.health.AgentHealth(ctx, agent); err != nil {
			return &errdefs.AgentUnhealthyError{Agent: agent.String(), Err: err}
		}
		v.log.WithField("agent", agent).Info("healthy")
	}
	v.log.Info("all agents verified")
	return nil
}
