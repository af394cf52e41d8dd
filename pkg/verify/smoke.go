package verify

import (
	"context"

	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/errdefs"
	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/sirupsen/logrus"
)

// ActionInvoker posts a JSON payload to an agent action.
type ActionInvoker interface {
	AgentAction(ctx context.Context, agent agents.ID, action string, payload interface{}) ([]byte, error)
}

// SmokeTest is one functional check against a deployed agent.
type SmokeTest struct {
	Name    string
	Agent   agents.ID
	Action  string
	Payload interface{}
}

// WellnessCheck is the coordinator check-in run against the wellness
// guardian.
var WellnessCheck = SmokeTest{
	Name:   "wellness check",
	Agent:  agents.WellnessGuardian,
	Action: "check",
	Payload: map[string][]string{
		"coordinators": {"Mike", "Sarah", "John"},
	},
}

// DefaultSmokeTests is the list run after every deployment.
func DefaultSmokeTests() []SmokeTest {
	return []SmokeTest{WellnessCheck}
}

type SmokeRunner struct {
	log     logging.Logger
	invoker ActionInvoker
	tests   []SmokeTest
}

func NewSmokeRunner(log logging.Logger, invoker ActionInvoker, tests ...SmokeTest) *SmokeRunner {
	if len(tests) == 0 {
		tests = DefaultSmokeTests()
	}
	return &SmokeRunner{log: log, invoker: invoker, tests: tests}
}

// Run executes every test in order; the first failure skips the rest.
func (r *SmokeRunner) Run(ctx context.Context) error {
	r.log.Info("running smoke tests")
	for _, test := range r.tests {
		log := r.log.WithFields(logrus.Fields{
			"test":   test.Name,
			"agent":  test.Agent,
			"action": test.Action,
		})
		body, err := r.invoker.AgentAction(ctx, test.Agent, test.Action, test.Payload)
		if err != nil {
			return &errdefs.SmokeTestError{Test: test.Name, Agent: test.Agent.String(), Err: err}
		}
		log.WithField("bytes", len(body)).Info("passed")
	}
	r.log.Info("smoke tests passed")
	return nil
}
