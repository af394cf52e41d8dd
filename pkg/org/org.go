// Package org describes the Autonate Liberation Organization: its agents,
// teams, workflows and platform settings, and renders it as the
// deployment manifest.
package org

import (
	"fmt"
	"strings"

	"github.com/DeganAI/Autonate/pkg/agents"
)

type Organization struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Mission     string     `yaml:"mission"`
	Teams       []Team     `yaml:"teams"`
	Agents      []Agent    `yaml:"agents"`
	Workflows   []Workflow `yaml:"workflows"`
	Settings    Settings   `yaml:"settings"`
}

type Team struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Agents      []agents.ID `yaml:"agents"`
}

// Role of an agent within the organization.
type Role string

const (
	RoleOrchestrator Role = "orchestrator"
	RoleSpecialist   Role = "specialist"
)

type Agent struct {
	ID   agents.ID `yaml:"id"`
	Name string    `yaml:"name"`
	// Character references the persona by name; its content is not part
	// of the manifest.
	Character        string   `yaml:"character"`
	Role             Role     `yaml:"role"`
	Plugins          []string `yaml:"plugins,omitempty"`
	Responsibilities []string `yaml:"responsibilities,omitempty"`
	ModelProvider    string   `yaml:"modelProvider"`
	Model            string   `yaml:"model"`
}

type Workflow struct {
	Name    string `yaml:"name"`
	Trigger string `yaml:"trigger"`
	// Interval is set for periodic triggers, e.g. "15m".
	Interval string `yaml:"interval,omitempty"`
	Steps    []Step `yaml:"steps"`
}

type Step struct {
	Agent     agents.ID `yaml:"agent"`
	Action    string    `yaml:"action"`
	Input     Labels    `yaml:"input,omitempty"`
	Output    string    `yaml:"output,omitempty"`
	Condition string    `yaml:"condition,omitempty"`
}

// Settings name the environment variables holding secrets rather than
// their values.
type Settings struct {
	Compute3   Compute3Settings   `yaml:"compute3"`
	Dialpad    DialpadSettings    `yaml:"dialpad"`
	Database   DatabaseSettings   `yaml:"database"`
	Monitoring MonitoringSettings `yaml:"monitoring"`
}

type Compute3Settings struct {
	APIKeyEnv string `yaml:"apiKeyEnv"`
	Endpoint  string `yaml:"endpoint"`
	Workspace string `yaml:"workspace"`
}

type DialpadSettings struct {
	APIKeyEnv      string `yaml:"apiKeyEnv"`
	PhoneNumberEnv string `yaml:"phoneNumberEnv"`
}

type DatabaseSettings struct {
	Type   string `yaml:"type"`
	URLEnv string `yaml:"urlEnv"`
}

type MonitoringSettings struct {
	LiberationMetrics    bool `yaml:"liberationMetrics"`
	CoordinatorWellness  bool `yaml:"coordinatorWellness"`
	CustomerSatisfaction bool `yaml:"customerSatisfaction"`
}

// Agent returns the definition of id.
func (o *Organization) Agent(id agents.ID) (Agent, bool) {
	for _, a := range o.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}

// Registry returns the defined agent ids in definition order.
func (o *Organization) Registry() agents.Registry {
	ids := make([]agents.ID, 0, len(o.Agents))
	for _, a := range o.Agents {
		ids = append(ids, a.ID)
	}
	return agents.New(ids...)
}

// ValidationError lists every problem found in an organization.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid organization: " + strings.Join(e.Problems, "; ")
}

// Validate checks the organization is self-consistent and defines every
// agent of registry.
func (o *Organization) Validate(registry agents.Registry) error {
	var problems []string
	addf := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if o.Name == "" {
		addf("name is empty")
	}

	defined := map[agents.ID]bool{}
	for i, a := range o.Agents {
		switch {
		case a.ID == "":
			addf("agent %d has no id", i)
		case defined[a.ID]:
			addf("agent %s is defined twice", a.ID)
		}
		defined[a.ID] = true
		if a.Role != RoleOrchestrator && a.Role != RoleSpecialist {
			addf("agent %s has unknown role %q", a.ID, a.Role)
		}
		if a.ModelProvider == "" || a.Model == "" {
			addf("agent %s has no model", a.ID)
		}
	}
	for _, id := range registry.IDs() {
		if !defined[id] {
			addf("agent %s is not defined", id)
		}
	}

	for _, team := range o.Teams {
		if len(team.Agents) == 0 {
			addf("team %q has no agents", team.Name)
		}
		for _, id := range team.Agents {
			if !defined[id] {
				addf("team %q references unknown agent %s", team.Name, id)
			}
		}
	}

	for _, wf := range o.Workflows {
		if wf.Trigger == "" {
			addf("workflow %q has no trigger", wf.Name)
		}
		if len(wf.Steps) == 0 {
			addf("workflow %q has no steps", wf.Name)
		}
		for i, step := range wf.Steps {
			if !defined[step.Agent] {
				addf("workflow %q step %d references unknown agent %s", wf.Name, i+1, step.Agent)
			}
			if step.Action == "" {
				addf("workflow %q step %d has no action", wf.Name, i+1)
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
