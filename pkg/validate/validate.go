// Package validate checks that a run has its credentials and can reach the
// platform before anything is built.
package validate

import (
	"context"

	"github.com/DeganAI/Autonate/pkg/errdefs"
	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/DeganAI/Autonate/pkg/secrets"
)

// RequiredCredentials must all be present for a deployment to start.
var RequiredCredentials = []string{
	"COMPUTE3_API_KEY",
	"ANTHROPIC_API_KEY",
	"OPENAI_API_KEY",
	"DIALPAD_API_KEY",
	"DATABASE_URL",
	"WEATHER_API_KEY",
}

// Prober issues the platform reachability check.
type Prober interface {
	Health(ctx context.Context) error
}

type Validator struct {
	log      logging.Logger
	src      secrets.Source
	required []string
	probe    Prober
	endpoint string
}

// New returns a Validator checking required in src, then probing endpoint
// through probe.
func New(log logging.Logger, src secrets.Source, required []string, probe Prober, endpoint string) *Validator {
	return &Validator{
		log:      log,
		src:      src,
		required: append([]string(nil), required...),
		probe:    probe,
		endpoint: endpoint,
	}
}

// Missing returns the required names absent from the source, in order.
func (v *Validator) Missing() []string {
	var missing []string
	for _, name := range v.required {
		if _, ok := v.src.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Validate reports every missing credential at once, then probes the
// platform a single time.
func (v *Validator) Validate(ctx context.Context) error {
	v.log.Info("validating environment")
	if missing := v.Missing(); len(missing) > 0 {
		return &errdefs.ConfigurationError{Missing: missing}
	}
	if err := v.probe.Health(ctx); err != nil {
		return &errdefs.ConnectivityError{Endpoint: v.endpoint, Err: err}
	}
	v.log.WithField("endpoint", v.endpoint).Info("environment validated")
	return nil
}
