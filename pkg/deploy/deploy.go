// Package deploy submits the organization manifest and waits for every
// agent of the resulting deployment to report ready.
package deploy

import (
	"context"
	"os"
	"time"

	"github.com/DeganAI/Autonate/pkg/errdefs"
	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/DeganAI/Autonate/pkg/platform"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultTimeout      = 5 * time.Minute
)

// API is the part of the platform the deployer talks to.
type API interface {
	CreateOrganization(ctx context.Context, manifest []byte) (*platform.Organization, error)
	OrganizationStatus(ctx context.Context, id string) (*platform.OrganizationStatus, error)
}

type Deployer struct {
	log          logging.Logger
	api          API
	manifestPath string
	clock        clock.Clock
	interval     time.Duration
	timeout      time.Duration
}

type Option func(*Deployer)

// WithClock replaces the wall clock used by the readiness loop.
func WithClock(c clock.Clock) Option {
	return func(d *Deployer) {
		d.clock = c
	}
}

// WithPolling sets the readiness poll interval and total timeout.
func WithPolling(interval, timeout time.Duration) Option {
	return func(d *Deployer) {
		if interval > 0 {
			d.interval = interval
		}
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func New(log logging.Logger, api API, manifestPath string, opts ...Option) *Deployer {
	d := &Deployer{
		log:          log,
		api:          api,
		manifestPath: manifestPath,
		clock:        clock.RealClock{},
		interval:     DefaultPollInterval,
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit reads the manifest and submits it unmodified. It returns the
// server-assigned deployment id.
func (d *Deployer) Submit(ctx context.Context) (string, error) {
	d.log.WithField("manifest", d.manifestPath).Info("deploying organization")

	manifest, err := os.ReadFile(d.manifestPath)
	if err != nil {
		return "", &errdefs.DeploymentError{Err: errors.Wrap(err, "read manifest")}
	}

	org, err := d.api.CreateOrganization(ctx, manifest)
	if err != nil {
		var re *platform.ResponseError
		if errors.As(err, &re) {
			return "", &errdefs.DeploymentError{StatusCode: re.StatusCode, Body: re.Body, Err: err}
		}
		return "", &errdefs.DeploymentError{Err: err}
	}
	if org.ID == "" {
		return "", &errdefs.DeploymentError{Err: errors.New("platform returned no deployment id")}
	}

	d.log.WithField("deployment", org.ID).Info("organization deployed")
	return org.ID, nil
}

// WaitForAgents polls the deployment's status until every agent is ready
// or the timeout, measured from the first poll, elapses. Only the all-ready
// check decides the outcome; a failed status request ends the wait.
func (d *Deployer) WaitForAgents(ctx context.Context, id string) error {
	log := d.log.WithField("deployment", id)
	log.Info("waiting for agents to be ready")

	var ready, total int
	start := d.clock.Now()
	for d.clock.Since(start) < d.timeout {
		status, err := d.api.OrganizationStatus(ctx, id)
		if err != nil {
			return &errdefs.DeploymentError{Err: errors.Wrapf(err, "poll status of %s", id)}
		}
		if status.AllReady() {
			log.WithField("total", len(status.Agents)).Info("all agents are ready")
			return nil
		}

		ready, total = status.ReadyCount(), len(status.Agents)
		log.WithFields(logrus.Fields{
			"ready": ready,
			"total": total,
		}).Infof("agents ready: %d/%d", ready, total)

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "waiting for agents")
		case <-d.clock.After(d.interval):
		}
	}

	return &errdefs.ReadinessTimeoutError{
		DeploymentID: id,
		Ready:        ready,
		Total:        total,
		Timeout:      d.timeout,
	}
}
