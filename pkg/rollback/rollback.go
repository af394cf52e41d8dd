// Package rollback holds the actions taken once a deployment run fails.
package rollback

import (
	"context"
	"sync"

	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/deployid"
	"github.com/DeganAI/Autonate/pkg/image"
	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Failure describes a failed run as seen by the pipeline's failure
// handler.
type Failure struct {
	DeploymentID deployid.ID
	// Stage is the name of the stage that returned Err.
	Stage string
	// OrganizationID is the platform's id for the submitted organization,
	// empty when submission never succeeded.
	OrganizationID string
	Err            error
}

// Hook is called with the failure of a run.
type Hook interface {
	Rollback(ctx context.Context, f Failure) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, f Failure) error

func (fn HookFunc) Rollback(ctx context.Context, f Failure) error { return fn(ctx, f) }

// Logging records the failed deployment and takes no other action.
type Logging struct {
	Log logging.Logger
}

func (l *Logging) Rollback(_ context.Context, f Failure) error {
	log := l.Log.WithFields(logrus.Fields{
		"deployment": f.DeploymentID,
		"stage":      f.Stage,
	})
	if f.OrganizationID != "" {
		log = log.WithField("organization", f.OrganizationID)
	}
	log.WithError(f.Err).Error("deployment failed, rolling back")
	return nil
}

// ImageRemover deletes local image tags.
type ImageRemover interface {
	RemoveImages(ctx context.Context, refs ...string) error
}

// PruneImages removes the local and remote tags built for the failed
// deployment. Tags that were never created are ignored by the tool.
type PruneImages struct {
	Log      logging.Logger
	Tool     ImageRemover
	Agents   agents.Registry
	Org      string
	Registry string
}

// Refs lists every tag the run may have created for id.
func (p *PruneImages) Refs(id deployid.ID) ([]string, error) {
	var refs []string
	for _, agent := range p.Agents.IDs() {
		local, err := image.Local(p.Org, agent, id)
		if err != nil {
			return nil, err
		}
		refs = append(refs, local.String())
		if p.Registry == "" {
			continue
		}
		remote, err := image.Remote(p.Registry, agent, id)
		if err != nil {
			return nil, err
		}
		refs = append(refs, remote.String())
	}
	return refs, nil
}

func (p *PruneImages) Rollback(ctx context.Context, f Failure) error {
	refs, err := p.Refs(f.DeploymentID)
	if err != nil {
		return errors.WithMessage(err, "prune images")
	}
	p.Log.WithField("count", len(refs)).Info("removing images of failed deployment")
	if err := p.Tool.RemoveImages(ctx, refs...); err != nil {
		return errors.WithMessage(err, "prune images")
	}
	return nil
}

// Chain runs every hook in order. All hooks run; the first error is
// returned.
type Chain []Hook

func (c Chain) Rollback(ctx context.Context, f Failure) error {
	var first error
	for _, h := range c {
		if h == nil {
			continue
		}
		if err := h.Rollback(ctx, f); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Once wraps a hook so that only the first call reaches it. Later calls
// return the first call's result.
func Once(h Hook) Hook {
	return &once{hook: h}
}

type once struct {
	hook Hook
	o    sync.Once
	err  error
}

func (o *once) Rollback(ctx context.Context, f Failure) error {
	o.o.Do(func() {
		o.err = o.hook.Rollback(ctx, f)
	})
	return o.err
}
