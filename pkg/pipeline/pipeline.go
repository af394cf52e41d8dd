// Package pipeline runs the deployment stages in order and hands the
// first failure to the rollback hook.
package pipeline

import (
	"context"

	"github.com/DeganAI/Autonate/pkg/deployid"
	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/DeganAI/Autonate/pkg/rollback"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Stage names, in run order.
const (
	StageValidate  = "validate"
	StageBuild     = "build"
	StagePublish   = "publish"
	StageDeploy    = "deploy"
	StageWait      = "wait"
	StageVerify    = "verify"
	StageSmokeTest = "smoke-test"
)

// State is shared by the stages of one run.
type State struct {
	DeploymentID   deployid.ID
	OrganizationID string
}

// Stage is one named step of a run.
type Stage struct {
	Name string
	Run  func(ctx context.Context, s *State) error
}

type Pipeline struct {
	log    logging.Logger
	id     deployid.ID
	hook   rollback.Hook
	stages []Stage
}

// New returns a pipeline for deployment id. hook may be nil.
func New(log logging.Logger, id deployid.ID, hook rollback.Hook, stages ...Stage) *Pipeline {
	if hook != nil {
		hook = rollback.Once(hook)
	}
	return &Pipeline{log: log, id: id, hook: hook, stages: stages}
}

// Names lists the stage names in run order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name)
	}
	return names
}

// Run executes the stages sequentially. The first error stops the run,
// is passed to the rollback hook, and is returned unchanged. A failing
// hook is logged only.
func (p *Pipeline) Run(ctx context.Context) (*State, error) {
	state := &State{DeploymentID: p.id}
	log := p.log.WithField("deployment", p.id)
	log.Info("starting deployment")

	for _, stage := range p.stages {
		stageLog := log.WithField("stage", stage.Name)
		stageLog.Debug("running stage")
		if err := ctx.Err(); err != nil {
			err = errors.Wrapf(err, "%s", stage.Name)
			p.fail(ctx, stageLog, state, stage.Name, err)
			return state, err
		}
		if err := stage.Run(ctx, state); err != nil {
			p.fail(ctx, stageLog, state, stage.Name, err)
			return state, err
		}
	}

	log.WithFields(logrus.Fields{
		"organization": state.OrganizationID,
	}).Info("deployment complete")
	return state, nil
}

func (p *Pipeline) fail(ctx context.Context, log logrus.FieldLogger, state *State, stage string, err error) {
	log.WithError(err).Error("stage failed")
	if p.hook == nil {
		return
	}
	f := rollback.Failure{
		DeploymentID:   state.DeploymentID,
		Stage:          stage,
		OrganizationID: state.OrganizationID,
		Err:            err,
	}
	// The run context may already be cancelled; rollback still runs.
	if herr := p.hook.Rollback(context.WithoutCancel(ctx), f); herr != nil {
		log.WithError(herr).Warn("rollback failed")
	}
}
