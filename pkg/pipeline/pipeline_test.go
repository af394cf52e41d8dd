package pipeline

import (
	"context"
	"testing"

	"github.com/DeganAI/Autonate/pkg/internal/testoutput"
	"github.com/DeganAI/Autonate/pkg/rollback"
	"github.com/pkg/errors"
	"gotest.tools/assert"
)

// fakeComponents records every call and fails the stage named by fail.
type fakeComponents struct {
	fail  string
	calls []string
	waits []string
}

func (f *fakeComponents) step(name string) error {
	f.calls = append(f.calls, name)
	if name == f.fail {
		return errors.Errorf("%s broke", name)
	}
	return nil
}

func (f *fakeComponents) Validate(context.Context) error { return f.step(StageValidate) }
func (f *fakeComponents) Build(context.Context) error    { return f.step(StageBuild) }
func (f *fakeComponents) Publish(context.Context) error  { return f.step(StagePublish) }
func (f *fakeComponents) Verify(context.Context) error   { return f.step(StageVerify) }
func (f *fakeComponents) Run(context.Context) error      { return f.step(StageSmokeTest) }

func (f *fakeComponents) Submit(context.Context) (string, error) {
	if err := f.step(StageDeploy); err != nil {
		return "", err
	}
	return "org-42", nil
}

func (f *fakeComponents) WaitForAgents(_ context.Context, id string) error {
	f.waits = append(f.waits, id)
	return f.step(StageWait)
}

func (f *fakeComponents) components() Components {
	return Components{
		Validator: f,
		Builder:   f,
		Publisher: f,
		Deployer:  f,
		Verifier:  f,
		Smoke:     f,
	}
}

type countingHook struct {
	failures []rollback.Failure
	err      error
}

func (h *countingHook) Rollback(_ context.Context, f rollback.Failure) error {
	h.failures = append(h.failures, f)
	return h.err
}

var allStages = []string{
	StageValidate, StageBuild, StagePublish, StageDeploy,
	StageWait, StageVerify, StageSmokeTest,
}

func TestStageOrder(t *testing.T) {
	f := &fakeComponents{}
	p := New(testoutput.Logger(t, "pipeline"), "autonate-1", nil, f.components().Stages()...)
	assert.DeepEqual(t, p.Names(), allStages)
}

func TestSuccessSkipsRollback(t *testing.T) {
	f := &fakeComponents{}
	hook := &countingHook{}
	p := New(testoutput.Logger(t, "pipeline"), "autonate-1", hook, f.components().Stages()...)

	state, err := p.Run(context.Background())
	assert.NilError(t, err)
	assert.DeepEqual(t, f.calls, allStages)
	assert.DeepEqual(t, f.waits, []string{"org-42"})
	assert.Equal(t, state.OrganizationID, "org-42")
	assert.Equal(t, len(hook.failures), 0)
}

func TestFailureStopsAndRollsBackOnce(t *testing.T) {
	for i, stage := range allStages {
		t.Run(stage, func(t *testing.T) {
			f := &fakeComponents{fail: stage}
			hook := &countingHook{}
			p := New(testoutput.Logger(t, "pipeline"), "autonate-1", hook, f.components().Stages()...)

			_, err := p.Run(context.Background())
			assert.Error(t, err, stage+" broke")
			assert.DeepEqual(t, f.calls, allStages[:i+1])
			assert.Equal(t, len(hook.failures), 1)

			got := hook.failures[0]
			assert.Equal(t, got.Stage, stage)
			assert.Equal(t, string(got.DeploymentID), "autonate-1")
			assert.Equal(t, got.Err, err)
			if i > 3 {
				assert.Equal(t, got.OrganizationID, "org-42")
			} else {
				assert.Equal(t, got.OrganizationID, "")
			}
		})
	}
}

func TestRollbackErrorKeepsOriginal(t *testing.T) {
	f := &fakeComponents{fail: StageBuild}
	hook := &countingHook{err: errors.New("rollback exploded")}
	p := New(testoutput.Logger(t, "pipeline"), "autonate-1", hook, f.components().Stages()...)

	_, err := p.Run(context.Background())
	assert.Error(t, err, "build broke")
	assert.Equal(t, len(hook.failures), 1)
}

func TestCancelledContext(t *testing.T) {
	f := &fakeComponents{}
	hook := &countingHook{}
	p := New(testoutput.Logger(t, "pipeline"), "autonate-1", hook, f.components().Stages()...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx)
	assert.Assert(t, errors.Is(err, context.Canceled))
	assert.Equal(t, len(f.calls), 0)
	assert.Equal(t, len(hook.failures), 1)
	assert.Equal(t, hook.failures[0].Stage, StageValidate)
}
