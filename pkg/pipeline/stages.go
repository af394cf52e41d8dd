package pipeline

import (
	"context"
)

type Validator interface {
	Validate(ctx context.Context) error
}

type Builder interface {
	Build(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context) error
}

type Deployer interface {
	Submit(ctx context.Context) (string, error)
	WaitForAgents(ctx context.Context, id string) error
}

type Verifier interface {
	Verify(ctx context.Context) error
}

type SmokeRunner interface {
	Run(ctx context.Context) error
}

// Components are the collaborators of the standard deployment run.
type Components struct {
	Validator Validator
	Builder   Builder
	Publisher Publisher
	Deployer  Deployer
	Verifier  Verifier
	Smoke     SmokeRunner
}

// Stages returns validate, build, publish, deploy, wait, verify and
// smoke-test wired to c.
func (c Components) Stages() []Stage {
	return []Stage{
		{Name: StageValidate, Run: func(ctx context.Context, _ *State) error {
			return c.Validator.Validate(ctx)
		}},
		{Name: StageBuild, Run: func(ctx context.Context, _ *State) error {
			return c.Builder.Build(ctx)
		}},
		{Name: StagePublish, Run: func(ctx context.Context, _ *State) error {
			return c.Publisher.Publish(ctx)
		}},
		{Name: StageDeploy, Run: func(ctx context.Context, s *State) error {
			id, err := c.Deployer.Submit(ctx)
			if err != nil {
				return err
			}
			s.OrganizationID = id
			return nil
		}},
		{Name: StageWait, Run: func(ctx context.Context, s *State) error {
			return c.Deployer.WaitForAgents(ctx, s.OrganizationID)
		}},
		{Name: StageVerify, Run: func(ctx context.Context, _ *State) error {
			return c.Verifier.Verify(ctx)
		}},
		{Name: StageSmokeTest, Run: func(ctx context.Context, _ *State) error {
			return c.Smoke.Run(ctx)
		}},
	}
}
