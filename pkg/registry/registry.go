// Package registry publishes the built agent images to the workspace
// registry.
package registry

import (
	"context"

	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/deployid"
	"github.com/DeganAI/Autonate/pkg/errdefs"
	"github.com/DeganAI/Autonate/pkg/image"
	"github.com/DeganAI/Autonate/pkg/logging"
)

// TokenUser is the login name used for token authentication.
const TokenUser = "_token"

// Tool is the subset of the docker CLI the publisher drives.
type Tool interface {
	Login(ctx context.Context, registry, user, token string) error
	Tag(ctx context.Context, src, dst string) error
	Push(ctx context.Context, ref string) error
}

type Publisher struct {
	log      logging.Logger
	tool     Tool
	agents   agents.Registry
	registry string
	token    string
	org      string
	id       deployid.ID
}

func New(log logging.Logger, tool Tool, registry agents.Registry, host, token, org string, id deployid.ID) *Publisher {
	return &Publisher{
		log:      log,
		tool:     tool,
		agents:   registry,
		registry: host,
		token:    token,
		org:      org,
		id:       id,
	}
}

// Publish logs in once, then tags and pushes every agent in registry order.
// The first failure aborts the remaining agents.
func (p *Publisher) Publish(ctx context.Context) error {
	log := p.log.WithField("registry", p.registry)
	log.Info("logging in to registry")
	if err := p.tool.Login(ctx, p.registry, TokenUser, p.token); err != nil {
		return &errdefs.PublishError{Registry: p.registry, Err: err}
	}

	for _, agent := range p.agents.IDs() {
		local, err := image.Local(p.org, agent, p.id)
		if err != nil {
			return &errdefs.PublishError{Registry: p.registry, Agent: agent.String(), Err: err}
		}
		remote, err := image.Remote(p.registry, agent, p.id)
		if err != nil {
			return &errdefs.PublishError{Registry: p.registry, Agent: agent.String(), Err: err}
		}
		fail := func(err error) error {
			return &errdefs.PublishError{Registry: p.registry, Agent: agent.String(), Ref: remote.String(), Err: err}
		}

		if err := p.tool.Tag(ctx, local.String(), remote.String()); err != nil {
			return fail(err)
		}
		if err := p.tool.Push(ctx, remote.String()); err != nil {
			return fail(err)
		}
		log.WithField("ref", remote.String()).Info("pushed")
	}
	log.Info("all containers pushed to registry")
	return nil
}
