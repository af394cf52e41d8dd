// Package build materializes one build context per agent and builds its
// image.
package build

import (
	"context"
	"os"
	"path/filepath"

	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/deployid"
	"github.com/DeganAI/Autonate/pkg/errdefs"
	"github.com/DeganAI/Autonate/pkg/image"
	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/pkg/errors"
)

// Tool builds an image from a context directory.
type Tool interface {
	Build(ctx context.Context, tag, dir string) error
}

type Builder struct {
	log    logging.Logger
	tool   Tool
	agents agents.Registry
	root   string
	org    string
	id     deployid.ID
}

// New returns a Builder writing build contexts under root and tagging
// images <org>/<agent>:<id>.
func New(log logging.Logger, tool Tool, registry agents.Registry, root, org string, id deployid.ID) *Builder {
	return &Builder{
		log:    log,
		tool:   tool,
		agents: registry,
		root:   root,
		org:    org,
		id:     id,
	}
}

// ContextDir is the build context of agent.
func (b *Builder) ContextDir(agent agents.ID) string {
	return filepath.Join(b.root, agent.String())
}

// Build builds every agent in registry order, stopping at the first
// failure.
func (b *Builder) Build(ctx context.Context) error {
	b.log.WithField("count", b.agents.Len()).Info("building agent containers")
	for _, agent := range b.agents.IDs() {
		if err := b.buildOne(ctx, agent); err != nil {
			return &errdefs.BuildError{Agent: agent.String(), Err: err}
		}
	}
	b.log.Info("all agent containers built")
	return nil
}

func (b *Builder) buildOne(ctx context.Context, agent agents.ID) error {
	log := b.log.WithField("agent", agent)
	log.Info("building")

	ref, err := image.Local(b.org, agent, b.id)
	if err != nil {
		return err
	}

	descriptor, err := Descriptor(agent)
	if err != nil {
		return err
	}
	dir := b.ContextDir(agent)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create build context")
	}
	path := filepath.Join(dir, DescriptorName)
	if err := os.WriteFile(path, descriptor, 0o644); err != nil {
		return errors.Wrap(err, "write build descriptor")
	}
	log.WithField("path", path).Debug("wrote build descriptor")

	if err := b.tool.Build(ctx, ref.String(), dir); err != nil {
		return errors.WithMessage(err, "image build failed")
	}
	log.WithField("ref", ref.String()).Info("built")
	return nil
}
