package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/docker"
	"github.com/DeganAI/Autonate/pkg/docker/dockertest"
	"github.com/DeganAI/Autonate/pkg/errdefs"
	"github.com/DeganAI/Autonate/pkg/internal/testoutput"
	"github.com/pkg/errors"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

func TestDescriptorPerAgent(t *testing.T) {
	for _, agent := range agents.Autonate().IDs() {
		t.Run(agent.String(), func(t *testing.T) {
			b, err := Descriptor(agent)
			assert.NilError(t, err)
			d := string(b)

			assert.Check(t, is.Contains(d, "ENV AGENT_ID="+agent.String()+"\n"))
			assert.Check(t, is.Contains(d, "ENV NODE_ENV=production\n"))
			assert.Check(t, is.Contains(d, "ENV LIBERATION_MODE=enabled\n"))
			assert.Check(t, is.Contains(d, "COPY ./agents/"+agent.String()+" ./agents/"+agent.String()+"\n"))
			assert.Check(t, is.Contains(d, "HEALTHCHECK --interval=30s --timeout=10s --start-period=5s --retries=3 \\\n  CMD node healthcheck.js"))
			assert.Check(t, strings.HasPrefix(d, "FROM node:20-alpine\n"))

			for _, other := range agents.Autonate().IDs() {
				if other != agent {
					assert.Check(t, !strings.Contains(d, "AGENT_ID="+other.String()+"\n"))
				}
			}
		})
	}
}

func TestBuildWritesContextsInOrder(t *testing.T) {
	root := t.TempDir()
	rec := &dockertest.Recorder{}
	b := New(testoutput.Logger(t, "build"), docker.New(rec, ""), agents.Autonate(), root, "autonate", "autonate-42")

	assert.NilError(t, b.Build(context.Background()))

	calls := rec.Calls()
	assert.Equal(t, len(calls), 6)
	for i, agent := range agents.Autonate().IDs() {
		dir := filepath.Join(root, agent.String())
		assert.DeepEqual(t, calls[i].Args, []string{"build", "-t", "autonate/" + agent.String() + ":autonate-42", dir})

		raw, err := os.ReadFile(filepath.Join(dir, "Dockerfile"))
		assert.NilError(t, err)
		assert.Check(t, is.Contains(string(raw), "ENV AGENT_ID="+agent.String()))
	}
}

func TestBuildStopsAtFirstFailure(t *testing.T) {
	root := t.TempDir()
	rec := &dockertest.Recorder{Fail: func(args []string) error {
		if strings.Contains(args[2], "route-oracle") {
			return errors.New("exit status 1")
		}
		return nil
	}}
	b := New(testoutput.Logger(t, "build"), docker.New(rec, ""), agents.Autonate(), root, "autonate", "autonate-42")

	err := b.Build(context.Background())
	var be *errdefs.BuildError
	assert.Assert(t, errors.As(err, &be))
	assert.Equal(t, be.Agent, "route-oracle")
	assert.ErrorContains(t, err, "exit status 1")

	// autonate-prime, wellness-guardian, route-oracle
	assert.Equal(t, len(rec.Calls()), 3)
	_, statErr := os.Stat(filepath.Join(root, "customer-empath"))
	assert.Assert(t, os.IsNotExist(statErr))
}

func TestBuildDescriptorWriteFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	assert.NilError(t, os.WriteFile(root, nil, 0o644))
	rec := &dockertest.Recorder{}
	b := New(testoutput.Logger(t, "build"), docker.New(rec, ""), agents.Autonate(), root, "autonate", "autonate-42")

	err := b.Build(context.Background())
	assert.Assert(t, errdefs.IsBuild(err))
	assert.ErrorContains(t, err, "build autonate-prime")
	assert.Equal(t, len(rec.Calls()), 0)
}
