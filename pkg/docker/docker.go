// Package docker drives the docker CLI. Only the exit status of each
// invocation is consulted; output is streamed into the log.
package docker

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Command is one external tool invocation.
type Command struct {
	Name string
	Args []string
	// Stdin, when set, is fed to the process. Secrets travel here rather
	// than in Args so they never show up in logs or process listings.
	Stdin io.Reader
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes a Command and reports a non-zero exit as an error.
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// Exec runs commands on the host.
type Exec struct {
	Log logging.Logger
}

func (e *Exec) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = c.Stdin

	out := e.Log.WithField("cmd", c.Name).WriterLevel(logrus.InfoLevel)
	defer out.Close()
	cmd.Stdout = out
	cmd.Stderr = out

	if logging.Debuggable {
		e.Log.WithField("cmd", c.String()).Debug("executing")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "start %s", c.Name)
	}
	if err := cmd.Wait(); err != nil {
		return errors.Wrapf(err, "%s", c)
	}

	if logging.Debuggable {
		e.Log.WithField("cmd", c.String()).Debug("command completed successfully")
	}
	return nil
}

// DefaultBinary is the docker CLI looked up on PATH.
const DefaultBinary = "docker"

// Tool issues docker build, tag, push, login and rmi commands.
type Tool struct {
	runner Runner
	bin    string
}

// New returns a Tool running bin through r. An empty bin means
// DefaultBinary.
func New(r Runner, bin string) *Tool {
	if bin == "" {
		bin = DefaultBinary
	}
	return &Tool{runner: r, bin: bin}
}

func (t *Tool) run(ctx context.Context, stdin io.Reader, args ...string) error {
	return t.runner.Run(ctx, Command{Name: t.bin, Args: args, Stdin: stdin})
}

// Build builds the context directory dir into an image tagged tag.
func (t *Tool) Build(ctx context.Context, tag, dir string) error {
	return t.run(ctx, nil, "build", "-t", tag, dir)
}

// Tag adds the reference dst to the local image src.
func (t *Tool) Tag(ctx context.Context, src, dst string) error {
	return t.run(ctx, nil, "tag", src, dst)
}

// Push uploads ref to its registry.
func (t *Tool) Push(ctx context.Context, ref string) error {
	return t.run(ctx, nil, "push", ref)
}

// Login authenticates against registry, passing token on stdin.
func (t *Tool) Login(ctx context.Context, registry, user, token string) error {
	return t.run(ctx, strings.NewReader(token), "login", registry, "-u", user, "--password-stdin")
}

// RemoveImages untags and removes the given local references.
func (t *Tool) RemoveImages(ctx context.Context, refs ...string) error {
	if len(refs) == 0 {
		return nil
	}
	return t.run(ctx, nil, append([]string{"rmi", "--force"}, refs...)...)
}
