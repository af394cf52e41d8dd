// Package dockertest records docker invocations instead of running them.
package dockertest

import (
	"context"
	"io/ioutil"
	"sync"

	"github.com/DeganAI/Autonate/pkg/docker"
)

// Call is a recorded invocation with its stdin already drained.
type Call struct {
	Args  []string
	Stdin string
}

// Recorder is a docker.Runner that keeps every call. Fail, when set, decides
// the outcome of each call; a failed call is still recorded.
type Recorder struct {
	Fail func(args []string) error

	mu    sync.Mutex
	calls []Call
}

var _ docker.Runner = (*Recorder)(nil)

func (r *Recorder) Run(_ context.Context, c docker.Command) error {
	call := Call{Args: append([]string(nil), c.Args...)}
	if c.Stdin != nil {
		b, err := ioutil.ReadAll(c.Stdin)
		if err != nil {
			return err
		}
		call.Stdin = string(b)
	}
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail(call.Args)
	}
	return nil
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Subcommands returns the first argument of every call, e.g. "build".
func (r *Recorder) Subcommands() []string {
	var out []string
	for _, c := range r.Calls() {
		if len(c.Args) > 0 {
			out = append(out, c.Args[0])
		}
	}
	return out
}
