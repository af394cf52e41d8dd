package rollback

import (
	"context"
	"sync"
	"testing"

	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/docker"
	"github.com/DeganAI/Autonate/pkg/docker/dockertest"
	"github.com/DeganAI/Autonate/pkg/internal/testoutput"
	"github.com/pkg/errors"
	"gotest.tools/assert"
)

func failure() Failure {
	return Failure{DeploymentID: "autonate-1", Stage: "deploy", Err: errors.New("quota exceeded")}
}

func TestOnceCallsHookOnce(t *testing.T) {
	var calls int
	var mu sync.Mutex
	h := Once(HookFunc(func(context.Context, Failure) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return errors.New("teardown refused")
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Check(t, h.Rollback(context.Background(), failure()) != nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, calls, 1)
}

func TestChainRunsAll(t *testing.T) {
	var order []string
	record := func(name string, err error) Hook {
		return HookFunc(func(context.Context, Failure) error {
			order = append(order, name)
			return err
		})
	}
	c := Chain{
		&Logging{Log: testoutput.Logger(t, "rollback")},
		record("a", errors.New("a failed")),
		nil,
		record("b", errors.New("b failed")),
	}

	err := c.Rollback(context.Background(), failure())
	assert.Error(t, err, "a failed")
	assert.DeepEqual(t, order, []string{"a", "b"})
}

func TestPruneImages(t *testing.T) {
	rec := &dockertest.Recorder{}
	p := &PruneImages{
		Log:      testoutput.Logger(t, "rollback"),
		Tool:     docker.New(rec, ""),
		Agents:   agents.New(agents.AutonatePrime, agents.RouteOracle),
		Org:      "autonate",
		Registry: "autonate-liberation.compute3.ai",
	}

	assert.NilError(t, p.Rollback(context.Background(), failure()))
	calls := rec.Calls()
	assert.Equal(t, len(calls), 1)
	assert.DeepEqual(t, calls[0].Args, []string{
		"rmi", "--force",
		"autonate/autonate-prime:autonate-1",
		"autonate-liberation.compute3.ai/autonate-prime:autonate-1",
		"autonate/route-oracle:autonate-1",
		"autonate-liberation.compute3.ai/route-oracle:autonate-1",
	})
}

func TestPruneImagesToolFailure(t *testing.T) {
	rec := &dockertest.Recorder{Fail: func([]string) error { return errors.New("exit status 1") }}
	p := &PruneImages{
		Log:    testoutput.Logger(t, "rollback"),
		Tool:   docker.New(rec, ""),
		Agents: agents.Autonate(),
		Org:    "autonate",
	}
	err := p.Rollback(context.Background(), failure())
	assert.ErrorContains(t, err, "prune images")
	assert.Equal(t, len(rec.Calls()[0].Args), 2+agents.Autonate().Len())
}
