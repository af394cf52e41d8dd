// Package sigcontext ties a context's lifetime to process signals.
package sigcontext

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/DeganAI/Autonate/pkg/logging"
)

// WithSignalCancel returns a context that is cancelled on the first of sigs.
// The received signal is logged so an aborted deployment can be told apart
// from a failed one. The returned cancel must be called to release the
// signal handler; after it runs a repeated signal falls back to the Go
// runtime's default handling.
func WithSignalCancel(ctx context.Context, log logging.Logger, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	sigctx, ctxcancel := context.WithCancel(ctx)

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, sigs...)

	var once sync.Once
	cancel := func() {
		ctxcancel()
		once.Do(func() {
			signal.Stop(sigchan)
		})
	}

	go func() {
		select {
		case <-sigctx.Done():
		case sig := <-sigchan:
			if log != nil {
				log.WithField("signal", sig.String()).Warn("received signal, aborting deployment")
			}
			cancel()
		}
	}()

	return sigctx, cancel
}
