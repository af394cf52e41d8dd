// Package testoutput interlaces component logs with test output.
package testoutput

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/sirupsen/logrus"
)

// New returns a writer that forwards each written line to t.Logf.
func New(t testing.TB) io.Writer {
	return &testoutput{t}
}

// Logger returns a debug level logger for component that writes into t.
func Logger(t testing.TB, component string) logging.Logger {
	l := logrus.New()
	l.SetOutput(New(t))
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l.WithField("component", component)
}

// Setter points the root logger at t. Tests using it must not run in
// parallel since the root logger is shared.
func Setter(t testing.TB) logging.Setter {
	return func(l *logrus.Logger) error {
		l.SetOutput(New(t))
		l.SetLevel(logrus.DebugLevel)
		return nil
	}
}

// Revert restores the root logger output to stderr.
func Revert() logging.Setter {
	return func(l *logrus.Logger) error {
		l.SetOutput(os.Stderr)
		l.SetLevel(logrus.InfoLevel)
		return nil
	}
}

type testoutput struct {
	t testing.TB
}

func (l *testoutput) Write(p []byte) (n int, err error) {
	l.t.Helper()
	l.t.Logf("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
