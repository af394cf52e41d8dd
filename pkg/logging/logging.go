package logging

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Setter adjusts the root logger. Setters are applied under the root lock.
type Setter func(*logrus.Logger) error

var root = struct {
	logger *logrus.Logger
	mutex  *sync.Mutex
}{
	logger: func() *logrus.Logger {
		l := logrus.New()

		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})

		return l
	}(),
	mutex: &sync.Mutex{},
}

// Logger is the logger handed to every component. WriterLevel is used to
// stream the output of external tools into the log.
type Logger interface {
	logrus.FieldLogger

	Writer() *io.PipeWriter
	WriterLevel(logrus.Level) *io.PipeWriter
}

// New returns a logger tagged with the given component name.
func New(component string, setters ...Setter) Logger {
	for _, setter := range setters {
		if err := Set(setter); err != nil {
			root.logger.WithError(err).Warn("unable to apply logging setter")
		}
	}
	return root.logger.WithField("component", component)
}

func Set(setter Setter) error {
	root.mutex.Lock()
	err := setter(root.logger)
	root.mutex.Unlock()
	return err
}

// Level parses lvl, falling back to debug when it can't be parsed.
func Level(lvl string) Setter {
	l, err := logrus.ParseLevel(lvl)
	if err != nil {
		root.logger.WithError(err).Errorf("unable to parse provided level %q", lvl)
		l = logrus.DebugLevel
	}
	return func(r *logrus.Logger) error {
		r.SetLevel(l)
		return nil
	}
}

// Output sends all log lines to w.
func Output(w io.Writer) Setter {
	return func(r *logrus.Logger) error {
		r.SetOutput(w)
		return nil
	}
}

// Format selects the line format, either "text" or "json".
func Format(name string) Setter {
	return func(r *logrus.Logger) error {
		switch name {
		case "", "text":
			r.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		case "json":
			r.SetFormatter(&logrus.JSONFormatter{})
		default:
			return &unknownFormatError{name}
		}
		return nil
	}
}

type unknownFormatError struct {
	name string
}

func (e *unknownFormatError) Error() string {
	return "unknown log format " + e.name
}
