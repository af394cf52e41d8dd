package main

import (
	"io"
	"io/ioutil"

	"github.com/DeganAI/Autonate/pkg/logging"
	"github.com/sirupsen/logrus"
)

// levelSplitHook writes entries of the matched levels to output.
type levelSplitHook struct {
	output io.Writer
	levels []logrus.Level
}

func (hook *levelSplitHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Bytes()
	if err != nil {
		return err
	}
	_, err = hook.output.Write(line)
	return err
}

func (hook *levelSplitHook) Levels() []logrus.Level {
	return hook.levels
}

// splitOutput sends progress to stdout and problems to stderr. Hooks from
// an earlier call are replaced.
func splitOutput(stdout, stderr io.Writer) logging.Setter {
	return func(l *logrus.Logger) error {
		l.SetOutput(ioutil.Discard)
		l.ReplaceHooks(make(logrus.LevelHooks))
		l.AddHook(&levelSplitHook{stdout, []logrus.Level{
			logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel}})
		l.AddHook(&levelSplitHook{stderr, []logrus.Level{
			logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}})
		return nil
	}
}
