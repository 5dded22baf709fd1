package testutil

import (
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func init() {
	var isVerbose bool
	for _, arg := range os.Args {
		if arg == "-test.v" || arg == "-test.v=true" {
			isVerbose = true
		}
	}

	logrus.SetLevel(logrus.TraceLevel)

	if !isVerbose {
		logrus.StandardLogger().Out = io.Discard
	}
}

// CaptureLogs records every entry written to the standard logger until the
// test completes.
func CaptureLogs(t *testing.T) *test.Hook {
	logger := logrus.StandardLogger()
	hook := new(test.Hook)

	original := logger.ReplaceHooks(make(logrus.LevelHooks))
	hooks := make(logrus.LevelHooks)
	for level, levelHooks := range original {
		hooks[level] = append(hooks[level], levelHooks...)
	}
	hooks.Add(hook)
	logger.ReplaceHooks(hooks)

	t.Cleanup(func() {
		logger.ReplaceHooks(original)
	})

	return hook
}
