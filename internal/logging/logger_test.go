package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/2beens/fittracker/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestGetLevel(t *testing.T) {
	for level, expected := range map[string]logrus.Level{
		"trace":   logrus.TraceLevel,
		"DEBUG":   logrus.DebugLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"panic":   logrus.PanicLevel,
		"info":    logrus.InfoLevel,
		"":        logrus.InfoLevel,
		"loud":    logrus.InfoLevel,
	} {
		assert.Equal(t, expected, GetLevel(level), level)
	}
}

func TestOutputFor(t *testing.T) {
	out, closer := outputFor(LoggerSetupParams{})
	assert.Equal(t, os.Stdout, out)
	assert.Nil(t, closer)

	logPath := filepath.Join(t.TempDir(), "client")
	out, closer = outputFor(LoggerSetupParams{LogFileName: logPath})
	fileLogger, ok := out.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, logPath+".log", fileLogger.Filename)
	assert.NotNil(t, closer)

	out, closer = outputFor(LoggerSetupParams{LogFileName: logPath + ".log", LogToStdout: true})
	combined, ok := out.(*pkg.CombinedWriter)
	require.True(t, ok)
	assert.Len(t, combined.Writers, 2)

	_, err := out.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	written, err := os.ReadFile(logPath + ".log")
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(written))
}

func newCapturingHub(t *testing.T) (*sentry.Hub, *[]*sentry.Event) {
	t.Helper()
	var events []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, event)
			return nil
		},
	})
	require.NoError(t, err)
	return sentry.NewHub(client, sentry.NewScope()), &events
}

func TestSentryHook_Fire(t *testing.T) {
	hub, events := newCapturingHub(t)
	hook := newSentryHook([]logrus.Level{logrus.ErrorLevel}, hub)
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	logger := logrus.New()
	logger.SetOutput(&discard{})
	logger.AddHook(hook)

	logger.WithField("operation", "create").Error("create workout failed")
	logger.WithError(errors.New("connection refused")).Error("fetch failed")
	logger.Warn("not forwarded")

	require.Len(t, *events, 2)
	first := (*events)[0]
	assert.Equal(t, "create workout failed", first.Message)
	assert.Equal(t, sentry.LevelError, first.Level)
	assert.Equal(t, "create", first.Extra["operation"])

	second := (*events)[1]
	require.NotEmpty(t, second.Exception)
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.FatalLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelInfo, sentryLevel(logrus.InfoLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))
}

type discard struct{}

func (d *discard) Write(p []byte) (int, error) {
	return len(p), nil
}
