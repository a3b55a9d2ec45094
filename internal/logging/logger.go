package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/2beens/fittracker/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
	SentryRelease    string
}

// Setup configures the global logrus logger. The returned func flushes sentry
// and closes the log file, call it before the process exits.
func Setup(params LoggerSetupParams) func() {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	sentryOn := false
	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
			Release:          params.SentryRelease,
		})
		if err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		} else {
			logrus.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			sentryOn = true
			logrus.Debugln("sentry set up successfully")
		}
	}

	out, logFile := outputFor(params)
	logrus.SetOutput(out)

	return func() {
		if sentryOn {
			ok := sentry.Flush(2 * time.Second)
			logrus.Tracef("sentry flush ok: %t", ok)
		}
		if logFile != nil {
			if err := logFile.Close(); err != nil {
				logrus.SetOutput(os.Stderr)
				logrus.Errorf("close log file: %s", err)
			}
		}
	}
}

// outputFor picks stdout, a rotating log file, or both.
func outputFor(params LoggerSetupParams) (io.Writer, io.Closer) {
	if params.LogFileName == "" {
		return os.Stdout, nil
	}

	fileName := params.LogFileName
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		LocalTime:  false, // false -> use UTC
		Compress:   true,
	}

	if params.LogToStdout {
		return pkg.NewCombinedWriter(os.Stdout, lumberJackLogger), lumberJackLogger
	}
	return lumberJackLogger, lumberJackLogger
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}
