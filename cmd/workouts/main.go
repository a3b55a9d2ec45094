package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/fittracker/internal/config"
	"github.com/2beens/fittracker/internal/fitnessapi"
	"github.com/2beens/fittracker/internal/logging"
	"github.com/2beens/fittracker/internal/store"
	"github.com/2beens/fittracker/internal/telemetry/metrics"
	"github.com/2beens/fittracker/internal/telemetry/tracing"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const usageText = `usage: workouts [-env dev|prod] [-config path] [-metrics] <command> [flags]

commands:
  list     [-type T] [-from ISO] [-to ISO]
  get      -id ID
  add      -type T -duration MIN -calories KCAL [-notes TEXT] [-date ISO]
  update   -id ID [-type T] [-duration MIN] [-calories KCAL] [-notes TEXT] [-date ISO]
  delete   -id ID
  summary  [-range week|month|3months|year]
  stats    [-range week|month|3months|year]
`

func main() {
	os.Exit(run())
}

func run() int {
	envFileErr := godotenv.Load()

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	showMetrics := flag.Bool("metrics", false, "print client metrics to stderr when done")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %s\n", err)
		return 1
	}

	flushLogs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "workouts-cli",
	})
	defer flushLogs()

	if envFileErr != nil {
		log.Tracef("no .env file loaded: %s", envFileErr)
	}
	log.Debugf("running in [%s] environment, api: %s", cfg.Environment, cfg.ApiBaseURL)

	tracingShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, "workouts-cli")
	if err != nil {
		log.Errorf("honeycomb setup: %s", err)
		tracingShutdown = func() {}
	}
	defer tracingShutdown()

	registry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager(cfg.MetricsNamespace, "client", registry)

	var apiOpts []fitnessapi.Option
	if cfg.FullCreateBody {
		apiOpts = append(apiOpts, fitnessapi.WithFullCreateBody())
	}
	api := fitnessapi.NewApi(cfg.ApiBaseURL, fitnessapi.NewTracedHTTPClient(), metricsManager, apiOpts...)

	storeOpts := []store.Option{store.WithMetrics(metricsManager)}
	if cfg.DiscardStaleFetches {
		storeOpts = append(storeOpts, store.WithStaleFetchDiscard())
	}
	workoutsStore := store.New(api, storeOpts...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	storeCtx, stopStore := context.WithCancel(context.Background())
	storeStopped := make(chan struct{})
	go func() {
		defer close(storeStopped)
		if err := workoutsStore.Run(storeCtx); err != nil {
			log.Errorf("workout store: %s", err)
		}
	}()
	defer func() {
		stopStore()
		<-storeStopped
	}()

	updates, unsubscribe := workoutsStore.Subscribe()
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		for state := range updates {
			log.Debugf("store: loading=%t workouts=%d error=%q", state.IsLoading, len(state.Workouts), state.ErrorText())
		}
	}()
	defer func() {
		unsubscribe()
		<-watcherDone
	}()

	a := &app{
		store:  workoutsStore,
		api:    api,
		user:   cfg.User,
		out:    os.Stdout,
		errOut: os.Stderr,
		now:    time.Now,
	}

	err = a.run(ctx, flag.Args())

	if *showMetrics {
		if dumpErr := metrics.Dump(os.Stderr, registry, cfg.MetricsNamespace+"_"); dumpErr != nil {
			log.Errorf("dump metrics: %s", dumpErr)
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		return 2
	default:
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return 1
	}
}
