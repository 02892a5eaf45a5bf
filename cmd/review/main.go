// Command review runs a flashcard review session in the terminal. It talks to
// the API when it is reachable and keeps working from the local mirror when
// it is not.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrewpaige1/nodebook-graph/appstate"
	"github.com/andrewpaige1/nodebook-graph/client"
	"github.com/andrewpaige1/nodebook-graph/config"
	"github.com/andrewpaige1/nodebook-graph/mirror"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/repository"
	"github.com/andrewpaige1/nodebook-graph/review"
)

type options struct {
	conceptID   uint
	dueOnly     bool
	metricsAddr string
}

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code once every deferred cleanup has run.
func realMain() int {
	conceptID := flag.Uint("concept", 0, "study every card of this concept instead of the due cards")
	dueOnly := flag.Bool("due-only", false, "do not fall back to all cards when nothing is due")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address while studying")
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "path to config.yaml")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Warning: .env file could not be loaded: %v", err)
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Printf("failed to load configuration: %v", err)
		return 1
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{conceptID: uint(*conceptID), dueOnly: *dueOnly, metricsAddr: *metricsAddr}
	if err := run(ctx, cfg, logger, opts); err != nil {
		logger.Error("review failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, o options) error {
	reg := prometheus.NewRegistry()
	if o.metricsAddr != "" {
		srv, err := serveMetrics(o.metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer srv.close()
	}

	api := client.New(cfg.Client.APIBaseURL,
		client.WithTimeouts(cfg.Client.Timeout, cfg.Client.LLMTimeout),
		client.WithLogger(logger),
	)
	store, err := mirror.Open(cfg.Client.MirrorPath)
	if err != nil {
		return err
	}
	defer store.Close()

	repo := repository.New(api, mirror.NewLocal(store, mirror.WithLogger(logger)),
		repository.WithLogger(logger),
		repository.WithRegisterer(reg),
		repository.WithLLM(api),
	)

	state := appstate.NewStore(appstate.Initial())
	health, err := repo.Health(ctx)
	if err != nil {
		return err
	}
	state.Dispatch(appstate.SetLLMStatus{Status: health.Status, CheckedAt: time.Now()})

	opts := []review.Option{review.WithLogger(logger), review.WithMetrics(review.NewMetrics(reg))}
	if o.dueOnly {
		opts = append(opts, review.WithPolicy(review.DueOnly))
	}
	session, err := review.NewSession(repo, opts...)
	if err != nil {
		return err
	}

	state.Dispatch(appstate.StartLearningSession{ConceptID: o.conceptID, At: time.Now()})
	defer state.Dispatch(appstate.EndLearningSession{})

	if err := session.Load(ctx, o.conceptID); err != nil {
		logger.Warn("review session failed to load", zap.String("session_id", session.ID()), zap.Error(err))
	}

	if state.State().LLMStatus != models.LLMOnline {
		fmt.Println("Tutor is offline, explanations are placeholders.")
	}
	return newStudy(session, repo, repo, os.Stdin, os.Stdout).run(ctx)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}
