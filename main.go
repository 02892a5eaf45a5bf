package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/andrewpaige1/nodebook-graph/config"
	"github.com/andrewpaige1/nodebook-graph/handlers"
	"github.com/andrewpaige1/nodebook-graph/llm"
	"github.com/andrewpaige1/nodebook-graph/middleware"
)

func init() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Warning: .env file could not be loaded: %v", err)
	}
}

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.Connect(cfg.Database, cfg.Debug)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	tutor := llm.NewService(llm.Config{
		Endpoint: cfg.LLM.APIURL,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		Mock:     cfg.LLM.Mock,
		Timeout:  cfg.LLM.Timeout,
	}, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DBHandler := handlers.NewDBHandler(db, tutor, logger)
	mux := http.NewServeMux()
	DBHandler.Register(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// HTTP metrics stay innermost so they see the pattern the mux matched
	handler := middleware.Chain(mux,
		middleware.Recover(logger),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.NewHTTPMetrics(reg).Middleware,
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With", "Accept", "Origin", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(handler)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr), zap.String("db_driver", cfg.Database.DriverName()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
