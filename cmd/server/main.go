package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	favoritescontroller "github.com/vaibhavisno-one/movierating/favorites/pkg/controller/favorites"
	favoriteshandler "github.com/vaibhavisno-one/movierating/favorites/pkg/handler/http"
	favoriteskv "github.com/vaibhavisno-one/movierating/favorites/pkg/repository/kv"
	favoritesmysql "github.com/vaibhavisno-one/movierating/favorites/pkg/repository/mysql"
	"github.com/vaibhavisno-one/movierating/internal/httputil"
	"github.com/vaibhavisno-one/movierating/internal/kvstore"
	kvfile "github.com/vaibhavisno-one/movierating/internal/kvstore/file"
	kvmemory "github.com/vaibhavisno-one/movierating/internal/kvstore/memory"
	kvredis "github.com/vaibhavisno-one/movierating/internal/kvstore/redis"
	metadatacontroller "github.com/vaibhavisno-one/movierating/metadata/pkg/controller/metadata"
	tmdbgateway "github.com/vaibhavisno-one/movierating/metadata/pkg/gateway/tmdb/http"
	metadatahandler "github.com/vaibhavisno-one/movierating/metadata/pkg/handler/http"
	metadatamemory "github.com/vaibhavisno-one/movierating/metadata/pkg/repository/memory"
	"github.com/vaibhavisno-one/movierating/pkg/discovery"
	"github.com/vaibhavisno-one/movierating/pkg/discovery/consul"
	"github.com/vaibhavisno-one/movierating/pkg/tracing"
	ratingscontroller "github.com/vaibhavisno-one/movierating/ratings/pkg/controller/ratings"
	ratingshandler "github.com/vaibhavisno-one/movierating/ratings/pkg/handler/http"
	ratingskafka "github.com/vaibhavisno-one/movierating/ratings/pkg/ingester/kafka"
	ratingskv "github.com/vaibhavisno-one/movierating/ratings/pkg/repository/kv"
	ratingsmysql "github.com/vaibhavisno-one/movierating/ratings/pkg/repository/mysql"
	authsvcgateway "github.com/vaibhavisno-one/movierating/session/pkg/gateway/authsvc"
	sessionhandler "github.com/vaibhavisno-one/movierating/session/pkg/handler/http"
	sessionstore "github.com/vaibhavisno-one/movierating/session/pkg/store"
	sessionlocal "github.com/vaibhavisno-one/movierating/session/pkg/store/local"
	sessionremote "github.com/vaibhavisno-one/movierating/session/pkg/store/remote"
)

const serviceName = "movierating"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	f, err := os.Open("configs/default.yaml")
	if err != nil {
		logger.Fatal("Failed to open configuration", zap.Error(err))
	}
	var cfg config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		logger.Fatal("Failed to parse configuration", zap.Error(err))
	}
	f.Close()
	port := cfg.API.Port
	logger.Info("Starting the movie rating service", zap.Int("port", port))

	registry, err := consul.NewRegistry(cfg.ServiceDiscovery.Consul.Address)
	if err != nil {
		logger.Fatal("Failed to init service registry", zap.Error(err))
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracer, tracerCloser, err := tracing.NewTracer(serviceName, cfg.Jaeger.Host, cfg.Jaeger.Port, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Jaeger tracer", zap.Error(err))
	}
	defer tracerCloser.Close()
	opentracing.SetGlobalTracer(tracer)
	logger.Info("Jaeger tracer initialized successfully", zap.String("service", serviceName))

	scope, scopeCloser := tally.NewRootScope(tally.ScopeOptions{Prefix: serviceName}, time.Second)
	defer scopeCloser.Close()

	instanceID := discovery.GenerateInstanceID(serviceName)
	if err := registry.Register(ctx, instanceID, serviceName, fmt.Sprintf("localhost:%d", port)); err != nil {
		logger.Fatal("Failed to register service", zap.Error(err))
	}
	go func() {
		for {
			if err := registry.ReportHealthyState(instanceID, serviceName); err != nil {
				log.Println("Failed to report healthy state: " + err.Error())
			}
			time.Sleep(1 * time.Second)
		}
	}()
	defer registry.Deregister(ctx, instanceID, serviceName)

	var ingester ratingscontroller.Ingester
	if cfg.Kafka.Address != "" {
		ingester, err = ratingskafka.New(cfg.Kafka.Address, cfg.Kafka.GroupID, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Fatal("Failed to create the rating event ingester", zap.Error(err))
		}
	}

	var favoritesCtrl *favoritescontroller.Controller
	var ratingsCtrl *ratingscontroller.Controller
	var session sessionstore.Store

	switch cfg.Storage.Backend {
	case "hosted":
		favRepo, err := favoritesmysql.New(cfg.Storage.MySQL.DSN)
		if err != nil {
			logger.Fatal("Failed to init the favorites repository", zap.Error(err))
		}
		ratRepo, err := ratingsmysql.New(cfg.Storage.MySQL.DSN)
		if err != nil {
			logger.Fatal("Failed to init the ratings repository", zap.Error(err))
		}
		favoritesCtrl = favoritescontroller.New(favRepo)
		ratingsCtrl = ratingscontroller.New(ratRepo, ingester, cfg.Moderation.Blocklist, logger)

		authGateway := authsvcgateway.New(registry, logger)
		remote := sessionremote.New(authGateway, logger)
		authGateway.OnAuthChange(remote.SetIdentity)
		session = remote
	default:
		kv, err := newLocalStore(cfg.Storage, logger)
		if err != nil {
			logger.Fatal("Failed to init the key-value store", zap.Error(err))
		}
		favoritesCtrl = favoritescontroller.New(favoriteskv.New(kv, logger))
		ratingsCtrl = ratingscontroller.New(ratingskv.New(kv, logger), ingester, cfg.Moderation.Blocklist, logger)
		session = sessionlocal.New(kv, logger)
	}

	if err := session.RestoreSession(ctx); err != nil {
		logger.Error("Failed to restore the session", zap.Error(err))
	}

	if ingester != nil {
		go func() {
			if err := ratingsCtrl.StartIngestion(ctx); err != nil {
				logger.Error("Failed to start the rating event ingestion", zap.Error(err))
			}
		}()
	}

	tmdb := tmdbgateway.New(cfg.TMDB.BaseURL, os.Getenv(cfg.TMDB.APIKeyEnv),
		rate.NewLimiter(rate.Limit(cfg.TMDB.RateLimit), cfg.TMDB.Burst))
	metadataCtrl := metadatacontroller.New(tmdb, metadatamemory.New(), logger)

	favoritesHandler := favoriteshandler.New(favoritesCtrl, logger)
	ratingsHandler := ratingshandler.New(ratingsCtrl, logger)
	metadataHandler := metadatahandler.New(metadataCtrl, logger)
	sessionHandler := sessionhandler.New(session, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/favorites", favoritesHandler.Handle)
	mux.HandleFunc("/ratings", ratingsHandler.Handle)
	mux.HandleFunc("/ratings/list", ratingsHandler.HandleList)
	metadataHandler.Register(mux)
	mux.HandleFunc("/session", sessionHandler.HandleState)
	mux.HandleFunc("/session/signin", sessionHandler.HandleSignIn)
	mux.HandleFunc("/session/signup", sessionHandler.HandleSignUp)
	mux.HandleFunc("/session/signout", sessionHandler.HandleSignOut)
	mux.HandleFunc("/session/username", sessionHandler.HandleUsername)

	const limit = 1000 // requests per second
	const burst = 1000
	limiter := rate.NewLimiter(rate.Limit(limit), burst)

	srv := &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", port),
		Handler: httputil.Metrics(scope, httputil.RateLimit(limiter, mux)),
	}

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s := <-sigChan
		logger.Info("Received signal, attempting graceful shutdown", zap.Any("signal", s))
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down the HTTP server", zap.Error(err))
		}
		logger.Info("Gracefully stopped the HTTP server")
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Failed to serve HTTP", zap.Error(err))
	}

	wg.Wait()
}

// newLocalStore picks the key-value store behind the local backend.
func newLocalStore(cfg storageConfig, logger *zap.Logger) (kvstore.Store, error) {
	switch cfg.Driver {
	case "redis":
		return kvredis.New(cfg.Redis.Address, logger)
	case "memory":
		return kvmemory.New(), nil
	default:
		return kvfile.Open(cfg.File.Path, logger)
	}
}
