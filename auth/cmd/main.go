package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	httphandler "github.com/vaibhavisno-one/movierating/auth/internal/handler/http"
	"github.com/vaibhavisno-one/movierating/auth/internal/repository/memory"
	"github.com/vaibhavisno-one/movierating/auth/internal/repository/mysql"
	"github.com/vaibhavisno-one/movierating/pkg/discovery"
	"github.com/vaibhavisno-one/movierating/pkg/discovery/consul"
)

const serviceName = "auth"

type config struct {
	API struct {
		Port int `yaml:"port"`
	} `yaml:"api"`
	ServiceDiscovery struct {
		Consul struct {
			Address string `yaml:"address"`
		} `yaml:"consul"`
	} `yaml:"serviceDiscovery"`
	MySQL struct {
		DSN string `yaml:"dsn"`
	} `yaml:"mysql"`
	Token struct {
		SecretEnv string `yaml:"secretEnv"`
	} `yaml:"token"`
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	f, err := os.Open("configs/auth.yaml")
	if err != nil {
		logger.Fatal("Failed to open configuration", zap.Error(err))
	}
	var cfg config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		logger.Fatal("Failed to parse configuration", zap.Error(err))
	}
	f.Close()
	port := cfg.API.Port
	logger.Info("Starting the auth service", zap.Int("port", port))

	secret := []byte(os.Getenv(cfg.Token.SecretEnv))
	if len(secret) == 0 {
		logger.Fatal("Token signing secret is not set", zap.String("env", cfg.Token.SecretEnv))
	}

	registry, err := consul.NewRegistry(cfg.ServiceDiscovery.Consul.Address)
	if err != nil {
		logger.Fatal("Failed to init service registry", zap.Error(err))
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
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

	var h *httphandler.Handler
	if cfg.MySQL.DSN != "" {
		repo, err := mysql.New(cfg.MySQL.DSN)
		if err != nil {
			logger.Fatal("Failed to init the user repository", zap.Error(err))
		}
		h = httphandler.New(repo, func() []byte { return secret }, logger)
	} else {
		h = httphandler.New(memory.New(), func() []byte { return secret }, logger)
	}

	mux := http.NewServeMux()
	h.Register(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("localhost:%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Failed to serve HTTP", zap.Error(err))
	}
}
