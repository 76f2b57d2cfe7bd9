package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"eshop-storefront/internal/backend"
	"eshop-storefront/internal/client"
	"eshop-storefront/internal/config"
	"eshop-storefront/internal/mock"
	"eshop-storefront/internal/server"
	"eshop-storefront/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	tokens, err := client.NewFileTokenStore(cfg.Store.TokenFile)
	if err != nil {
		log.Fatal("token store: ", err)
	}

	var store backend.Backend
	switch cfg.Backend {
	case "mock":
		store, err = mock.NewStore(&cfg.Mock, tokens)
		if err != nil {
			log.Fatal("mock backend: ", err)
		}
		log.Println("Using embedded mock backend at", cfg.Mock.DatabasePath)
	default:
		store = client.NewStoreClient(&cfg.Store, tokens)
		log.Println("Using REST backend at", cfg.Store.BaseURL)
	}

	storefront := service.NewStorefront(store, tokens)

	initCtx, initCancel := context.WithTimeout(context.Background(), time.Minute)
	if err := storefront.Initialize(initCtx); err != nil {
		// The gateway still starts; the error slot carries the failure and
		// the catalog loads on the next successful call.
		log.Println("initialize storefront:", err)
	}
	initCancel()

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(storefront)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
