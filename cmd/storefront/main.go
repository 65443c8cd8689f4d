package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/logging"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	local, err := storage.Open(cfg.StoragePath)
	if err != nil {
		log.Fatalf("local storage init: %v", err)
	}
	defer local.Close()

	client := api.NewClient(cfg.APIBaseURL)

	bootCtx := logging.IntoContext(context.Background(), logger)
	sessionStore := session.New(bootCtx, client, local)
	cartStore := cart.New(bootCtx, local)

	initCtx, cancel := context.WithTimeout(bootCtx, 10*time.Second)
	sessionStore.Bootstrap(initCtx)
	cancel()

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Auth:     &httpserver.AuthHTTP{Session: sessionStore},
		Products: &httpserver.ProductsHTTP{Client: client},
		Cart:     &httpserver.CartHTTP{Cart: cartStore},
		Session:  sessionStore,
		Guard:    guard.Default(),
	})

	go func() {
		logger.Info("starting storefront", "port", cfg.ServerPort, "backend", cfg.APIBaseURL)
		if err := e.Start(":" + strconv.Itoa(cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
}
