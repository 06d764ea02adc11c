package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"quizownik/internal/backend"
	"quizownik/internal/config"
	"quizownik/internal/gateway"
	"quizownik/internal/session"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	addr := flag.String("addr", "", "HTTP listen address (overrides QUIZOWNIK_ADDR)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	cfg.SetupLogger()

	client := backend.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.HTTPTimeout})
	sessions := session.NewStore(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	api := gateway.NewAPI(client, sessions, gateway.Options{
		AdminGuard:    cfg.AdminGuard,
		DefaultLocale: cfg.DefaultLocale,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           gateway.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logrus.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":        cfg.Addr,
		"api":         cfg.APIURL,
		"admin_guard": cfg.AdminGuard,
	}).Info("quizownik-web listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("server failed")
	}
}
