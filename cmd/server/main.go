package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/bhavisha4779/accident-relay/config"
	"github.com/bhavisha4779/accident-relay/module/accident"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		return fmt.Errorf("rabbitmq: %w", err)
	}
	if amqpConn != nil {
		defer func() { _ = amqpConn.Close() }()
	}

	accidentModule, err := accident.Build(ctx, cfg, db, amqpConn, log)
	if err != nil {
		return fmt.Errorf("accident module: %w", err)
	}
	go accidentModule.Run(ctx)

	mqttClient := config.NewMQTT(cfg, log, accidentModule.OnConnect)
	config.ConnectMQTT(mqttClient, log)
	defer mqttClient.Disconnect(250)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), config.RequestLogger(log))

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	accidentModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
