package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/database"
	"inventory-backend/internal/events"
	"inventory-backend/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return err
		}

		var pub events.Publisher = events.Nop{}
		rdb, err := events.Connect(cmd.Context(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, change events disabled")
		} else if rdb != nil {
			defer rdb.Close()
			pub = events.NewRedisPublisher(rdb, log)
		}

		app := server.New(server.Deps{
			DB:             db,
			Log:            log,
			Tokens:         auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
			Events:         pub,
			AllowedOrigins: cfg.AllowedOrigins(),
		})

		errCh := make(chan error, 1)
		go func() {
			log.WithField("port", cfg.HTTPPort).Info("http server listening")
			errCh <- app.Listen(":" + cfg.HTTPPort)
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			log.WithField("signal", sig.String()).Info("shutting down")
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(ctx)
	},
}
