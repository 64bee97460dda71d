package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"foodgram/cmd/config"
	"foodgram/internal/utils"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "migrate the database before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := connect(serveMigrate)
	if err != nil {
		return err
	}

	app, err := config.NewApp(ctx, db)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorw("shutdown failed", "error", err)
		}
	}()

	return app.Listen(":" + utils.GetConfig("APP_PORT"))
}
