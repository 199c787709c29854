package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/isdelr/users-api/internal/api"
	"github.com/isdelr/users-api/internal/catalog"
	"github.com/isdelr/users-api/internal/config"
	"github.com/isdelr/users-api/internal/logger"
	"github.com/isdelr/users-api/internal/services"
	"github.com/isdelr/users-api/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "users-api",
	Short:        "CRUD API for user records stored in a JSON file",
	Version:      version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		// Load configuration; explicitly set flags win over file and env
		cfg, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}

		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		return run(cfg)
	},
}

func init() {
	rootCmd.Flags().StringP("config", "c", "", "path to a YAML config file")
	rootCmd.Flags().IntP("port", "p", 3000, "port to listen on")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// Startup aborts without a usable error catalog
	errs, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Errors file is broken. Please fix it and restart the application")
	}

	// Set up user storage
	store := storage.New(cfg.Storage.UsersFile)
	if err := store.Init(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.UsersFile).Msg("Failed to initialize users file")
	}

	// Set up services
	userService := services.NewUserService(store)

	// Set up router
	router := api.NewRouter(userService, errs, api.RouterOptions{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		DefaultListLimit: cfg.Users.DefaultLimit,
	})

	// Set up server
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("users_file", store.Path()).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exiting")
	return nil
}
