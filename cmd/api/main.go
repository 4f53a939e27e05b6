//	@title			Filedrop API
//	@version		1.0
//	@description	Anonymous file-drop service: stream a file in, get a retrieval link and a self-contained deletion link back.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	UploadKey
//	@in							header
//	@name						Authorization
//	@description				Shared upload key, sent verbatim in the Authorization header.

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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/filedrop/service/internal/cleanup"
	"github.com/filedrop/service/internal/config"
	"github.com/filedrop/service/internal/deletion"
	appMiddleware "github.com/filedrop/service/internal/middleware"
	"github.com/filedrop/service/internal/pages"
	"github.com/filedrop/service/internal/storage"
	"github.com/filedrop/service/internal/upload"

	_ "github.com/filedrop/service/docs/swagger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "filedrop",
		Short: "Anonymous file-drop service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(cleanCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cleanCmd sweeps expired files out of the storage directory.
func cleanCmd() *cobra.Command {
	var (
		maxAge time.Duration
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stored files older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			removed, err := cleanup.Sweep(cfg.FileDir, maxAge, dryRun)
			if err != nil {
				return err
			}
			log.Printf("removed %d file(s)", removed)
			return nil
		},
	}
	cmd.Flags().DurationVarP(&maxAge, "max-age", "a", 365*24*time.Hour, "retention window")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log removal candidates without deleting")
	return cmd
}

func serve() error {
	cfg := config.Load()

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("storage init: %w", err)
	}

	keys := deletion.NewKeyring(cfg.DeletionSecret)

	// Wire dependencies: store + keyring → services → handlers
	uploadSvc := upload.NewService(store, keys, cfg.Domain)
	uploadHandler := upload.NewHandler(uploadSvc)
	deletionHandler := deletion.NewHandler(keys, store)
	pagesHandler := pages.NewHandler(store)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         3600,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Upload, gated by the shared key
	r.Route("/upload", func(r chi.Router) {
		r.Use(appMiddleware.RequireUploadKey(cfg.UploadAuthKey))
		r.Post("/", uploadHandler.Upload)
	})

	// Deletion: DELETE acts, GET serves the confirmation page
	r.Delete("/d/{filename}/{key}", deletionHandler.Delete)
	r.Get("/d/{filename}/{key}", pagesHandler.DeleteView)

	// Viewer pages and static surface
	r.Get("/a/{name}", pagesHandler.AudioView)
	r.Get("/t/{name}", pagesHandler.TextView)
	r.Get("/", pagesHandler.Index)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(pages.StaticFS())))

	// Stored-file retrieval, last so it doesn't shadow the routes above
	r.Get("/{name}", pagesHandler.File)

	r.NotFound(pagesHandler.NotFound)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Minute,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on :%s (env=%s, storage=%s)", cfg.Port, cfg.AppEnv, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Println("server stopped")
	return nil
}

// newStore picks the storage backend from configuration.
func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "s3":
		return storage.NewMinioStore(
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StorageUseSSL,
		)
	case "local":
		return storage.NewLocalStore(cfg.FileDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
