package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"studyvault/media-hub/cloudsync"
	"studyvault/media-hub/config"
	"studyvault/media-hub/handlers"
	"studyvault/media-hub/importer"
	"studyvault/media-hub/markers"
	"studyvault/media-hub/middleware"
	"studyvault/media-hub/storage"
	"studyvault/media-hub/transcript"
)

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	config.InitLogger(cfg.Logging.Level)
	log := config.Log

	library, err := storage.NewFileLibrary(cfg.Library.DataDir)
	if err != nil {
		log.Fatalf("Failed to open library store: %v", err)
	}
	markerStore, err := storage.NewFileMarkerStore(cfg.Library.DataDir)
	if err != nil {
		log.Fatalf("Failed to open marker store: %v", err)
	}
	sessions := markers.NewRegistry(markerStore, transcript.DurationCanonical, nil)
	imp := importer.New(library, log)

	// Sync is optional: without credentials the hub runs local-only.
	var syncService *cloudsync.Service
	supaClient, err := config.NewSupabaseClient(cfg.Sync)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}
	if supaClient != nil {
		syncService = cloudsync.New(supaClient, cfg.Sync.UserID, library, markerStore, cfg.Sync.Workers, log)
		log.Info("Cloud sync enabled")
	} else {
		log.Info("Cloud sync disabled, no credentials configured")
	}

	h := handlers.NewApplicationHandler(log, library, markerStore, sessions, imp, syncService, cfg.Library.ImportDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Watcher.Enabled {
		if err := os.MkdirAll(cfg.Library.ImportDir, 0o755); err != nil {
			log.Fatalf("Failed to create import dir: %v", err)
		}
		w, err := importer.NewWatcher(cfg.Library.ImportDir, imp, log, cfg.Watcher.MaxConcurrent)
		if err != nil {
			log.Fatalf("Failed to create import watcher: %v", err)
		}
		defer w.Stop()
		go func() {
			if err := w.Start(ctx); err != nil && err != context.Canceled {
				log.Errorf("Import watcher stopped: %v", err)
			}
		}()
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Range",
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Media hub is healthy",
		})
	})

	app.Get("/media/:key", h.ServeMedia)

	apiV1 := app.Group("/api/v1")

	apiV1.Get("/library", h.ListLibrary)
	apiV1.Post("/library/import", h.ImportLibrary)
	apiV1.Delete("/library", h.PurgeLibrary)
	apiV1.Get("/library/:key", h.GetItem)
	apiV1.Patch("/library/:key", h.UpdateItem)

	items := apiV1.Group("/items/:key")
	items.Get("/transcript", h.GetTranscript)
	items.Get("/markers", h.GetMarkers)
	items.Post("/markers/in", h.MarkIn)
	items.Post("/markers/out", h.MarkOut)
	items.Post("/markers/:slot/select", h.SelectSlot)
	items.Post("/markers/:slot/activate", h.ActivateSlot)
	items.Delete("/markers/:slot", h.ClearSlot)
	items.Get("/markers/:slot/copy", h.CopySlot)

	apiV1.Post("/sync/push", h.PushAll)
	apiV1.Post("/sync/pull", h.Pull)

	// Shut down cleanly so the watcher can drain in-flight imports.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		cancel()
		_ = app.Shutdown()
	}()

	log.Infof("Starting media hub on %s", cfg.Server.Listen)
	if err := app.Listen(cfg.Server.Listen); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
