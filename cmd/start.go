package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"pos-backend/core/config"
	"pos-backend/core/database"
	"pos-backend/core/loader"
	"pos-backend/core/logger"
	"pos-backend/core/middleware/auth"
	"pos-backend/core/middleware/rayid"
	"pos-backend/core/reconcile"
	"pos-backend/core/storage"

	"pos-backend/feature/billing"
	"pos-backend/feature/inventory"
	"pos-backend/feature/login"
	"pos-backend/feature/reports"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "pos-backend/docs/swagger"
)

// @title POS Backend API
// @version 1.0
// @description API for retail billing, inventory and sales reports.
// @host localhost:3001
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the POS backend server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database. Every feature needs it; refuse to start
		// without one.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("name", cfg.Database.Name))

		// 4. Reconciliation engine shared by billing and reports.
		engine := reconcile.NewEngine(reconcile.NewGormStore(db), logg)

		// 5. Invoice archive (optional).
		var archive storage.Client
		if cfg.Storage.Enabled {
			archive, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			logg.Info("Invoice archive enabled", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// RayID first so every log line of a request can be correlated.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth protects everything except login and the docs.
		protected := auth.New(cfg.Auth)
		app.Use("/product", protected)
		app.Use("/billing", protected)
		app.Use("/reports", protected)

		// 7. Register Features
		mgr := loader.NewManager()
		mgr.Register(login.NewFeature(db, logg, cfg.Auth))
		mgr.Register(inventory.NewFeature(db, logg))
		mgr.Register(billing.NewFeature(db, engine, logg))
		mgr.Register(reports.NewFeature(db, engine, archive, cfg.Storage.Bucket, logg))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
