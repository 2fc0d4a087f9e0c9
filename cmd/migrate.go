package cmd

import (
	"log"

	"pos-backend/core/config"
	"pos-backend/core/database"
	"pos-backend/core/logger"
	"pos-backend/core/reconcile"
	"pos-backend/feature/login"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migration",
	Long:  `Creates or updates the products, invoice_lines and users tables.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		err = db.AutoMigrate(
			&reconcile.Product{},
			&reconcile.InvoiceLine{},
			&login.User{},
		)
		if err != nil {
			logg.Fatal("Migration failed", zap.Error(err))
		}
		logg.Info("Migration complete")
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
