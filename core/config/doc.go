// Package config provides configuration management for the POS backend.
//
// It utilizes Viper for loading configuration from environment variables
// and a .env file, with defaults taken from struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port)
//   - Database: MySQL connection details
//   - Log: Logging level and format
//   - Auth: JWT signing secret and token lifetime
//   - Storage: S3/MinIO credentials and bucket for archived invoices
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
