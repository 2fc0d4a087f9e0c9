// Package database handles the MySQL connection for the POS backend.
//
// It provides a thin wrapper around GORM that configures the DSN, the
// connection pool and timeouts from the application configuration, and
// verifies the connection with a ping before handing it out.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
package database
