package database

import (
	"crypto/tls"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
)

var (
	instance *sql.DB
	once     sync.Once
	initErr  error
	tlsOnce  sync.Once
)

// GetInstance returns the singleton database connection.
// sql.DB is already thread-safe and manages its own connection pool.
func GetInstance() (*sql.DB, error) {
	once.Do(func() {
		instance, initErr = newConnection()
	})
	return instance, initErr
}

func newConnection() (*sql.DB, error) {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")

	if port == "" {
		port = "3306"
	}
	if name == "" {
		name = "gridbase"
	}

	// Remote hosts get TLS; localhost connects plain. The driver rejects
	// duplicate config registration, hence the Once.
	tlsParam := ""
	if host != "" && host != "127.0.0.1" && host != "localhost" {
		tlsOnce.Do(func() {
			if err := mysql.RegisterTLSConfig("gridbase", &tls.Config{
				MinVersion: tls.VersionTLS12,
				ServerName: host,
			}); err != nil {
				log.Printf("Failed to register TLS config: %v\n", err)
			}
		})
		tlsParam = "&tls=gridbase"
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local%s",
		user, password, host, port, name, tlsParam)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// MaxIdleConns matches MaxOpenConns so connections are not churned under
	// concurrency, which exhausts ephemeral ports.
	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(100)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
