package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"creative-assigner/infrastructure/configuration"

	_ "github.com/lib/pq"
)

// NewPostgreSQLDB opens the audit database over lib/pq and verifies the connection.
func NewPostgreSQLDB() (*sql.DB, error) {
	cfg := configuration.C.Database.Psql
	if !cfg.Configured() {
		return nil, fmt.Errorf("postgres is not configured")
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
