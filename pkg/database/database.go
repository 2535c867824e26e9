package database

import (
	"database/sql"
	"fmt"
	"time"

	"task-manager/configs"

	_ "github.com/lib/pq"
)

func DSN(cfg configs.Config, dbName string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, dbName)
}

func ConnectDB(cfg configs.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg, cfg.DBName))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
