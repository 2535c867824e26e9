package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore implements Store on top of database/sql and lib/pq.
type PostgresStore struct {
	db *sql.DB // nil when the store is bound to a transaction
	q  DBTX
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

func (s *PostgresStore) Users() UserRepository               { return &pgUserRepository{db: s.q} }
func (s *PostgresStore) TaskStatuses() TaskStatusRepository { return &pgTaskStatusRepository{db: s.q} }
func (s *PostgresStore) Labels() LabelRepository             { return &pgLabelRepository{db: s.q} }
func (s *PostgresStore) Tasks() TaskRepository               { return &pgTaskRepository{db: s.q} }

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		// nested call, reuse the running transaction
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&PostgresStore{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
