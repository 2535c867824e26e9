package repository

import (
	"context"
	"fmt"

	"task-manager/internal/models"
)

type pgUserRepository struct {
	db DBTX
}

const userColumns = "id, email, first_name, last_name, password, created_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Password, &u.CreatedAt)
	return u, err
}

func (r *pgUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		return models.User{}, fmt.Errorf("find user %d: %w", id, translate(err))
	}
	return u, nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
	if err != nil {
		return models.User{}, fmt.Errorf("find user by email: %w", translate(err))
	}
	return u, nil
}

func (r *pgUserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (email, first_name, last_name, password) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		user.Email, user.FirstName, user.LastName, user.Password,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", translate(err))
	}
	return nil
}

func (r *pgUserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE users SET email = $1, first_name = $2, last_name = $3, password = $4
		WHERE id = $5 RETURNING created_at`,
		user.Email, user.FirstName, user.LastName, user.Password, user.ID,
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("update user %d: %w", user.ID, translate(err))
	}
	return nil
}

func (r *pgUserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, translate(err))
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
