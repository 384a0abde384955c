package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user  domain.User
		email sql.NullString
		role  string
	)
	if err := row.Scan(&user.ID, &user.Name, &email, &role, &user.CreatedAt); err != nil {
		return user, err
	}
	user.Email = email.String
	user.Role = domain.ParseRole(role)
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, role, created_at FROM users WHERE email = $1",
		email,
	)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email, role, created_at FROM users ORDER BY created_at",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO NOTHING`,
		user.ID,
		user.Name,
		user.Email,
		string(user.Role),
		user.CreatedAt,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDuplicateUser
	}
	return nil
}

func (r *UserRepository) PromoteToAdmin(ctx context.Context, id string) (*domain.MutationResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var role string
	err = tx.QueryRowContext(ctx, "SELECT role FROM users WHERE id = $1 FOR UPDATE", id).Scan(&role)

	var result *domain.MutationResult
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			"INSERT INTO users (id, role) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role",
			id,
			string(domain.RoleAdmin),
		)
		if err != nil {
			return nil, err
		}
		result = domain.Updated(0, 0, 1, id)
	case err != nil:
		return nil, err
	case domain.ParseRole(role).IsAdmin():
		result = domain.Updated(1, 0, 0, "")
	default:
		if _, err := tx.ExecContext(ctx, "UPDATE users SET role = $2 WHERE id = $1", id, string(domain.RoleAdmin)); err != nil {
			return nil, err
		}
		result = domain.Updated(1, 1, 0, "")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
