package postgres

import (
	"context"
	"database/sql"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, role, first_name, last_name, phone, address, location, profile_pic_url, verification_status, created_on, updated_on`

func scanUser(s scanner) (*domain.User, error) {
	u := &domain.User{}
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName, &u.Phone, &u.Address, &u.Location, &u.ProfilePicURL, &u.VerificationStatus, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, role, first_name, last_name, phone, address, location, profile_pic_url, verification_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now().UTC()
	u.CreatedOn = now
	u.UpdatedOn = now
	if u.VerificationStatus == "" {
		u.VerificationStatus = domain.VerificationUnverified
	}
	logger.DatabaseCall("INSERT", "users", "email", u.Email)
	err := r.db.QueryRowContext(ctx, query, u.Email, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.Phone, u.Address, u.Location, u.ProfilePicURL, u.VerificationStatus, u.CreatedOn, u.UpdatedOn).Scan(&u.ID)
	logger.DatabaseResult("INSERT", 1, err, "userID", u.ID)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// Update writes the editable profile fields. Email and role never change here.
func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET first_name=$1, last_name=$2, phone=$3, address=$4, location=$5, profile_pic_url=$6, updated_on=$7 WHERE id=$8`
	u.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, u.FirstName, u.LastName, u.Phone, u.Address, u.Location, u.ProfilePicURL, u.UpdatedOn, u.ID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	query := `UPDATE users SET password_hash=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_on DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&count)
	return count, err
}
