package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/zipghana/rental-reservation/internal/model"
	"github.com/zipghana/rental-reservation/internal/utils"
)

// UserRepo persists user records in the 'users' table. Emails are
// normalized to lower case before every read or write so the unique
// index works regardless of the caller's casing.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser carries the fields needed to register an account. The
// password arrives in plaintext and is hashed here so no caller ever
// stores it.
type NewUser struct {
	FullName string
	Email    string
	Phone    string
	Password string
	UserType string
	Location *string
}

// Create inserts a user with the given bcrypt cost and returns the
// stored record. New accounts are active, unverified customers.
func (r *UserRepo) Create(ctx context.Context, nu NewUser, cost int) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	hash, err := utils.HashPassword(nu.Password, cost)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (full_name, email, phone, password_hash, role, user_type, location, is_active, is_verified) VALUES (?,?,?,?,?,?,?,1,0)",
		nu.FullName, email, nu.Phone, hash, model.RoleCustomer, nu.UserType, nu.Location)
	if err != nil {
		// MySQL error 1062: duplicate entry on the unique email index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx,
		"SELECT id,full_name,email,phone,password_hash,role,user_type,location,is_active,is_verified,last_login,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx,
		"SELECT id,full_name,email,phone,password_hash,role,user_type,location,is_active,is_verified,last_login,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id)
}

// TouchLastLogin records the login timestamp. Best effort: callers
// ignore the error because login bookkeeping must never block a session.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET last_login=NOW() WHERE id=?", id)
	return err
}

// UpdatePassword replaces the stored hash. This is the only mutation
// path for password_hash after registration.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, plaintext string, cost int) error {
	hash, err := utils.HashPassword(plaintext, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

func (r *UserRepo) scanOne(ctx context.Context, q string, arg interface{}) (model.User, error) {
	var u model.User
	var location sql.NullString
	var lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.UserType, &location, &u.IsActive, &u.IsVerified,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	if location.Valid {
		loc := location.String
		u.Location = &loc
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}
