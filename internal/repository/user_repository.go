package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/stanstork/gpl-website-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
)

type UserRepository interface {
	CreateUser(ctx context.Context, name, email, password string, role models.UserRole) (models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, userID string) (models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, is_active, created_at`

func scanUser(s scanner) (models.User, error) {
	var (
		user models.User
		role string
	)
	if err := s.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &user.IsActive, &user.CreatedAt); err != nil {
		return models.User{}, err
	}
	user.Role = models.UserRole(role)
	return user, nil
}

func (u *userRepository) CreateUser(ctx context.Context, name, email, password string, role models.UserRole) (models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !models.IsValidRole(role) {
		return models.User{}, errors.Errorf("invalid role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, errors.Wrap(err, "hash password")
	}

	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	user, err := scanUser(u.db.QueryRowContext(ctx, query,
		strings.TrimSpace(name),
		strings.ToLower(strings.TrimSpace(email)),
		string(hash),
		string(role),
	))
	if err != nil {
		return models.User{}, errors.Wrap(err, "insert user")
	}
	return user, nil
}

func (u *userRepository) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(u.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, errors.Wrap(err, "load user")
	}

	if !user.IsActive {
		return models.User{}, ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (u *userRepository) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(u.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return models.User{}, errors.Wrap(err, "get user")
	}
	return user, nil
}
