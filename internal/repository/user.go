package repository

import (
	"database/sql"
	"errors"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type UserRepository interface {
	CreateUser(user *models.User) error
	FindByUsername(username string) (*models.User, error)
	FindByID(id int64) (*models.User, error)
	Update(user *models.User) error
}

type userRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewUserRepository(db *sqlx.DB, log *logrus.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) CreateUser(user *models.User) error {
	query := `INSERT INTO users (username, email, firstname, lastname, bio, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	return r.db.QueryRowx(query, user.Username, user.Email, user.Firstname, user.Lastname, user.Bio, user.PasswordHash).StructScan(user)
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, firstname, lastname, bio, password_hash, created_at FROM users WHERE username = $1`
	err := r.db.Get(&user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id int64) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, firstname, lastname, bio, password_hash, created_at FROM users WHERE id = $1`
	err := r.db.Get(&user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	query := `UPDATE users SET firstname = $1, lastname = $2, bio = $3 WHERE id = $4`
	_, err := r.db.Exec(query, user.Firstname, user.Lastname, user.Bio, user.ID)
	return err
}
