package repository

import (
	"database/sql"
	"errors"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type PostRepository interface {
	Create(post *models.Post) error
	FindByID(id int64) (*models.Post, error)
	FindOwnedBy(postID, userID int64) (*models.Post, error)
	FindByUserID(userID int64) ([]models.Post, error)
	FindAll() ([]models.Post, error)
	AddLike(postID int64) error
	Delete(id int64) error
}

type postRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewPostRepository(db *sqlx.DB, log *logrus.Logger) PostRepository {
	return &postRepository{db: db, log: log}
}

func (r *postRepository) Create(post *models.Post) error {
	query := `INSERT INTO posts (user_id, title, caption, location)
		VALUES ($1, $2, $3, $4) RETURNING id, likes, created_at`
	return r.db.QueryRowx(query, post.UserID, post.Title, post.Caption, post.Location).StructScan(post)
}

func (r *postRepository) FindByID(id int64) (*models.Post, error) {
	var post models.Post
	query := `SELECT id, user_id, title, caption, location, likes, created_at FROM posts WHERE id = $1`
	err := r.db.Get(&post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindOwnedBy(postID, userID int64) (*models.Post, error) {
	var post models.Post
	query := `SELECT id, user_id, title, caption, location, likes, created_at FROM posts WHERE id = $1 AND user_id = $2`
	err := r.db.Get(&post, query, postID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByUserID(userID int64) ([]models.Post, error) {
	posts := []models.Post{}
	query := `SELECT id, user_id, title, caption, location, likes, created_at FROM posts WHERE user_id = $1 ORDER BY created_at DESC`
	err := r.db.Select(&posts, query, userID)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindAll() ([]models.Post, error) {
	posts := []models.Post{}
	query := `SELECT id, user_id, title, caption, location, likes, created_at FROM posts ORDER BY created_at DESC`
	err := r.db.Select(&posts, query)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) AddLike(postID int64) error {
	query := `UPDATE posts SET likes = likes + 1 WHERE id = $1`
	_, err := r.db.Exec(query, postID)
	return err
}

func (r *postRepository) Delete(id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}
