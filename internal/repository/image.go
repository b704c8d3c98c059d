package repository

import (
	"database/sql"
	"errors"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// ImageRepository stores one image row per owner. Uniqueness of the
// (owner kind, owner id) pair is kept by the service's replace sequence,
// not by a database constraint.
type ImageRepository interface {
	Save(image *models.ImageModel) error
	FindByUserID(userID int64) (*models.ImageModel, error)
	FindByPostID(postID int64) (*models.ImageModel, error)
	Delete(id int64) error
}

type imageRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewImageRepository(db *sqlx.DB, log *logrus.Logger) ImageRepository {
	return &imageRepository{db: db, log: log}
}

func (r *imageRepository) Save(image *models.ImageModel) error {
	query := `INSERT INTO images (name, image_bytes, user_id, post_id) VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowx(query, image.Name, image.ImageBytes, image.UserID, image.PostID).StructScan(image)
}

func (r *imageRepository) FindByUserID(userID int64) (*models.ImageModel, error) {
	var image models.ImageModel
	query := `SELECT id, name, image_bytes, user_id, post_id FROM images WHERE user_id = $1`
	err := r.db.Get(&image, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) FindByPostID(postID int64) (*models.ImageModel, error) {
	var image models.ImageModel
	query := `SELECT id, name, image_bytes, user_id, post_id FROM images WHERE post_id = $1`
	err := r.db.Get(&image, query, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) Delete(id int64) error {
	query := `DELETE FROM images WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}
