package service

import (
	"errors"
	"fmt"

	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

var ErrPostNotFound = errors.New("post not found")

type PostService interface {
	Create(userID int64, title, caption, location string) (*models.Post, error)
	All() ([]models.Post, error)
	ForUser(userID int64) ([]models.Post, error)
	Like(postID int64) error
	Delete(postID, userID int64) error
}

type postService struct {
	repo   repository.PostRepository
	logger *zap.Logger
}

func NewPostService(repo repository.PostRepository, logger *zap.Logger) PostService {
	return &postService{repo: repo, logger: logger}
}

func (s *postService) Create(userID int64, title, caption, location string) (*models.Post, error) {
	post := &models.Post{
		UserID:   userID,
		Title:    title,
		Caption:  caption,
		Location: location,
	}

	if err := s.repo.Create(post); err != nil {
		s.logger.Error("Failed to create post", zap.Error(err))
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

func (s *postService) All() ([]models.Post, error) {
	return s.repo.FindAll()
}

func (s *postService) ForUser(userID int64) ([]models.Post, error) {
	return s.repo.FindByUserID(userID)
}

func (s *postService) Like(postID int64) error {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return fmt.Errorf("failed to resolve post: %w", err)
	}
	if post == nil {
		return fmt.Errorf("%w: id %d", ErrPostNotFound, postID)
	}
	return s.repo.AddLike(postID)
}

func (s *postService) Delete(postID, userID int64) error {
	post, err := s.repo.FindOwnedBy(postID, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve post: %w", err)
	}
	if post == nil {
		return fmt.Errorf("%w: id %d", ErrPostNotFound, postID)
	}
	return s.repo.Delete(postID)
}
