package service

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"

	"backend/internal/models"
	"backend/internal/repository"

	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"
)

var (
	ErrImageNotFound     = errors.New("image not found")
	ErrOwnershipMismatch = errors.New("post does not belong to user")
)

// ImageService runs the compress/store/decompress cycle for profile and
// post images. At most one image exists per owner: uploading replaces any
// prior record for the same owner.
type ImageService interface {
	UploadToUser(userID int64, data []byte, filename string) (*models.ImageModel, error)
	UploadToPost(userID, postID int64, data []byte, filename string) (*models.ImageModel, error)
	UserImage(userID int64) (*models.ImageModel, error)
	PostImage(postID int64) (*models.ImageModel, error)
}

type imageService struct {
	images repository.ImageRepository
	users  repository.UserRepository
	posts  repository.PostRepository
	logger *zap.Logger

	// ownerLocks serializes the find-delete-insert replace sequence per
	// owner; the images table has no unique constraint to fall back on.
	ownerMu    sync.Mutex
	ownerLocks map[string]*sync.Mutex
}

func NewImageService(images repository.ImageRepository, users repository.UserRepository, posts repository.PostRepository, logger *zap.Logger) ImageService {
	return &imageService{
		images:     images,
		users:      users,
		posts:      posts,
		logger:     logger,
		ownerLocks: make(map[string]*sync.Mutex),
	}
}

func (s *imageService) UploadToUser(userID int64, data []byte, filename string) (*models.ImageModel, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	s.logger.Info("Uploading profile image", zap.String("username", user.Username))

	lock := s.ownerLock("user", userID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.images.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing image: %w", err)
	}
	if existing != nil {
		if err := s.images.Delete(existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete previous image: %w", err)
		}
	}

	compressed, err := compressBytes(data)
	if err != nil {
		s.logger.Error("Cannot compress bytes", zap.Error(err))
		return nil, fmt.Errorf("failed to compress image: %w", err)
	}

	image := &models.ImageModel{
		Name:       filename,
		ImageBytes: compressed,
		UserID:     sql.NullInt64{Int64: userID, Valid: true},
	}
	if err := s.images.Save(image); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	s.logger.Debug("Compressed image stored",
		zap.Int64("user_id", userID),
		zap.Int("compressed_size", len(compressed)))

	return image, nil
}

func (s *imageService) UploadToPost(userID, postID int64, data []byte, filename string) (*models.ImageModel, error) {
	post, err := s.posts.FindOwnedBy(postID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve post: %w", err)
	}
	if post == nil {
		return nil, ErrOwnershipMismatch
	}

	s.logger.Info("Uploading image to post", zap.Int64("post_id", post.ID))

	lock := s.ownerLock("post", postID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.images.FindByPostID(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing image: %w", err)
	}
	if existing != nil {
		if err := s.images.Delete(existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete previous image: %w", err)
		}
	}

	compressed, err := compressBytes(data)
	if err != nil {
		s.logger.Error("Cannot compress bytes", zap.Error(err))
		return nil, fmt.Errorf("failed to compress image: %w", err)
	}

	image := &models.ImageModel{
		Name:       filename,
		ImageBytes: compressed,
		PostID:     sql.NullInt64{Int64: postID, Valid: true},
	}
	if err := s.images.Save(image); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	return image, nil
}

// UserImage returns the user's profile image with decompressed bytes, or
// nil when the user has none. Absence is not an error on this path.
func (s *imageService) UserImage(userID int64) (*models.ImageModel, error) {
	image, err := s.images.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up image: %w", err)
	}
	if image == nil {
		return nil, nil
	}

	image.ImageBytes = s.decompressBytes(image.ImageBytes)
	return image, nil
}

// PostImage returns the post's image with decompressed bytes, or
// ErrImageNotFound when the post has none.
func (s *imageService) PostImage(postID int64) (*models.ImageModel, error) {
	image, err := s.images.FindByPostID(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up image: %w", err)
	}
	if image == nil {
		return nil, fmt.Errorf("%w: post %d", ErrImageNotFound, postID)
	}

	image.ImageBytes = s.decompressBytes(image.ImageBytes)
	return image, nil
}

func (s *imageService) ownerLock(kind string, id int64) *sync.Mutex {
	key := fmt.Sprintf("%s:%d", kind, id)

	s.ownerMu.Lock()
	defer s.ownerMu.Unlock()

	lock, ok := s.ownerLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.ownerLocks[key] = lock
	}
	return lock
}

// compressBytes deflates the whole input in one shot with default settings.
// Empty input is legal and produces a valid empty-payload stream.
func compressBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decompressBytes inflates the stored payload in fixed-size chunks. Decode
// errors are not fatal: whatever output was produced before the error is
// returned and the failure is logged.
func (s *imageService) decompressBytes(data []byte) []byte {
	var out bytes.Buffer

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		s.logger.Error("Cannot decompress bytes", zap.Error(err))
		return out.Bytes()
	}
	defer r.Close()

	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		out.Write(buf[:n])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Error("Cannot decompress bytes", zap.Error(err))
			break
		}
	}

	return out.Bytes()
}
