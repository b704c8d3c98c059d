package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ImageHandler interface {
	UploadToUser(c *gin.Context)
	UploadToPost(c *gin.Context)
	ProfileImage(c *gin.Context)
	PostImage(c *gin.Context)
}

type imageHandler struct {
	images service.ImageService
	log    *logrus.Logger
}

func NewImageHandler(images service.ImageService, log *logrus.Logger) ImageHandler {
	return &imageHandler{images: images, log: log}
}

func (h *imageHandler) UploadToUser(c *gin.Context) {
	userID := c.MustGet("userID").(int64)

	data, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	if _, err := h.images.UploadToUser(userID, data, filename); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("Failed to upload profile image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded successfully"})
}

func (h *imageHandler) UploadToPost(c *gin.Context) {
	userID := c.MustGet("userID").(int64)

	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	data, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	if _, err := h.images.UploadToPost(userID, postID, data, filename); err != nil {
		if errors.Is(err, service.ErrOwnershipMismatch) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("Failed to upload image to post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded successfully"})
}

// ProfileImage returns the caller's profile image. A user without one gets
// a null body, not an error.
func (h *imageHandler) ProfileImage(c *gin.Context) {
	userID := c.MustGet("userID").(int64)

	image, err := h.images.UserImage(userID)
	if err != nil {
		h.log.Errorf("Failed to fetch profile image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch image"})
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *imageHandler) PostImage(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	image, err := h.images.PostImage(postID)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("Failed to fetch image for post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch image"})
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *imageHandler) readUpload(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file form field required"})
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Errorf("Failed to open uploaded file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Errorf("Failed to read uploaded file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return nil, "", false
	}

	return data, fileHeader.Filename, true
}
