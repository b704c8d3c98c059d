package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PostHandler interface {
	CreatePost(c *gin.Context)
	AllPosts(c *gin.Context)
	CurrentUserPosts(c *gin.Context)
	LikePost(c *gin.Context)
	DeletePost(c *gin.Context)
}

type postHandler struct {
	posts service.PostService
	log   *logrus.Logger
}

func NewPostHandler(posts service.PostService, log *logrus.Logger) PostHandler {
	return &postHandler{posts: posts, log: log}
}

type CreatePostRequest struct {
	Title    string `json:"title" binding:"required"`
	Caption  string `json:"caption"`
	Location string `json:"location"`
}

func (h *postHandler) CreatePost(c *gin.Context) {
	userID := c.MustGet("userID").(int64)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for post creation: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Create(userID, req.Title, req.Caption, req.Location)
	if err != nil {
		h.log.Errorf("Failed to create post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *postHandler) AllPosts(c *gin.Context) {
	posts, err := h.posts.All()
	if err != nil {
		h.log.Errorf("Failed to list posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *postHandler) CurrentUserPosts(c *gin.Context) {
	userID := c.MustGet("userID").(int64)

	posts, err := h.posts.ForUser(userID)
	if err != nil {
		h.log.Errorf("Failed to list posts for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *postHandler) LikePost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	if err := h.posts.Like(postID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("Failed to like post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post liked"})
}

func (h *postHandler) DeletePost(c *gin.Context) {
	userID := c.MustGet("userID").(int64)

	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	if err := h.posts.Delete(postID, userID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("Failed to delete post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
