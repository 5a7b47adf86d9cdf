package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beesaferoot/gorm-posts/internal/post"
)

const (
	messageInternalError = "an error occurred"
	messagePostCreated   = "post created"
	messagePostUpdated   = "post updated"
	messagePostDeleted   = "post deleted"
)

type errorResponse struct {
	Message string `json:"message"`
}

type dataResponse struct {
	Data any `json:"data"`
}

type createPostResponse struct {
	Message string     `json:"message"`
	Data    *post.Post `json:"data"`
}

// postID accepts both "P1" and 1 from clients.
type postID string

func (id *postID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = postID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = postID(n.String())
	return nil
}

// POST /posts body.
type CreatePostRequest struct {
	PostID  postID `json:"postId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PUT /posts/:postId body.
type UpdatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type PostHandler struct {
	svc post.Service
	// wireCompat keeps the legacy status codes: a missing post on GET is 200 with
	// null data, and a non-owner gets 401 instead of 403.
	wireCompat bool
}

func NewPostHandler(svc post.Service, wireCompat bool) *PostHandler {
	return &PostHandler{svc: svc, wireCompat: wireCompat}
}

// ListPosts handles GET /posts.
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: posts})
}

// GetPost handles GET /posts/:postId.
func (h *PostHandler) GetPost(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("postId"))
	if errors.Is(err, post.ErrNotFound) && h.wireCompat {
		c.JSON(http.StatusOK, dataResponse{Data: nil})
		return
	}
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: p})
}

// CreatePost handles POST /posts.
func (h *PostHandler) CreatePost(c *gin.Context) {
	uid, _ := UserID(c)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: post.ErrInvalidInput.Error()})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), uid, post.CreateInput{
		PostID:  string(req.PostID),
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createPostResponse{Message: messagePostCreated, Data: p})
}

// UpdatePost handles PUT /posts/:postId.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	uid, _ := UserID(c)

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: post.ErrInvalidInput.Error()})
		return
	}

	err := h.svc.Update(c.Request.Context(), uid, c.Param("postId"), post.UpdateInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: messagePostUpdated})
}

// DeletePost handles DELETE /posts/:postId.
func (h *PostHandler) DeletePost(c *gin.Context) {
	uid, _ := UserID(c)

	if err := h.svc.Delete(c.Request.Context(), uid, c.Param("postId")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: messagePostDeleted})
}

func (h *PostHandler) forbiddenStatus() int {
	if h.wireCompat {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

// handleError maps service errors to a status code and message.
func (h *PostHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, post.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, post.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Message: post.ErrNotFound.Error()})
	case errors.Is(err, post.ErrForbidden):
		c.JSON(h.forbiddenStatus(), errorResponse{Message: post.ErrForbidden.Error()})
	case errors.Is(err, post.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse{Message: post.ErrConflict.Error()})
	default:
		log.Printf("%s %s failed (request %s): %v", c.Request.Method, c.FullPath(), c.GetString(requestIDHeader), err)
		c.JSON(http.StatusInternalServerError, errorResponse{Message: messageInternalError})
	}
}
