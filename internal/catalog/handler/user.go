package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/cache"
)

// GetUser returns a user profile by id.
func (h *Handler) GetUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeBadRequest(c, "user id is required")
		return
	}

	key := cache.UserKey(id)
	var cached model.User
	if h.cache.Get(c.Request.Context(), key, &cached) {
		writeData(c, &cached)
		return
	}

	user, err := h.store.Users().Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		writeNotFound(c, "user not found")
		return
	}

	h.cache.Set(c.Request.Context(), key, user, cache.TTLUser)
	writeData(c, user)
}

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

// CreateUser registers a user and invalidates the dashboard snapshot,
// whose user counts it changes.
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	if err := h.store.Users().Create(c.Request.Context(), user); err != nil {
		writeError(c, err)
		return
	}

	h.cache.Del(c.Request.Context(), cache.KeyDashboard)
	writeData(c, user)
}
