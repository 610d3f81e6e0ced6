package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/cache"
)

// ListGallery returns the gallery images, newest first.
func (h *Handler) ListGallery(c *gin.Context) {
	var cached []*model.GalleryImage
	if h.cache.Get(c.Request.Context(), cache.KeyGallery, &cached) {
		writeData(c, cached)
		return
	}

	images, err := h.store.Gallery().List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	h.cache.Set(c.Request.Context(), cache.KeyGallery, images, cache.TTLGallery)
	writeData(c, images)
}

// AddGalleryImageRequest is the request body for adding a gallery image.
type AddGalleryImageRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"imageUrl" binding:"required,url"`
	Category string `json:"category"`
}

// AddGalleryImage inserts an image and invalidates the gallery cache.
func (h *Handler) AddGalleryImage(c *gin.Context) {
	var req AddGalleryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	image := &model.GalleryImage{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		Category: req.Category,
	}
	if err := h.store.Gallery().Add(c.Request.Context(), image); err != nil {
		writeError(c, err)
		return
	}

	h.cache.Del(c.Request.Context(), cache.KeyGallery)
	writeData(c, image)
}
