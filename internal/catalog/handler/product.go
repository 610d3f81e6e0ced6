package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopstack-io/shopstack/internal/model"
	"github.com/shopstack-io/shopstack/pkg/cache"
)

// listParams parses the shared listing query parameters.
func listParams(c *gin.Context) (*model.ProductFilter, *model.ListOptions) {
	filter := &model.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v, err := strconv.ParseBool(c.Query("inStock")); err == nil {
		filter.InStock = &v
	}

	opts := &model.ListOptions{Sort: c.Query("sort")}
	opts.Page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	opts.Limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	opts.Normalize()

	return filter, opts
}

// defaultListing reports whether the request asks for the unfiltered
// first page, the only listing shape that is cached.
func defaultListing(filter *model.ProductFilter, opts *model.ListOptions) bool {
	return filter.Category == "" && filter.Search == "" &&
		filter.MinPrice == nil && filter.MaxPrice == nil && filter.InStock == nil &&
		opts.Page == 1 && opts.Limit == 20 && opts.Sort == ""
}

// ListProducts returns one page of products with the total match count.
func (h *Handler) ListProducts(c *gin.Context) {
	filter, opts := listParams(c)
	cacheable := defaultListing(filter, opts)

	if cacheable {
		var cached model.ProductList
		if h.cache.Get(c.Request.Context(), cache.KeyProducts, &cached) {
			writeData(c, &cached)
			return
		}
	}

	list, err := h.store.Products().List(c.Request.Context(), filter, opts)
	if err != nil {
		writeError(c, err)
		return
	}

	if cacheable {
		h.cache.Set(c.Request.Context(), cache.KeyProducts, list, cache.TTLProducts)
	}
	writeData(c, list)
}

// CountProducts returns the number of products matching the filter.
func (h *Handler) CountProducts(c *gin.Context) {
	filter, _ := listParams(c)

	count, err := h.store.Products().Count(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, gin.H{"count": count})
}

// GetProduct returns a single product by id.
func (h *Handler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeBadRequest(c, "product id is required")
		return
	}

	key := cache.ProductKey(id)
	var cached model.Product
	if h.cache.Get(c.Request.Context(), key, &cached) {
		writeData(c, &cached)
		return
	}

	product, err := h.store.Products().Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if product == nil {
		writeNotFound(c, "product not found")
		return
	}

	h.cache.Set(c.Request.Context(), key, product, cache.TTLProduct)
	writeData(c, product)
}

// ListCategories returns the distinct category names.
func (h *Handler) ListCategories(c *gin.Context) {
	var cached []string
	if h.cache.Get(c.Request.Context(), cache.KeyCategories, &cached) {
		writeData(c, cached)
		return
	}

	categories, err := h.store.Products().Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	h.cache.Set(c.Request.Context(), cache.KeyCategories, categories, cache.TTLCategories)
	writeData(c, categories)
}

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Price       float64  `json:"price" binding:"gte=0"`
	Stock       int32    `json:"stock" binding:"gte=0"`
	Images      []string `json:"images"`
	Rating      float64  `json:"rating" binding:"gte=0,lte=5"`
}

// CreateProduct inserts a product and invalidates the listing caches.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
		Rating:      req.Rating,
	}
	if err := h.store.Products().Create(c.Request.Context(), product); err != nil {
		writeError(c, err)
		return
	}

	h.invalidateProductCaches(c)
	writeData(c, product)
}

// UpdateProduct replaces a product and invalidates its cache entries.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeBadRequest(c, "product id is required")
		return
	}

	current, err := h.store.Products().Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if current == nil {
		writeNotFound(c, "product not found")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	current.Name = req.Name
	current.Description = req.Description
	current.Category = req.Category
	current.Price = req.Price
	current.Stock = req.Stock
	current.Images = req.Images
	current.Rating = req.Rating

	if err := h.store.Products().Update(c.Request.Context(), current); err != nil {
		writeError(c, err)
		return
	}

	h.cache.Del(c.Request.Context(), cache.ProductKey(id))
	h.invalidateProductCaches(c)
	writeData(c, current)
}

// DeleteProduct removes a product and invalidates its cache entries.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeBadRequest(c, "product id is required")
		return
	}

	if err := h.store.Products().Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	h.cache.Del(c.Request.Context(), cache.ProductKey(id))
	h.invalidateProductCaches(c)
	writeData(c, gin.H{"deleted": id})
}

// invalidateProductCaches drops every entry a product write can render
// stale: the listing, the category set, the dashboard snapshot, and all
// per-product entries.
func (h *Handler) invalidateProductCaches(c *gin.Context) {
	ctx := c.Request.Context()
	h.cache.Del(ctx, cache.KeyProducts, cache.KeyCategories, cache.KeyDashboard)
	h.cache.InvalidatePattern(ctx, cache.ProductPattern())
}
