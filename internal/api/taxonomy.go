package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/models"
)

// TaxonomyAPI serves the category and tag endpoints. Reads are public;
// writes are admin-only and wired behind RequireAdmin in the router.
type TaxonomyAPI struct {
	categories *db.CategoryRepository
	tags       *db.TagRepository
}

// NewTaxonomyAPI creates the taxonomy handler group.
func NewTaxonomyAPI(categories *db.CategoryRepository, tags *db.TagRepository) *TaxonomyAPI {
	return &TaxonomyAPI{categories: categories, tags: tags}
}

// ListCategories handles GET /categories.
func (h *TaxonomyAPI) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListTags handles GET /tags.
func (h *TaxonomyAPI) ListTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

type createCategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder int    `json:"display_order"`
	Color        string `json:"color"`
	Icon         string `json:"icon"`
}

// CreateCategory handles POST /admin/categories.
func (h *TaxonomyAPI) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	category := &models.Category{
		Name:         req.Name,
		Slug:         db.Slugify(req.Name),
		DisplayOrder: req.DisplayOrder,
	}
	category.Color.String, category.Color.Valid = req.Color, req.Color != ""
	category.Icon.String, category.Icon.Valid = req.Icon, req.Icon != ""

	if err := h.categories.Create(c.Request.Context(), category); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory handles PUT /admin/categories/:id.
func (h *TaxonomyAPI) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.categories.Update(c.Request.Context(), id, updates); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteCategory handles DELETE /admin/categories/:id.
func (h *TaxonomyAPI) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type createTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateTag handles POST /admin/tags.
func (h *TaxonomyAPI) CreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	tag := &models.Tag{Name: req.Name, Slug: db.Slugify(req.Name)}
	if err := h.tags.Create(c.Request.Context(), tag); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

// DeleteTag handles DELETE /admin/tags/:id.
func (h *TaxonomyAPI) DeleteTag(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid tag id")
		return
	}

	if err := h.tags.Delete(c.Request.Context(), id); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
