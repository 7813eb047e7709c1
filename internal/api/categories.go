package api

import (
	"context"                             // Context for Redis operations
	"finance_tracker/internal/domain"     // Typed errors
	"finance_tracker/internal/repository" // Ownership-scoped persistence
	"finance_tracker/internal/utils"      // Cache helpers
	"net/http"                            // HTTP status codes
	"strings"                             // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// CreateCategoryRequest is the body of POST /categories
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=50"`          // Unique per user
	Description *string `json:"description" binding:"omitempty,max=255"` // Optional description
	Icon        string  `json:"icon" binding:"max=30"`                   // Defaults to briefcase
	Color       string  `json:"color" binding:"max=30"`                  // Defaults to green
}

// UpdateCategoryRequest is the body of PATCH /categories/:id; absent fields are left alone
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=50"`         // New name
	Description *string `json:"description" binding:"omitempty,max=255"` // Empty clears it
	Icon        *string `json:"icon" binding:"omitempty,max=30"`         // New icon
	Color       *string `json:"color" binding:"omitempty,max=30"`        // New color
}

// invalidateSummary drops the user's cached summary after a write
func invalidateSummary(ctx context.Context, env *Env, userID string) {
	if err := utils.DeleteCache(ctx, env.Cache, utils.SummaryCacheKey(userID)); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // Owner of the stale entry
			"error":   err.Error(), // Redis error
		}).Warn("Failed to invalidate summary cache")
	}
}

// ListCategoriesHandler returns the caller's categories, newest first
func ListCategoriesHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		cats, err := env.Store.ListCategories(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := make([]CategoryResponse, len(cats)) // Map categories to response format
		for i := range cats {
			resp[i] = newCategoryResponse(&cats[i])
		}
		c.JSON(http.StatusOK, gin.H{"categories": resp})
	}
}

// GetCategoryHandler returns one of the caller's categories
func GetCategoryHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		cat, err := env.Store.GetCategory(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			respondError(c, err) // Foreign and missing ids are both NotFound
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": newCategoryResponse(cat)})
	}
}

// CreateCategoryHandler creates a category owned by the caller
func CreateCategoryHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req CreateCategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			respondError(c, domain.BadInput("Invalid category data"))
			return
		}
		ctx := c.Request.Context()
		cat, err := env.Store.CreateCategory(ctx, userID, repository.CategoryInput{
			Name:        req.Name,
			Description: req.Description,
			Icon:        req.Icon,
			Color:       req.Color,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidateSummary(ctx, env, userID)
		logrus.WithFields(logrus.Fields{
			"user_id":     userID, // Owner
			"category_id": cat.ID, // New category
		}).Info("Category created")
		c.JSON(http.StatusCreated, gin.H{"category": newCategoryResponse(cat)})
	}
}

// UpdateCategoryHandler applies a partial update to one of the caller's categories
func UpdateCategoryHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req UpdateCategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, domain.BadInput("Invalid category data"))
			return
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			respondError(c, domain.BadInput("Name must not be blank"))
			return
		}
		ctx := c.Request.Context()
		cat, err := env.Store.UpdateCategory(ctx, userID, c.Param("id"), repository.CategoryPatch{
			Name:        req.Name,
			Description: req.Description,
			Icon:        req.Icon,
			Color:       req.Color,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidateSummary(ctx, env, userID)
		c.JSON(http.StatusOK, gin.H{"category": newCategoryResponse(cat)})
	}
}

// DeleteCategoryHandler deletes one of the caller's categories and its transactions
func DeleteCategoryHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		id := c.Param("id")
		if err := env.Store.DeleteCategory(ctx, userID, id); err != nil {
			respondError(c, err)
			return
		}
		invalidateSummary(ctx, env, userID)
		logrus.WithFields(logrus.Fields{
			"user_id":     userID, // Owner
			"category_id": id,     // Deleted category
		}).Info("Category deleted")
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
