package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"shop_system/internal/domain" // Importing domain models
	"shop_system/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// itemsCacheKey caches the public catalog listing
const itemsCacheKey = "items:all"

// CreateItemRequest is the payload for adding a catalog item.
// Price arrives as a string, form-style; an unparseable price becomes 0.
type CreateItemRequest struct {
	Name     string `json:"name"`      // Item name, required
	Price    string `json:"price"`     // Item price as a decimal string
	ImageURL string `json:"image_url"` // Optional image URL
}

// ListItemsHandler returns all catalog items, newest first
func ListItemsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		var items []domain.Item     // Slice to hold items
		// Try to get the listing from cache
		found, err := utils.GetCache(ctx, rdb, itemsCacheKey, &items)
		if err == nil && found {
			// Return cached listing
			c.JSON(http.StatusOK, gin.H{"items": items, "cached": true})
			return
		}
		// If not in cache, fetch from DB ordered by creation time descending
		if err := db.Order("created_at desc").Find(&items).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
			return
		}
		_ = utils.SetCache(ctx, rdb, itemsCacheKey, items, 60*time.Second) // Cache the listing for 60 seconds
		c.JSON(http.StatusOK, gin.H{"items": items, "cached": false})     // Return the listing
	}
}

// CreateItemHandler adds a new catalog item (admin only)
func CreateItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		name := strings.TrimSpace(req.Name) // Trim surrounding whitespace
		// The name is the only required field
		if name == "" {
			// If missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Item name is required"})
			return
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(req.Price), 64)
		if err != nil {
			price = 0 // Unparseable price defaults to 0
		}
		// Prices are non-negative
		if price < 0 {
			// If negative, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be non-negative"})
			return
		}
		// Create the catalog item
		item := domain.Item{Name: name, Price: price, ImageURL: strings.TrimSpace(req.ImageURL)}
		if err := db.Create(&item).Error; err != nil {
			// If creation fails, return internal server error
			logrus.WithFields(logrus.Fields{
				"name":  name,        // Item name
				"error": err.Error(), // Error message
			}).Error("Failed to create item")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
			return
		}
		// Log the new item
		logrus.WithFields(logrus.Fields{
			"item_id": item.ID,    // New item ID
			"name":    item.Name,  // Item name
			"price":   item.Price, // Item price
		}).Info("Item added")
		// Invalidate the catalog listing cache
		_ = utils.DeleteCache(context.Background(), rdb, itemsCacheKey)
		// Return the created item
		c.JSON(http.StatusCreated, gin.H{"message": "Item added.", "item": item})
	}
}

// DeleteItemHandler removes a catalog item and every cart row referencing it (admin only)
func DeleteItemHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := strconv.Atoi(c.Param("id")) // Item ID from the path
		if err != nil {
			// If not a number, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
			return
		}
		var item domain.Item // Fetch the item first
		if err := db.First(&item, itemID).Error; err != nil {
			// If item not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		var affectedUsers []uint // Users whose carts reference the item
		// Collect them before the delete so their cart caches can be invalidated
		if err := db.Model(&domain.CartEntry{}).Where("item_id = ?", item.ID).
			Distinct("user_id").Pluck("user_id", &affectedUsers).Error; err != nil {
			// If the lookup fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		// Delete the item and cascade its cart rows atomically
		err = db.Transaction(func(tx *gorm.DB) error {
			// Remove the item itself
			if err := tx.Delete(&item).Error; err != nil {
				return err // Return error to rollback
			}
			// Remove every cart entry referencing the item
			if err := tx.Where("item_id = ?", item.ID).Delete(&domain.CartEntry{}).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"item_id": item.ID,     // Item ID
				"error":   err.Error(), // Error message
			}).Error("Failed to delete item")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		// Log the deletion
		logrus.WithFields(logrus.Fields{
			"item_id":   item.ID,                         // Item ID
			"name":      item.Name,                       // Item name
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Item deleted")
		ctx := context.Background() // Context for Redis operations
		// Invalidate the catalog listing cache
		_ = utils.DeleteCache(ctx, rdb, itemsCacheKey)
		// Invalidate the cart cache of every affected user
		for _, uid := range affectedUsers {
			_ = utils.DeleteCache(ctx, rdb, cartCacheKey(uid))
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted."})
	}
}
