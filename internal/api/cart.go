package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"shop_system/internal/domain" // Importing domain models
	"shop_system/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
	"gorm.io/gorm/clause"          // Upsert clauses
)

// cartCacheKey caches a user's cart view
func cartCacheKey(userID uint) string {
	return "cart:user:" + strconv.Itoa(int(userID))
}

// CartLine is one row of the cart view
type CartLine struct {
	CartID    uint    `json:"cart_id"`    // Cart entry ID
	ItemID    uint    `json:"item_id"`    // Item ID
	Name      string  `json:"name"`       // Item name
	Price     float64 `json:"price"`      // Unit price
	Quantity  int     `json:"quantity"`   // Quantity in the cart
	ImageURL  string  `json:"image_url"`  // Item image URL
	LineTotal float64 `json:"line_total"` // Price times quantity
}

// CartView is the full cart response
type CartView struct {
	Items []CartLine `json:"items"` // Line items
	Total float64    `json:"total"` // Sum of line totals
}

// UpdateCartRequest sets an explicit quantity on a cart entry
type UpdateCartRequest struct {
	Quantity *int `json:"quantity"` // New quantity; omitted defaults to 1, zero or below removes the entry
}

// buildCartView joins a user's cart entries against the catalog.
// Entries whose item has been deleted are skipped, never cleaned up here;
// pruning happens only through the item-deletion cascade.
func buildCartView(db *gorm.DB, userID uint) (CartView, error) {
	view := CartView{Items: []CartLine{}} // Empty view by default
	var entries []domain.CartEntry        // The user's cart rows
	if err := db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return view, err // Return error if fetching fails
	}
	for _, e := range entries {
		var item domain.Item // The referenced catalog item
		if err := db.First(&item, e.ItemID).Error; err != nil {
			continue // Skip entries whose item no longer exists
		}
		qty := e.Quantity // Quantity for the line total
		if qty < 1 {
			qty = 1 // Defensive floor, rows are never stored below 1
		}
		lineTotal := item.Price * float64(qty) // Line total
		view.Total += lineTotal                // Accumulate the cart total
		view.Items = append(view.Items, CartLine{
			CartID:    e.ID,          // Cart entry ID
			ItemID:    item.ID,       // Item ID
			Name:      item.Name,     // Item name
			Price:     item.Price,    // Unit price
			Quantity:  e.Quantity,    // Stored quantity
			ImageURL:  item.ImageURL, // Item image URL
			LineTotal: lineTotal,     // Line total
		})
	}
	return view, nil
}

// ViewCartHandler returns the authenticated user's cart with per-line and overall totals
func ViewCartHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()               // Context for Redis operations
		cacheKey := cartCacheKey(userID.(uint))   // Cache key for this user's cart
		var view CartView                         // Cart view to return
		found, err := utils.GetCache(ctx, rdb, cacheKey, &view) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			// Return cached cart
			c.JSON(http.StatusOK, gin.H{"cart": view, "cached": true})
			return
		}
		// If not in cache, build from DB
		view, err = buildCartView(db, userID.(uint))
		if err != nil {
			// If building fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, view, 60*time.Second) // Cache the cart for 60 seconds
		c.JSON(http.StatusOK, gin.H{"cart": view, "cached": false})  // Return the cart view
	}
}

// AddToCartHandler puts one unit of an item into the caller's cart.
// The insert-or-increment runs as a single upsert on the (user_id, item_id)
// unique index, so concurrent adds cannot create duplicate rows.
func AddToCartHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		itemID, err := strconv.Atoi(c.Param("itemID")) // Item ID from the path
		if err != nil {
			// If not a number, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
			return
		}
		var item domain.Item // The item being added
		if err := db.First(&item, itemID).Error; err != nil {
			// If item not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		// First add creates the row with quantity 1; repeat adds increment it
		entry := domain.CartEntry{UserID: userID.(uint), ItemID: item.ID, Quantity: 1}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},                    // Conflict target
			DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("quantity + 1")}), // Atomic increment
		}).Create(&entry).Error
		// Handle upsert result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"item_id": item.ID,     // Item ID
				"error":   err.Error(), // Error message
			}).Error("Add to cart failed")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
			return
		}
		// Log the add
		logrus.WithFields(logrus.Fields{
			"user_id": userID,    // User ID
			"item_id": item.ID,   // Item ID
			"name":    item.Name, // Item name
		}).Info("Added to cart")
		// Invalidate the user's cart cache
		_ = utils.DeleteCache(context.Background(), rdb, cartCacheKey(userID.(uint)))
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Added " + item.Name + " to cart."})
	}
}

// UpdateCartHandler sets an explicit quantity on one of the caller's cart entries.
// A quantity of zero or below removes the entry
func UpdateCartHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		entryID, err := strconv.Atoi(c.Param("entryID")) // Cart entry ID from the path
		if err != nil {
			// If not a number, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart entry id"})
			return
		}
		var req UpdateCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		quantity := 1 // A missing quantity defaults to 1, keeping the row
		if req.Quantity != nil {
			quantity = *req.Quantity // Explicit quantity from the request
		}
		var entry domain.CartEntry // The entry being updated, scoped to the caller
		if err := db.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
			// If entry not found or owned by someone else, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart entry not found"})
			return
		}
		// Zero or negative quantity removes the row, otherwise overwrite it
		if quantity <= 0 {
			// Delete the cart entry
			if err := db.Delete(&entry).Error; err != nil {
				// If deletion fails, return internal server error
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
				return
			}
		} else {
			// Overwrite the quantity
			if err := db.Model(&entry).Update("quantity", quantity).Error; err != nil {
				// If the update fails, return internal server error
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
				return
			}
		}
		// Log the update
		logrus.WithFields(logrus.Fields{
			"user_id":  userID,   // User ID
			"entry_id": entry.ID, // Cart entry ID
			"quantity": quantity, // Requested quantity
		}).Info("Cart updated")
		// Invalidate the user's cart cache
		_ = utils.DeleteCache(context.Background(), rdb, cartCacheKey(userID.(uint)))
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated."})
	}
}
