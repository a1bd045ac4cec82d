package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Token expiry arithmetic

	"shop_system/internal/domain"     // Importing domain models
	"shop_system/internal/middleware" // Session cookie name
	"shop_system/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// SignupRequest is the payload for account creation
type SignupRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the session token back to the client
type AuthResponse struct {
	Token string `json:"token"` // Session token
}

// SignupHandler registers a new user account.
// Signing up with the name "admin" (any casing) grants the admin flag.
func SignupHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
			return
		}
		username := strings.TrimSpace(req.Username) // Trim surrounding whitespace
		password := strings.TrimSpace(req.Password) // Trim surrounding whitespace
		// Both fields must be non-empty after trimming
		if username == "" || password == "" {
			// If not, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
			return
		}
		// Hash the password before storing it
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// The admin flag is decided once, at signup time
		user := domain.User{
			Username: username,                                // Stored as given, case-sensitive unique
			Password: string(hash),                            // Hashed password
			IsAdmin:  strings.EqualFold(username, "admin"),    // "admin" in any casing is the admin
		}
		// Attempt to create the user; the unique index rejects duplicates
		if err := db.Create(&user).Error; err != nil {
			// If creation fails (e.g., duplicate username), return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
			return
		}
		// Log the new account
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
			"is_admin": user.IsAdmin,  // Admin flag
		}).Info("User signed up")
		ctx := context.Background() // Context for Redis operations
		// Invalidate the cached admin user listing (simple version: delete first 5 pages)
		for i := 1; i <= 5; i++ {
			// Delete cache entries for the default page size
			_ = utils.DeleteCache(ctx, rdb, "admin:users:page="+strconv.Itoa(i)+":size=20")
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Signup successful. Please login."})
	}
}

// LoginHandler authenticates a user and returns a session token.
// The token is also set as an HTTP-only cookie for browser clients.
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash (constant-time)
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate the session token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Session cookie for browser clients, 24h to match the token lifetime
		c.SetCookie(middleware.SessionCookie, token, int((24 * time.Hour).Seconds()), "/", "", false, true)
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// LogoutHandler revokes the current session token and clears the cookie
func LogoutHandler(jwtSecret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, exists := c.Get("sessionToken") // Raw token stored by the auth middleware
		// The middleware always sets it; guard anyway
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		token := tokenStr.(string) // Raw session token
		// Denylist the token until its natural expiry
		if claims, err := utils.ParseJWT(token, jwtSecret); err == nil && claims.ExpiresAt != nil {
			ttl := time.Until(claims.ExpiresAt.Time) // Remaining token lifetime
			// Revocation failures are logged, not fatal
			if err := utils.DenylistToken(c.Request.Context(), rdb, token, ttl); err != nil {
				logrus.WithField("error", err.Error()).Warn("Failed to denylist session token")
			}
		}
		// Clear the session cookie
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
	}
}
