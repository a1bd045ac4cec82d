package middleware

import (
	"net/http"                   // HTTP status codes
	"shop_system/internal/utils" // JWT utility functions
	"strings"                    // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// SessionCookie is the cookie carrying the session token for browser clients
const SessionCookie = "session"

// JWTAuthMiddleware validates session tokens and extracts user information.
// The token comes from the Authorization header when present, otherwise
// from the session cookie set at login. Tokens revoked by logout are rejected.
func JWTAuthMiddleware(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := "" // Raw session token
		// Prefer the Authorization header
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			// The header must be a bearer token
			if !strings.HasPrefix(authHeader, "Bearer ") {
				// If malformed, abort with unauthorized status
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
				return
			}
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		} else if cookie, err := c.Cookie(SessionCookie); err == nil {
			tokenStr = cookie // Fall back to the session cookie
		}
		// Without a token from either source, reject the request
		if tokenStr == "" {
			// Abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please login first"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the session token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Reject tokens revoked by logout
		if utils.IsTokenDenylisted(c.Request.Context(), rdb, tokenStr) {
			// Abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has been logged out"})
			return
		}
		c.Set("userID", claims.UserID)  // Store userID in context
		c.Set("sessionToken", tokenStr) // Store raw token for logout
		c.Next()                        // Proceed to the next handler
	}
}
