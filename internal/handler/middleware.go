package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/auth"
)

// AuthMiddleware validates the Bearer token and stores the session claims in
// the request context.
func AuthMiddleware(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("customerId", claims.CustomerID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// GetCustomerID returns the authenticated customer's ID from the context.
func GetCustomerID(c *gin.Context) (string, bool) {
	customerID, exists := c.Get("customerId")
	if !exists {
		return "", false
	}
	return customerID.(string), true
}
