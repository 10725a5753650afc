package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin vérifie que l'identité de session a le rôle "admin"
func RequireAdmin(c *gin.Context) {
	who, ok := CurrentIdentity(c)
	if !ok || !who.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
