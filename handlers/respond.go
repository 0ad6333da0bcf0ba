package handlers

import (
	"errors"
	"log"
	"net/http"

	"unicampus/services"

	"github.com/gin-gonic/gin"
)

// statusFor maps the service error kinds to transport status codes. The
// services themselves never know about HTTP.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindInvalid:
		return http.StatusBadRequest
	case services.KindAlreadyFinalized:
		return http.StatusConflict
	case services.KindExpired:
		return http.StatusGone
	case services.KindEmptyContent:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		c.JSON(statusFor(se.Kind), gin.H{"error": se.Message})
		return
	}
	log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// caller reads the identity the auth middleware stored on the context.
func caller(c *gin.Context) (uint, string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, "", false
	}
	role, _ := c.Get("role")
	roleStr, _ := role.(string)
	return userID.(uint), roleStr, true
}
