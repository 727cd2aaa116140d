package authControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammed1675/ScentsByMotun/controllers/respond"
	"github.com/muhammed1675/ScentsByMotun/session"
)

type credentials struct {
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required"`
	Metadata map[string]any `json:"metadata"`
}

// POST /auth/signup
func SignUp(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input credentials
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		user, err := sessions.SignUp(c.Request.Context(), input.Email, input.Password, input.Metadata)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": user})
	}
}

// POST /auth/signin
func SignIn(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input credentials
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		user, err := sessions.SignIn(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "is_admin": sessions.IsAdmin()})
	}
}

// POST /auth/signout
func SignOut(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.SignOut(c.Request.Context()); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
	}
}

// POST /auth/refresh
func Refresh(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.Refresh(c.Request.Context()); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Session refreshed"})
	}
}

// GET /auth/session
func CurrentSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Current()
		if s == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil, "is_admin": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": s.User, "is_admin": sessions.IsAdmin()})
	}
}
