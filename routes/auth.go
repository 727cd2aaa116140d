package routes

import (
	"github.com/gin-gonic/gin"

	authControllers "github.com/muhammed1675/ScentsByMotun/controllers/auth"
	"github.com/muhammed1675/ScentsByMotun/middleware"
)

// SetupAuthRoutes registers the "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", authControllers.SignUp(deps.Sessions))   // POST /auth/signup
		authGroup.POST("/signin", authControllers.SignIn(deps.Sessions))   // POST /auth/signin
		authGroup.GET("/session", authControllers.CurrentSession(deps.Sessions)) // GET /auth/session

		protected := authGroup.Group("")
		protected.Use(middleware.RequireSession(deps.Sessions))
		{
			protected.POST("/signout", authControllers.SignOut(deps.Sessions)) // POST /auth/signout
			protected.POST("/refresh", authControllers.Refresh(deps.Sessions)) // POST /auth/refresh
		}
	}
}
