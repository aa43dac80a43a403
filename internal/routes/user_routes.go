package routes

import (
	"fleet_tracker/internal/controllers"
	"fleet_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func UserRoutes(r *gin.Engine) {
	users := r.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		users.POST("/", controllers.RegisterUser)
		users.GET("/:id", controllers.GetUser)
		users.GET("/search/:key/:value", controllers.SearchUsers)
		users.GET("/account/:id", controllers.ListUsersByAccount)
		users.GET("/group/:id", controllers.ListUsersByGroup)
		users.PUT("/:id", controllers.UpdateUser)
		users.PATCH("/:id/password", controllers.ChangePassword)
		users.PATCH("/:id/password/reset", controllers.ResetPassword)
		users.DELETE("/:id", controllers.DeleteUser)
	}
}
