package routes

import (
	"fleet_tracker/internal/controllers"
	"fleet_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AccountRoutes(r *gin.Engine) {
	accounts := r.Group("/accounts")
	accounts.Use(middleware.RequireAuth())
	{
		accounts.POST("/", controllers.CreateAccount)
		accounts.GET("/", controllers.ListAccounts)
		accounts.GET("/:id", controllers.GetAccount)
		accounts.GET("/search/:name", controllers.SearchAccountsByName)
		accounts.PUT("/:id", controllers.UpdateAccount)
		accounts.PATCH("/:id/location", controllers.SetAccountLocation)
		accounts.DELETE("/:id", controllers.DeleteAccount)
	}
}
