package routes

import (
	"fleet_tracker/internal/controllers"
	"fleet_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func GroupRoutes(r *gin.Engine) {
	groups := r.Group("/groups")
	groups.Use(middleware.RequireAuth())
	{
		groups.POST("/", controllers.CreateGroup)
		groups.GET("/:id", controllers.GetGroup)
		groups.GET("/account/:account_id", controllers.ListGroupsByAccount)
		groups.GET("/search/:name", controllers.SearchGroupsByName)
		groups.PUT("/:id", controllers.UpdateGroup)
		groups.DELETE("/:id", controllers.DeleteGroup)

		// Paths are addressed through their owning group
		groups.POST("/:id/paths", controllers.AddPath)
		groups.GET("/:id/paths", controllers.ListPaths)
		groups.PUT("/:id/paths/:path_id", controllers.RenamePath)
		groups.DELETE("/:id/paths/:path_id", controllers.DeletePath)
	}
}
