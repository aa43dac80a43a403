package routes

import (
	"fleet_tracker/internal/controllers"
	"fleet_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func DriverRoutes(r *gin.Engine) {
	drivers := r.Group("/drivers")
	drivers.Use(middleware.RequireAuth())
	{
		drivers.POST("/", controllers.CreateDriver)
		drivers.GET("/:id", controllers.GetDriver)
		drivers.GET("/search/:key", controllers.SearchDrivers)
		drivers.GET("/group/:group_id", controllers.ListDriversByGroup)
		drivers.GET("/car/:car_id", controllers.ListDriversByCar)
		drivers.GET("/unassigned", controllers.ListDriversWithoutCar)
		drivers.PATCH("/:id/rate/:value", controllers.RateDriver)
		drivers.PUT("/:id", controllers.UpdateDriver)
		drivers.DELETE("/:id", controllers.DeleteDriver)
	}
}
