package routes

import (
	"fleet_tracker/internal/controllers"
	"fleet_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func GPSDeviceRoutes(r *gin.Engine) {
	devices := r.Group("/gpsdevices")
	devices.Use(middleware.RequireAuth())
	{
		devices.POST("/", controllers.CreateGPSDevice)
		devices.GET("/:id", controllers.GetGPSDevice)
		devices.GET("/model/:model", controllers.ListGPSDevicesByModel)
		devices.GET("/imei/:imei", controllers.FindGPSDevicesByIMEI)
		devices.DELETE("/:id", controllers.DeleteGPSDevice)
	}
}
