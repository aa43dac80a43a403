package routes

import (
	"fleet_tracker/internal/controllers"
	"fleet_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func CarRoutes(r *gin.Engine) {
	cars := r.Group("/cars")
	cars.Use(middleware.RequireAuth())
	{
		cars.POST("/", controllers.CreateCar)
		cars.GET("/:id", controllers.GetCar)
		cars.PUT("/:id", controllers.UpdateCar)
		cars.PATCH("/:id/maintenance", controllers.UpdateMaintenance)
		cars.PATCH("/:id/renew", controllers.RenewSubscription)
		cars.DELETE("/:id", controllers.DeleteCar)

		cars.GET("/group/:group_id", controllers.ListCarsByGroup)
		cars.GET("/account/:account_id", controllers.ListCarsByAccount)
		cars.GET("/path/:path_id", controllers.ListCarsByPath)
		cars.GET("/unassigned", controllers.ListCarsWithoutDriver)
		cars.GET("/driver/:driver_id", controllers.FindCarsByDriver)
		cars.GET("/imei/:imei", controllers.FindCarsByIMEI)
		cars.GET("/sim/:sim", controllers.FindCarsBySim)
		cars.GET("/installer/:name", controllers.SearchCarsByInstaller)
		cars.GET("/company/:name", controllers.SearchCarsByCompany)
		cars.GET("/location/:location", controllers.SearchCarsByLocation)

		// Day-granular ranges via ?from=YYYY-MM-DD&to=YYYY-MM-DD
		cars.GET("/activated", controllers.ListCarsByActivationDate)
		cars.GET("/expiring", controllers.ListCarsByExpirationDate)
		cars.GET("/installed", controllers.ListCarsByInstallationDate)
	}
}
