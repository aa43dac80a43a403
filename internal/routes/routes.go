package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires recovery, request logging and every route group onto
// a fresh engine. CORS is attached by the caller around the whole engine.
func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	UserRoutes(r)
	AccountRoutes(r)
	GroupRoutes(r)
	DriverRoutes(r)
	CarRoutes(r)
	GPSDeviceRoutes(r)

	return r
}
