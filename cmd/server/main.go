package main

import (
	"log"
	"net/http"
	"os"

	"fleet_tracker/internal/config"
	"fleet_tracker/internal/logger"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/routes"
)

func main() {
	// Structured logging to file
	logger.Setup()

	// Connect to the database and run migrations
	config.InitDB()

	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server running at :" + port)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+port, handler))
}
