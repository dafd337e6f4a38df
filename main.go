package main

import (
	"net/http"
	"os"
	"strings"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"meroboard/database"
	"meroboard/handlers"
	"meroboard/utilities"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Not fatal; production sets real environment variables.
		utilities.Log.Info("no .env file found, using process environment")
	}
	utilities.InitLogger()

	if _, err := database.Connect(); err != nil {
		utilities.Log.Fatalf("database connection failed: %v", err)
	}
	defer database.DB.Close()

	if err := database.EnsureSchema(database.DB); err != nil {
		utilities.Log.Fatalf("schema setup failed: %v", err)
	}

	router := NewRouter()

	origins := []string{"*"}
	if env := os.Getenv("CORS_ALLOWED_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(origins),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	utilities.Log.WithField("port", port).Info("server starting")
	if err := http.ListenAndServe(":"+port, handlers.LoggingMiddleware(cors(router))); err != nil {
		utilities.Log.Fatalf("server stopped: %v", err)
	}
}
