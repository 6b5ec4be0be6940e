package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/mehrab-dev/blogstack/backend/internal/router"
	"github.com/mehrab-dev/blogstack/backend/pkg/config"
	"github.com/mehrab-dev/blogstack/backend/pkg/firebase"
	"github.com/mehrab-dev/blogstack/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase. The API runs without it; only the
	// firebase-login exchange needs the auth client.
	ctx := context.Background()
	var authClient *auth.Client
	if firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath); err != nil {
		log.Printf("Firebase not initialized: %v", err)
	} else {
		authClient = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, authClient)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
