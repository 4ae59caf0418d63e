package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"item-audit-api/auth"
	"item-audit-api/controllers"
	"item-audit-api/database"
	"item-audit-api/logger"
	appmiddleware "item-audit-api/middleware"
	"item-audit-api/models"
	"item-audit-api/repositories"
)

func main() {
	// Load environment variables from .env file, if present
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Initialize database
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "item_audit.db"
	}
	db, err := database.Initialize(dbPath)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	// Seed the default user so the token flow works out of the box
	if err := seedDefaultUser(repos.User); err != nil {
		log.Fatal("Failed to seed default user", zap.Error(err))
	}

	// Initialize token service
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "my_super_wonderful_secret_key"
	}
	tokens := auth.NewTokenService(secret, auth.DefaultTokenTTL)

	// Initialize controllers
	ctrl := controllers.NewControllers(repos, tokens)

	// Set up router
	r := setupRouter(ctrl, repos, tokens, log)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info("Item audit API starting",
		zap.String("port", port),
		zap.String("database", dbPath),
	)

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, repos *repositories.Repositories, tokens *auth.TokenService, log *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.AuditLogger(repos.Audit, repos.User, tokens, log))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"message": "Fast API in Python"}`)
	})

	r.Post("/token", ctrl.Auth.Token)

	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireAuth(tokens, repos.User))
		r.Get("/users/me", ctrl.Auth.Me)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", ctrl.Item.List)
		r.Post("/", ctrl.Item.Create)
		r.Get("/{itemID}", ctrl.Item.Get)
	})

	r.Get("/audit_log/", ctrl.AuditLog.List)

	return r
}

// seedDefaultUser creates the test user if it does not exist yet
func seedDefaultUser(users repositories.UserRepository) error {
	ctx := context.Background()

	if _, err := users.GetByUsername(ctx, "test"); err == nil {
		return nil
	}

	hash, err := auth.HashPassword("test")
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	return users.Create(ctx, &models.User{Username: "test", HashedPassword: hash})
}
