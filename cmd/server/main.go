package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/devconnect/backend/internal/config"
	"github.com/devconnect/backend/internal/handlers"
	appMiddleware "github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/services"
)

func main() {
	cfg := config.Load()

	var (
		userService    services.UserService
		profileService services.ProfileService
		postService    services.PostService
	)

	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		users, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect users store: %v", err)
		}
		defer users.Close(context.Background())

		profiles, err := services.NewMongoProfileService(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect profiles store: %v", err)
		}
		defer profiles.Close(context.Background())

		posts, err := services.NewMongoPostService(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect posts store: %v", err)
		}
		defer posts.Close(context.Background())

		userService, profileService, postService = users, profiles, posts
	} else {
		log.Printf("MONGO_URI not set; using JSON-backed in-memory storage at %s", cfg.DataDir)

		users, err := services.NewMemoryUserService(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize users store: %v", err)
		}
		profiles, err := services.NewMemoryProfileService(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize profiles store: %v", err)
		}
		posts, err := services.NewMemoryPostService(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize posts store: %v", err)
		}

		userService, profileService, postService = users, profiles, posts
	}

	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, cfg.JWTExpiration)
	profileHandler := handlers.NewProfileHandler(profileService, userService)
	postHandler := handlers.NewPostHandler(postService)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/users/register", authHandler.Register)
		r.Post("/users/login", authHandler.Login)

		r.Get("/profile/handle/{handle}", profileHandler.GetByHandle)
		r.Get("/profile/user/{profileId}", profileHandler.GetByID)

		r.Get("/posts", postHandler.List)
		r.Get("/posts/{postId}", postHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))

			r.Get("/users/current", authHandler.Current)

			r.Get("/profile", profileHandler.GetCurrent)
			r.Post("/profile", profileHandler.Upsert)

			r.Post("/posts", postHandler.Create)
			r.Delete("/posts/{postId}", postHandler.Delete)
			r.Post("/posts/like/{postId}", postHandler.Like)
			r.Post("/posts/unlike/{postId}", postHandler.Unlike)
			r.Post("/posts/comment/{postId}", postHandler.AddComment)
			r.Delete("/posts/comment/{postId}/{commentId}", postHandler.RemoveComment)
		})
	})

	log.Printf("DevConnect API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
