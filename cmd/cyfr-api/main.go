package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyfrhq/cyfr-api/internal/config"
	"github.com/cyfrhq/cyfr-api/internal/database"
	"github.com/cyfrhq/cyfr-api/internal/handlers"
	authmw "github.com/cyfrhq/cyfr-api/internal/middleware"
	"github.com/cyfrhq/cyfr-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	profileService := services.NewProfileService(db)
	workspaceService := services.NewWorkspaceService(db)
	projectService := services.NewProjectService(db)
	taskService := services.NewTaskService(db)

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService, profileService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, profileService)
	projectHandler := handlers.NewProjectHandler(projectService, workspaceService)
	taskHandler := handlers.NewTaskHandler(taskService, projectService, workspaceService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Get("/users/me/profile", userHandler.GetProfile)
	protected.Post("/users/me/profile", userHandler.UpsertProfile)
	protected.Post("/profiles/lookup", userHandler.LookupProfiles)

	protected.Get("/workspaces", workspaceHandler.List)
	protected.Post("/workspaces", workspaceHandler.Create)
	protected.Get("/workspaces/:workspaceId", workspaceHandler.Get)
	protected.Delete("/workspaces/:workspaceId", workspaceHandler.Delete)
	protected.Get("/workspaces/:workspaceId/members", workspaceHandler.GetMembers)
	protected.Post("/workspaces/:workspaceId/members", workspaceHandler.AddMember)
	protected.Delete("/workspaces/:workspaceId/members/:userId", workspaceHandler.RemoveMember)

	protected.Get("/workspaces/:workspaceId/projects", projectHandler.List)
	protected.Post("/workspaces/:workspaceId/projects", projectHandler.Create)
	protected.Get("/projects/:projectId", projectHandler.Get)
	protected.Delete("/projects/:projectId", projectHandler.Delete)

	protected.Get("/projects/:projectId/tasks", taskHandler.List)
	protected.Post("/projects/:projectId/tasks", taskHandler.Create)
	protected.Get("/tasks/:taskId", taskHandler.Get)
	protected.Patch("/tasks/:taskId", taskHandler.UpdateStatus)
	protected.Delete("/tasks/:taskId", taskHandler.Delete)
	protected.Post("/tasks/:taskId/assignees/:userId", taskHandler.AddAssignee)
	protected.Delete("/tasks/:taskId/assignees/:userId", taskHandler.RemoveAssignee)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
