package integration

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/cyfrhq/cyfr-api/internal/config"
	"github.com/cyfrhq/cyfr-api/internal/handlers"
	authmw "github.com/cyfrhq/cyfr-api/internal/middleware"
	"github.com/cyfrhq/cyfr-api/internal/services"
	"github.com/cyfrhq/cyfr-api/tests/testutil"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

// TestMain runs before all tests in this package
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// setupTest creates a test database and returns cleanup function
func setupTest(t *testing.T) *testutil.TestDB {
	t.Helper()
	return testutil.SetupTestDB(t)
}

// newTestApp wires the full HTTP application over the test database, the way
// the server binary does.
func newTestApp(tdb *testutil.TestDB) http.Handler {
	cfg := &config.Config{
		Port:                "8080",
		Env:                 "test",
		JWTSecret:           "test-secret-key-for-testing-only",
		JWTAccessExpiry:     15 * time.Minute,
		JWTRefreshExpiry:    24 * time.Hour,
		FrontendCallbackURL: "http://localhost:3000/auth/callback",
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(tdb.DB)
	tokenService := services.NewTokenService(tdb.DB)
	profileService := services.NewProfileService(tdb.DB)
	workspaceService := services.NewWorkspaceService(tdb.DB)
	projectService := services.NewProjectService(tdb.DB)
	taskService := services.NewTaskService(tdb.DB)

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService, profileService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, profileService)
	projectHandler := handlers.NewProjectHandler(projectService, workspaceService)
	taskHandler := handlers.NewTaskHandler(taskService, projectService, workspaceService)

	app := drift.New()
	app.SetMode(drift.ReleaseMode)
	app.Use(middleware.Recovery())
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
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

	return app
}
