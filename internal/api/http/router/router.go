package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/accounts-server/internal/api/http/handler"
	"github.com/dtroode/accounts-server/internal/api/http/middleware"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
	"github.com/dtroode/accounts-server/internal/service"
)

const appName = "accounts-server"

// Router wires HTTP routes to the account services.
type Router struct {
	authService    *service.Auth
	userService    *service.Users
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService *service.Auth,
	userService *service.Users,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the fiber application with every route and middleware.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		StrictRouting:         false,
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler(r.logger),
	})

	logging := middleware.NewLogging(r.logger)
	app.Use(logging.Handle)

	app.Get("/", handler.Health)

	r.registerAuthRoutes(app)
	r.registerUserRoutes(app)

	return app
}

func (r *Router) registerAuthRoutes(app *fiber.App) {
	authHandler := handler.NewAuth(r.authService, r.logger)

	app.Post("/auth/token", authHandler.Token)
}

func (r *Router) registerUserRoutes(app *fiber.App) {
	userHandler := handler.NewUser(r.userService, r.contextManager, r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	users := app.Group("/users")
	users.Post("", userHandler.Create)
	users.Get("", userHandler.List)
	// registered before /:id so "me" is never taken for an id
	users.Get("/me", authenticate.Handle, userHandler.Me)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", authenticate.Handle, userHandler.Update)
	users.Patch("/:id", authenticate.Handle, userHandler.Patch)
	users.Delete("/:id", authenticate.Handle, userHandler.Delete)
}
