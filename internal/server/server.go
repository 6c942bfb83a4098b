package server

import (
	"github.com/moghtech/komodo-core/internal/controllers"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type HTTPServerDependencies struct {
	ServerController *controllers.ServerController

	// Skips the request logger, used by tests.
	DisableRequestLogging bool
}

func NewHTTPServer(deps HTTPServerDependencies) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName: "komodo-core",
	})

	router.Use(cors.New())
	if !deps.DisableRequestLogging {
		router.Use(logger.New())
	}

	router.Get("/health", deps.ServerController.Health)
	router.Get("/version", deps.ServerController.Version)

	servers := router.Group("/servers")
	servers.Get("/states", deps.ServerController.ListServerStates)
	servers.Get("/:server/state", deps.ServerController.GetServerState)

	return router
}
