package controllers

import (
	"errors"
	"time"

	"github.com/moghtech/komodo-core/internal/domain"
	"github.com/moghtech/komodo-core/internal/version"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// ServerController serves the read-only operational view of managed servers
type ServerController struct {
	servers      domain.ServerStore
	stateChecker domain.ServerStateChecker
	statusCache  domain.ServerStatusCache
}

type ServerControllerDependencies struct {
	Servers      domain.ServerStore
	StateChecker domain.ServerStateChecker
	StatusCache  domain.ServerStatusCache
}

func NewServerController(deps ServerControllerDependencies) *ServerController {
	return &ServerController{
		servers:      deps.Servers,
		stateChecker: deps.StateChecker,
		statusCache:  deps.StatusCache,
	}
}

type ServerStateResponse struct {
	Server string             `json:"server"`
	State  domain.ServerState `json:"state"`
}

func (c *ServerController) Health(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   "komodo-core",
		"version":   version.GetVersion(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (c *ServerController) Version(ctx fiber.Ctx) error {
	return ctx.JSON(version.Get())
}

// GetServerState looks the server up by id or name and reports its
// periphery health.
func (c *ServerController) GetServerState(ctx fiber.Ctx) error {
	idOrName := ctx.Params("server")
	if idOrName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Server id or name is required")
	}

	server, err := c.servers.GetServer(ctx.RequestCtx(), idOrName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Server not found")
		}

		log.Error().Err(err).Str("server", idOrName).Msg("Failed to get server")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get server")
	}

	state := c.stateChecker.State(ctx.RequestCtx(), server)

	return ctx.JSON(ServerStateResponse{
		Server: server.ID,
		State:  state,
	})
}

// ListServerStates returns the states recorded by the last monitor refresh
func (c *ServerController) ListServerStates(ctx fiber.Ctx) error {
	statuses, err := c.statusCache.ListStatuses(ctx.RequestCtx())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list server states")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list server states")
	}

	return ctx.JSON(statuses)
}
