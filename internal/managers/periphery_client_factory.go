package managers

import (
	"context"
	"errors"
	"time"

	"github.com/moghtech/komodo-core/internal/config"
	"github.com/moghtech/komodo-core/internal/domain"
	"github.com/moghtech/komodo-core/pkg/periphery"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type peripheryClientFactory struct {
	config *config.CoreConfig
	opts   []periphery.ClientOption
}

type PeripheryClientFactoryDependencies struct {
	Config *config.CoreConfig

	// Appended after the server derived options, mainly for tests.
	ClientOptions []periphery.ClientOption
}

func NewPeripheryClientFactory(deps PeripheryClientFactoryDependencies) domain.PeripheryClientFactory {
	return &peripheryClientFactory{
		config: deps.Config,
		opts:   deps.ClientOptions,
	}
}

// Client builds a fresh client from the server's current config. Disabled
// servers are refused with domain.ErrServerDisabled.
func (f *peripheryClientFactory) Client(server *domain.Server) (*periphery.Client, error) {
	if !server.Config.Enabled {
		return nil, domain.ErrServerDisabled
	}

	passkey := server.Config.Passkey
	if passkey == "" {
		passkey = f.config.Passkey
	}

	timeoutSeconds := server.Config.TimeoutSeconds
	if timeoutSeconds < 0 {
		timeoutSeconds = 0
	}

	options := []periphery.ClientOption{
		periphery.WithBaseURL(server.Config.Address),
		periphery.WithPasskey(passkey),
		periphery.WithHeaders(requestHeaders(server.Config)),
		periphery.WithTimeout(time.Duration(timeoutSeconds) * time.Second),
	}

	return periphery.NewClient(append(options, f.opts...)...), nil
}

// requestHeaders copies request_headers as-is so the client cannot alias the
// server's map.
func requestHeaders(config domain.ServerConfig) map[string]string {
	headers := make(map[string]string, len(config.RequestHeaders))
	for key, value := range config.RequestHeaders {
		headers[key] = value
	}
	return headers
}

type serverStateChecker struct {
	clientFactory domain.PeripheryClientFactory
	logger        zerolog.Logger
}

type ServerStateCheckerDependencies struct {
	ClientFactory domain.PeripheryClientFactory
	Logger        *zerolog.Logger
}

func NewServerStateChecker(deps ServerStateCheckerDependencies) domain.ServerStateChecker {
	logger := log.Logger
	if deps.Logger != nil {
		logger = *deps.Logger
	}

	return &serverStateChecker{
		clientFactory: deps.ClientFactory,
		logger:        logger,
	}
}

func (c *serverStateChecker) State(ctx context.Context, server *domain.Server) domain.ServerState {
	client, err := c.clientFactory.Client(server)
	if errors.Is(err, domain.ErrServerDisabled) {
		return domain.ServerStateDisabled
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("server_id", server.ID).Msg("Failed to create periphery client")
		return domain.ServerStateNotOk
	}

	if err := client.GetHealth(ctx); err != nil {
		if apiErr, ok := periphery.AsError(err); ok && apiErr.IsAuthError() {
			c.logger.Warn().
				Str("server_id", server.ID).
				Int("status", apiErr.StatusCode).
				Msg("Periphery rejected the passkey")

			return domain.ServerStateNotOk
		}

		c.logger.Warn().
			Err(err).
			Str("server_id", server.ID).
			Str("address", server.Config.Address).
			Msg("Server health check failed")

		return domain.ServerStateNotOk
	}

	return domain.ServerStateOk
}
