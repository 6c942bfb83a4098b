package managers

import (
	"context"

	"github.com/moghtech/komodo-core/internal/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type permissionManager struct {
	permissions domain.PermissionStore
	logger      zerolog.Logger
}

type PermissionManagerDependencies struct {
	Permissions domain.PermissionStore
	Logger      *zerolog.Logger
}

func NewPermissionManager(deps PermissionManagerDependencies) domain.PermissionManager {
	logger := log.Logger
	if deps.Logger != nil {
		logger = *deps.Logger
	}

	return &permissionManager{
		permissions: deps.Permissions,
		logger:      logger,
	}
}

// CreatePermission grants user access to a resource it just created. Admins
// already have access to everything and get no row. A failed insert is logged
// and swallowed because the resource itself was already created.
func (m *permissionManager) CreatePermission(ctx context.Context, user *domain.User, target domain.ResourceTargeter, level domain.PermissionLevel, specific domain.SpecificPermissions) {
	if user.Admin {
		return
	}

	resourceTarget := target.ResourceTarget()

	if specific == nil {
		specific = domain.SpecificPermissions{}
	}

	id, err := m.permissions.InsertPermission(ctx, domain.Permission{
		UserTarget:     domain.UserTargetUser(user.ID),
		ResourceTarget: resourceTarget,
		Level:          level,
		Specific:       specific,
	})
	if err != nil {
		m.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Str("target", resourceTarget.String()).
			Msgf("failed to create permission for %s", resourceTarget)
		return
	}

	m.logger.Debug().
		Str("permission_id", id).
		Str("user_id", user.ID).
		Str("target", resourceTarget.String()).
		Str("level", string(level)).
		Msg("Created permission")
}
