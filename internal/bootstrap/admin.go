package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/orgspace-auth/internal/config"
	"github.com/smallbiznis/orgspace-auth/internal/domain"
	"github.com/smallbiznis/orgspace-auth/internal/password"
	"github.com/smallbiznis/orgspace-auth/internal/repository"
)

// EnsureAdmin seeds a known account for dev/e2e runs. It does nothing unless
// both ADMIN_EMAIL and ADMIN_PASSWORD are configured.
func EnsureAdmin(lc fx.Lifecycle, cfg config.Config, users repository.UserRepository, node *snowflake.Node, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureAdmin(ctx, cfg, users, node, logger)
		},
	})
}

func ensureAdmin(ctx context.Context, cfg config.Config, users repository.UserRepository, node *snowflake.Node, logger *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	if _, err := users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("bootstrap lookup admin: %w", err)
	}

	hashed, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap hash password: %w", err)
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           node.Generate().String(),
		FirstName:    "Admin",
		LastName:     "User",
		Email:        cfg.AdminEmail,
		PasswordHash: hashed,
		CreatedAt:    now,
	}
	org := domain.Organisation{
		ID:          node.Generate().String(),
		Name:        "Admin's Organisation",
		Description: "Default organisation",
		CreatorID:   admin.ID,
		CreatedAt:   now,
	}

	if _, _, err := users.CreateWithDefaultOrg(ctx, admin, org); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil
		}
		return fmt.Errorf("bootstrap create admin: %w", err)
	}

	logger.Info("admin account seeded", zap.String("user_id", admin.ID), zap.String("email", admin.Email))
	return nil
}
