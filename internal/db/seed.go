package db

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/ChenteAlv/oh-sansi-back/internal/user"
)

// SeedRoles inserts the fixed role names, ignoring ones already present.
func SeedRoles(ctx context.Context, db *bun.DB, names ...string) error {
	roles := make([]user.Role, 0, len(names))
	for _, name := range names {
		roles = append(roles, user.Role{Name: name})
	}

	_, err := db.NewInsert().
		Model(&roles).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}

	slog.Info("roles seeded", "roles", names)
	return nil
}
