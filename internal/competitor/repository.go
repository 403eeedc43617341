package competitor

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/ChenteAlv/oh-sansi-back/internal/user"
)

var ErrCompetitorNotFound = errors.New("competitor not found")

type Repository interface {
	ExistsByEmailOrCI(ctx context.Context, email, ci string) (bool, error)
	CreateWithUser(ctx context.Context, u *user.User, c *Competitor) error
	GetByUserID(ctx context.Context, userID int) (*Competitor, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

// ExistsByEmailOrCI reports whether a user with the given email or a
// competitor with the given CI is already registered.
func (r *repository) ExistsByEmailOrCI(ctx context.Context, email, ci string) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*user.User)(nil)).
		Join("LEFT JOIN competitors AS c ON c.user_id = u.id").
		Where("u.email = ? OR c.ci = ?", email, ci).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWithUser inserts the user and its competitor in one transaction.
// The unique constraints on users.email and competitors.ci are the
// authoritative duplicate guard; callers translate integrity violations.
func (r *repository) CreateWithUser(ctx context.Context, u *user.User, c *Competitor) error {
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		role := new(user.Role)
		if err := tx.NewSelect().Model(role).Where("name = ?", user.RoleCompetitor).Scan(ctx); err != nil {
			return err
		}
		u.RoleID = role.ID

		if _, err := tx.NewInsert().Model(u).Returning("*").Exec(ctx); err != nil {
			return err
		}

		c.UserID = u.ID
		if _, err := tx.NewInsert().Model(c).Returning("*").Exec(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Fetch back with school, province (and its region) and user for the response.
	return r.db.NewSelect().
		Model(c).
		Relation("User").
		Relation("User.Role").
		Relation("School").
		Relation("Province").
		Relation("Province.Region").
		Where("c.id = ?", c.ID).
		Scan(ctx)
}

func (r *repository) GetByUserID(ctx context.Context, userID int) (*Competitor, error) {
	c := new(Competitor)
	err := r.db.NewSelect().
		Model(c).
		Where("c.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitorNotFound
		}
		return nil, err
	}
	return c, nil
}
