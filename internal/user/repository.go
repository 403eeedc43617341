package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
	UpdatePassword(ctx context.Context, id int, password string) error
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int) (*User, error) {
	u := new(User)
	err := r.db.NewSelect().
		Model(u).
		Relation("Role").
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u := new(User)
	err := r.db.NewSelect().
		Model(u).
		Relation("Role").
		Where("u.email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	role := new(Role)
	err := r.db.NewSelect().
		Model(role).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return role, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id int, password string) error {
	result, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("password = ?", password).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
