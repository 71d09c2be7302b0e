package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/commerce/internal/model"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByAPIToken(ctx context.Context, token string) (*model.User, error)
	Create(ctx context.Context, user *model.User) (*model.User, error)
}

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userSelect = `
	SELECT id, email, first_name, last_name, role, password_hash, api_token,
	       created_at, updated_at, deleted_at
	FROM "user"
	WHERE deleted_at IS NULL AND `

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	rows, err := r.db.Query(ctx, userSelect+where, arg)
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `LOWER(email) = LOWER($1)`, email)
}

func (r *userRepository) GetByAPIToken(ctx context.Context, token string) (*model.User, error) {
	return r.getOne(ctx, `api_token = $1`, token)
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO "user" (id, email, first_name, last_name, role, password_hash, api_token)
		VALUES (@id, @email, @first_name, @last_name, @role, @password_hash, @api_token)
		RETURNING id, email, first_name, last_name, role, password_hash, api_token,
		          created_at, updated_at, deleted_at`,
		pgx.NamedArgs{
			"id":            user.ID,
			"email":         user.Email,
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"role":          user.Role,
			"password_hash": user.PasswordHash,
			"api_token":     user.APIToken,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return created, nil
}
