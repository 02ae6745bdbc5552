package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"caseport/core"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

func (a *Adapter) VerifyCredentials(ctx context.Context, email, password string) (*core.Identity, error) {
	query := `SELECT id, email, password, display_name FROM public.users WHERE email = $1`

	var (
		identity core.Identity
		hash     string
	)
	err := a.pool.QueryRow(ctx, query, email).Scan(&identity.ID, &identity.Email, &hash, &identity.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}

	ok, err := a.passwords.Verify(password, hash)
	if err != nil {
		return nil, fmt.Errorf("verify password hash: %w", err)
	}
	if !ok {
		return nil, core.ErrInvalidCredentials
	}

	return &identity, nil
}

func (a *Adapter) CreateUser(ctx context.Context, email, password string, displayName *string, role core.Role) (*core.Identity, error) {
	hash, err := a.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.New().String()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO public.users (id, email, password, display_name) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, query, id, email, hash, displayName); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, core.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	roleQuery := `INSERT INTO public.user_roles (user_id, role) VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, roleQuery, id, string(role)); err != nil {
		return nil, fmt.Errorf("insert role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &core.Identity{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
	}, nil
}

func (a *Adapter) GetRole(ctx context.Context, identityID string) (core.Role, error) {
	query := `SELECT role FROM public.user_roles WHERE user_id = $1`

	var raw string
	err := a.pool.QueryRow(ctx, query, identityID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", core.ErrRoleNotFound
		}
		return "", fmt.Errorf("query role: %w", err)
	}

	return core.Role(raw), nil
}

func (a *Adapter) CreateUploadRecord(ctx context.Context, rec *core.UploadRecord) error {
	query := `INSERT INTO public.case_files (id, user_id, company_id, original_file_name, saved_as_name, upload_date)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := a.pool.Exec(ctx, query,
		rec.ID, rec.OwnerUserID, rec.CompanyID, rec.OriginalFileName, rec.StoredFileName, rec.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert upload record: %w", err)
	}
	return nil
}
