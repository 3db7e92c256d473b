package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inspection-service/internal/domain"
)

// UserPatch carries the fields of a partial user update. Nil fields are left
// untouched. Password changes are not expressible here on purpose.
type UserPatch struct {
	Name        *string
	Email       *string
	Role        *domain.UserRole
	Department  *string
	Expertise   *[]string
	PhoneNumber *string
	Avatar      *string
	IsActive    *bool
}

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	ListAll(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	SetActive(ctx context.Context, id string, isActive bool) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, role, department, expertise, phone_number, avatar,
       is_active, last_active, password_hash, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, role, department, expertise, phone_number, avatar, is_active, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Role,
		user.Department,
		user.Expertise,
		user.PhoneNumber,
		user.Avatar,
		user.IsActive,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC`, userColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role=$1 ORDER BY created_at DESC`, userColumns)
	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id=$1`, userColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	args := []any{email}
	if excludeID != "" {
		query = `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1 AND id<>$2)`
		args = append(args, excludeID)
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Role != nil {
		add("role", *patch.Role)
	}
	if patch.Department != nil {
		add("department", *patch.Department)
	}
	if patch.Expertise != nil {
		add("expertise", *patch.Expertise)
	}
	if patch.PhoneNumber != nil {
		add("phone_number", *patch.PhoneNumber)
	}
	if patch.Avatar != nil {
		add("avatar", *patch.Avatar)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)
	return r.fetchSingle(ctx, query, args...)
}

func (r *userRepository) SetActive(ctx context.Context, id string, isActive bool) (*domain.User, error) {
	// Activation stamps last_active; deactivation clears it.
	query := fmt.Sprintf(`
        UPDATE users SET is_active=$1,
            last_active = CASE WHEN $1 THEN NOW() ELSE NULL END
        WHERE id=$2 RETURNING %s`, userColumns)
	return r.fetchSingle(ctx, query, isActive, id)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.Department,
		&user.Expertise,
		&user.PhoneNumber,
		&user.Avatar,
		&user.IsActive,
		&user.LastActive,
		&user.PasswordHash,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Role,
			&user.Department,
			&user.Expertise,
			&user.PhoneNumber,
			&user.Avatar,
			&user.IsActive,
			&user.LastActive,
			&user.PasswordHash,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
