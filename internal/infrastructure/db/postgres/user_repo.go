package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
)

const uniqueViolation = "23505"

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// mapWriteErr turns unique violations into conflicts, anything else into db_unavailable.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "username"):
			return domain.ErrUsernameAlreadyExists()
		case strings.Contains(pgErr.ConstraintName, "email"):
			return domain.ErrEmailAlreadyExists()
		}
	}
	return domain.ErrDBUnavailable(err)
}

func (r *UserRepo) queryUsers(ctx context.Context, q string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		ur, err := scanUser(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainUser(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

// ---------- directory.UserRepo ----------

func (r *UserRepo) List(ctx context.Context, p domain.PageRequest) ([]domain.User, error) {
	p = p.Normalize()
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id ASC LIMIT $1 OFFSET $2;`
	return r.queryUsers(ctx, q, p.Size, p.Offset())
}

func (r *UserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id ASC;`
	return r.queryUsers(ctx, q)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, domain.ErrUserNotFound()
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
INSERT INTO users (username, name, email, password_hash, enabled, date_of_birth, role, sector, locality)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING ` + userColumns + `;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.Username, u.FullName, u.Email, u.PasswordHash, u.Enabled, dobArg(u), u.Role, u.Sector, u.Locality,
	))
	if err != nil {
		return domain.User{}, mapWriteErr(err)
	}
	return toDomainUser(ur), nil
}

// Update writes u only when the stored version still equals u.Version.
func (r *UserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	if u.ID <= 0 {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	// empty password_hash keeps the stored one
	const q = `
UPDATE users
SET username = $3,
    name = $4,
    email = $5,
    password_hash = COALESCE(NULLIF($6, ''), password_hash),
    enabled = $7,
    date_of_birth = $8,
    role = $9,
    sector = $10,
    locality = $11,
    version = version + 1,
    updated_at = NOW()
WHERE id = $1 AND version = $2
RETURNING ` + userColumns + `;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.ID, u.Version,
		u.Username, u.FullName, u.Email, u.PasswordHash, u.Enabled, dobArg(u), u.Role, u.Sector, u.Locality,
	))
	if err == nil {
		return toDomainUser(ur), nil
	}
	if !isNoRows(err) {
		return domain.User{}, mapWriteErr(err)
	}

	// no row matched: either gone or someone bumped the version
	exists, xerr := r.Exists(ctx, u.ID)
	if xerr != nil {
		return domain.User{}, xerr
	}
	if !exists {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return domain.User{}, domain.ErrOptimisticLock()
}

func (r *UserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1);`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&ok); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return ok, nil
}

func (r *UserRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}
