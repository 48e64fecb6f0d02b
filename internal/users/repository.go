package users

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/ntquang22298/study-chain/internal/identity"
)

var (
	// ErrAccountExists is returned by Create for a taken username.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound is returned by UpdatePassword when no row matches.
	ErrAccountNotFound = errors.New("account not found")
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repository stores accounts in postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over db
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindByUsername returns the account, or nil without error when there is none.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	query, args, err := psql.
		Select("username", "password_hash", "role", "created_at").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build account query")
	}

	var (
		a    Account
		role int
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&a.Username, &a.PasswordHash, &role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to get account [%s]", username)
	}
	a.Role = identity.Role(role)
	return &a, nil
}

// UpdatePassword replaces the password hash of an existing account. No
// other column is written.
func (r *Repository) UpdatePassword(ctx context.Context, username, digest string) error {
	query, args, err := psql.
		Update("users").
		Set("password_hash", digest).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build password update")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "failed to update password of [%s]", username)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Create inserts a new account and fills in its creation time.
func (r *Repository) Create(ctx context.Context, a *Account) error {
	query, args, err := psql.
		Insert("users").
		Columns("username", "password_hash", "role").
		Values(a.Username, a.PasswordHash, int(a.Role)).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build account insert")
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&a.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrAccountExists
		}
		return errors.Wrapf(err, "failed to create account [%s]", a.Username)
	}
	return nil
}
