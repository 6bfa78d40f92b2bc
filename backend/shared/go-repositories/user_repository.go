// go-repositories/user_repository.go

package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

const (
	usersEmailKey    = "users_email_lower_key"
	usersUsernameKey = "users_username_lower_key"
)

// UserRepository is the credential store.
//
// Emails are stored lower-cased; email and username uniqueness is enforced
// case-insensitively by the users_*_lower_key indexes. Lookups return
// (nil, nil) when no row matches.
type UserRepository interface {
	// Create inserts an unverified user. Returns utils.ErrEmailExists or
	// utils.ErrUsernameExists on a duplicate.
	Create(ctx context.Context, u *models.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByIdentifier matches either the email or the username, ignoring case.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// MarkVerified is idempotent. Returns utils.ErrUserNotFound if no user has that email.
	MarkVerified(ctx context.Context, email string) error

	// UpdatePasswordHash is idempotent. Returns utils.ErrUserNotFound for an unknown id.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error

	// UpdateProfile applies the non-nil fields of upd. Returns
	// utils.ErrUsernameExists if the username belongs to another user.
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) error
}

type userRepo struct {
	*BaseVersionedRepo[*models.User]
	db DB
}

func NewUserRepository(db DB) UserRepository {
	r := &userRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectUser()+" WHERE id=$1", r.scanUser)
	return r
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = utils.NormalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)

	err := r.db.QueryRow(ctx, `
        INSERT INTO users (id, email, username, password_hash, is_verified, bio, avatar_path)
        VALUES ($1, $2, $3, $4, FALSE, $5, $6)
        RETURNING row_version, created_at, updated_at
    `,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Bio, u.AvatarPath,
	).Scan(&u.RowVersion, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapUserUniqueViolation(err)
	}
	u.IsVerified = false
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE id=$1", id)
	return r.scanUser(row)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE lower(email)=$1", utils.NormalizeEmail(email))
	return r.scanUser(row)
}

func (r *userRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))
	row := r.db.QueryRow(ctx,
		baseSelectUser()+" WHERE lower(email)=$1 OR lower(username)=$1 ORDER BY (lower(email)=$1) DESC LIMIT 1",
		ident,
	)
	return r.scanUser(row)
}

func (r *userRepo) MarkVerified(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE users
        SET is_verified = TRUE, updated_at = NOW(), row_version = row_version + 1
        WHERE lower(email) = $1
    `, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrUserNotFound
	}
	return nil
}

func (r *userRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE users
        SET password_hash = $2, updated_at = NOW(), row_version = row_version + 1
        WHERE id = $1
    `, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrUserNotFound
	}
	return nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) error {
	if upd.Empty() {
		u, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return utils.ErrUserNotFound
		}
		return nil
	}

	err := r.UpdateWithRetry(ctx, id.String(), func(u *models.User) error {
		if upd.Username != nil {
			u.Username = strings.TrimSpace(*upd.Username)
		}
		if upd.Bio != nil {
			u.Bio = *upd.Bio
		}
		if upd.AvatarPath != nil {
			u.AvatarPath = upd.AvatarPath
		}
		return nil
	}, r.updateIfVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.ErrUserNotFound
	}
	return mapUserUniqueViolation(err)
}

func (r *userRepo) updateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE users
        SET username = $2, bio = $3, avatar_path = $4,
            updated_at = NOW(), row_version = row_version + 1
        WHERE id = $1 AND row_version = $5
    `, u.ID, u.Username, u.Bio, u.AvatarPath, expected)
}

func mapUserUniqueViolation(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, usersEmailKey):
		return utils.ErrEmailExists
	case isUniqueViolation(err, usersUsernameKey):
		return utils.ErrUsernameExists
	}
	return err
}

func baseSelectUser() string {
	return `
        SELECT id, email, username, password_hash, is_verified, bio, avatar_path,
               row_version, created_at, updated_at
        FROM users
    `
}

func (r *userRepo) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsVerified, &u.Bio, &u.AvatarPath,
		&u.RowVersion, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
