package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/auth-api/internal/models"
)

const userColumns = `uid, email, password_hash, first_name, last_name, is_active,
		role, is_superuser, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var role string
	if err := row.Scan(&u.UUID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.IsActive, &role, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return u, nil
}

// SaveUser создаёт или обновляет пользователя.
//
// Пользователь без UUID вставляется, хранилище назначает ему идентификатор
// и временные метки. Пароль хешируется только если он был изменён через
// SetPassword, иначе столбец password_hash не трогается.
// Нарушение уникальности email возвращает models.ErrUserExists.
func (s *Storage) SaveUser(ctx context.Context, u *models.User) error {
	const op = "storage.SaveUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	db, err := s.DB(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var hash string
	if u.PasswordModified() {
		hash, err = s.hasher.Hash(u.PlainPassword())
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	u.Email = models.NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = models.RoleUser
	}

	if u.UUID == "" {
		err = s.insertUser(ctx, db, u, hash)
	} else {
		err = s.updateUser(ctx, db, u, hash)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, models.ErrUserExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if u.PasswordModified() {
		u.MarkPasswordHashed(hash)
	}
	return nil
}

func (s *Storage) insertUser(ctx context.Context, db *sql.DB, u *models.User, hash string) error {
	if !u.PasswordModified() {
		hash = u.PasswordHash
	}
	if hash == "" {
		return errors.New("password is not set")
	}
	query := `INSERT INTO users (email, password_hash, first_name, last_name, is_active, role, is_superuser)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid, created_at, updated_at`
	return db.QueryRowContext(ctx, query,
		u.Email, hash, u.FirstName, u.LastName, u.IsActive, string(u.Role), u.IsSuperuser).
		Scan(&u.UUID, &u.CreatedAt, &u.UpdatedAt)
}

func (s *Storage) updateUser(ctx context.Context, db *sql.DB, u *models.User, hash string) error {
	if _, err := uuid.Parse(u.UUID); err != nil {
		return models.ErrUserNotFound
	}

	var row *sql.Row
	if u.PasswordModified() {
		query := `UPDATE users
				  SET email = $1, first_name = $2, last_name = $3, is_active = $4,
				      role = $5, is_superuser = $6, password_hash = $7, updated_at = NOW()
				  WHERE uid = $8
				  RETURNING updated_at`
		row = db.QueryRowContext(ctx, query,
			u.Email, u.FirstName, u.LastName, u.IsActive, string(u.Role), u.IsSuperuser, hash, u.UUID)
	} else {
		query := `UPDATE users
				  SET email = $1, first_name = $2, last_name = $3, is_active = $4,
				      role = $5, is_superuser = $6, updated_at = NOW()
				  WHERE uid = $7
				  RETURNING updated_at`
		row = db.QueryRowContext(ctx, query,
			u.Email, u.FirstName, u.LastName, u.IsActive, string(u.Role), u.IsSuperuser, u.UUID)
	}
	if err := row.Scan(&u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrUserNotFound
		}
		return err
	}
	return nil
}

// GetUserByID возвращает пользователя по его UID.
func (s *Storage) GetUserByID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := uuid.Parse(userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	db, err := s.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(db.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	db, err := s.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = $1`
	u, err := scanUser(db.QueryRowContext(ctx, query, models.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ExistsByEmail проверяет, занят ли email.
func (s *Storage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.ExistsByEmail"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	db, err := s.DB(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = $1)`
	if err := db.QueryRowContext(ctx, query, models.NormalizeEmail(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListUsers возвращает страницу пользователей в порядке регистрации и общее их число.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	db, err := s.DB(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at, uid
			  LIMIT $1 OFFSET $2`
	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
