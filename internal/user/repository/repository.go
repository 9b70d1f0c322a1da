package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/verygoodisland/backend/internal/user/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrNoRowsAffected        = errors.New("no rows affected")
)

// Repository is the account store. The unique index on username is the only
// serialization point for concurrent registration; Create surfaces a
// uniqueness violation as ErrUsernameAlreadyExists, distinct from any other
// failure.
type Repository interface {
	Create(ctx context.Context, user domain.User) (int64, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	Update(ctx context.Context, id int64, patch domain.ProfilePatch) error
	UpdatePhoto(ctx context.Context, id int64, photo string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int, factor string) (domain.UserPage, error)
}

const userColumns = `id, username, password_hash, nickname, city, photo, word, letters_sent, letters_received, created_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (username, password_hash, nickname, city)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		user.Username,
		user.PasswordHash,
		user.Nickname,
		user.City,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrUsernameAlreadyExists
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PgRepository) findOne(ctx context.Context, query string, arg any) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Nickname,
		&user.City,
		&user.Photo,
		&user.Word,
		&user.LettersSent,
		&user.LettersReceived,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *PgRepository) Update(ctx context.Context, id int64, patch domain.ProfilePatch) error {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Nickname != nil {
		add("nickname", *patch.Nickname)
	}
	if patch.City != nil {
		add("city", *patch.City)
	}
	if patch.Word != nil {
		add("word", *patch.Word)
	}
	if patch.Photo != nil {
		add("photo", *patch.Photo)
	}
	if patch.LettersSent != nil {
		add("letters_sent", *patch.LettersSent)
	}
	if patch.LettersReceived != nil {
		add("letters_received", *patch.LettersReceived)
	}

	if len(sets) == 0 {
		return ErrNoRowsAffected
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d`,
		strings.Join(sets, ", "),
		len(args),
	)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *PgRepository) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET photo = $1 WHERE id = $2`, photo, id)
	if err != nil {
		return fmt.Errorf("failed to update user photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// escapeLike neutralizes LIKE metacharacters in a caller-supplied filter so
// it matches literally instead of acting as a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *PgRepository) List(ctx context.Context, page, pageSize int, factor string) (domain.UserPage, error) {
	result := domain.UserPage{Page: page, PageSize: pageSize}
	pattern := "%" + escapeLike(factor) + "%"

	err := r.pool.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM users WHERE username ILIKE $1 OR nickname ILIKE $1`,
		pattern,
	).Scan(&result.Total)
	if err != nil {
		return domain.UserPage{}, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE username ILIKE $1 OR nickname ILIKE $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		pattern,
		pageSize,
		(page-1)*pageSize,
	)
	if err != nil {
		return domain.UserPage{}, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.Nickname,
			&user.City,
			&user.Photo,
			&user.Word,
			&user.LettersSent,
			&user.LettersReceived,
			&user.CreatedAt,
		); err != nil {
			return domain.UserPage{}, fmt.Errorf("failed to scan user: %w", err)
		}
		result.Records = append(result.Records, user)
	}

	if rows.Err() != nil {
		return domain.UserPage{}, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return result, nil
}
