package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"coursecart/models"
)

const uniqueViolation = "23505"

type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	u := &models.User{Username: username, Email: email}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, username, email, passwordHash).Scan(&u.ID, &u.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

func (s *Postgres) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return u, nil
}

// FindUserByID leaves the password hash out of the projection.
func (s *Postgres) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Postgres) ListWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT course_id, title FROM wishlist_items
		WHERE user_id = $1
		ORDER BY added_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.WishlistItem{}
	for rows.Next() {
		var it models.WishlistItem
		if err := rows.Scan(&it.CourseID, &it.Title); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Postgres) AddWishlistItem(ctx context.Context, userID, courseID, title string) ([]models.WishlistItem, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (user_id, course_id, title)
		VALUES ($1, $2, $3)
	`, userID, courseID, title)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateCourse
		}
		return nil, err
	}
	return s.ListWishlist(ctx, userID)
}

// RemoveWishlistItem is idempotent: deleting an absent course is not an error.
func (s *Postgres) RemoveWishlistItem(ctx context.Context, userID, courseID string) ([]models.WishlistItem, error) {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM wishlist_items WHERE user_id = $1 AND course_id = $2
	`, userID, courseID)
	if err != nil {
		return nil, err
	}
	return s.ListWishlist(ctx, userID)
}
