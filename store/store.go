package store

import (
	"context"
	"errors"

	"coursecart/models"
)

var (
	ErrDuplicateEmail  = errors.New("email or username already registered")
	ErrDuplicateCourse = errors.New("course already in wishlist")
	ErrUserNotFound    = errors.New("user not found")
)

// Store is the credential store: user records plus each user's embedded
// wishlist. Wishlist mutations return the full updated list so handlers can
// echo it back to the client.
type Store interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)

	ListWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error)
	AddWishlistItem(ctx context.Context, userID, courseID, title string) ([]models.WishlistItem, error)
	RemoveWishlistItem(ctx context.Context, userID, courseID string) ([]models.WishlistItem, error)
}
