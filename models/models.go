package models

import (
	"time"
)

type User struct {
	ID           string         `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Wishlist     []WishlistItem `json:"wishlist,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type WishlistItem struct {
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
}

// PendingPayment links a generated order id to the buyer details needed for
// fulfillment once the gateway confirms payment.
type PendingPayment struct {
	OrderID   string
	Email     string
	Coupon    string
	CourseID  string
	Title     string
	CreatedAt time.Time
}
