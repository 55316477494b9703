package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursecart/middleware"
	"coursecart/store"
)

type WishlistHandler struct {
	Users store.Store
}

type wishlistAddInput struct {
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
}

func (h *WishlistHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	items, err := h.Users.ListWishlist(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Error listing wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *WishlistHandler) Add(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var input wishlistAddInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if input.CourseID == "" || input.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	items, err := h.Users.AddWishlistItem(c.Request.Context(), user.ID, input.CourseID, input.Title)
	if errors.Is(err, store.ErrDuplicateCourse) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course already in wishlist"})
		return
	}
	if err != nil {
		log.Printf("Error adding wishlist item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	user := middleware.CurrentUser(c)
	courseID := c.Param("courseId")

	items, err := h.Users.RemoveWishlistItem(c.Request.Context(), user.ID, courseID)
	if err != nil {
		log.Printf("Error removing wishlist item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, items)
}
