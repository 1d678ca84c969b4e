package handler

import (
	"errors"
	"net/http"

	"backend/internal/models"
	"backend/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type bookHandler struct {
	bookRepo repository.BookRepository
	logger   *zap.Logger
}

func NewBookHandler(bookRepo repository.BookRepository, logger *zap.Logger) BookHandler {
	return &bookHandler{bookRepo: bookRepo, logger: logger}
}

type CreateBookRequest struct {
	BookName string `json:"bookName" binding:"required"`
	Author   string `json:"author" binding:"required"`
	ISBN     string `json:"isbn" binding:"required"`
	Owner    *int64 `json:"owner"`
}

type UpdateBookRequest struct {
	BookName string `json:"bookName"`
	Author   string `json:"author"`
	ISBN     string `json:"isbn"`
	Owner    *int64 `json:"owner"`
}

// List handles GET /api/books/
func (h *bookHandler) List(c *gin.Context) {
	limit, skip, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	books, err := h.bookRepo.ListBooks(c.Request.Context(), limit, skip)
	if err != nil {
		h.logger.Error("Failed to list books", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve books"})
		return
	}

	c.JSON(http.StatusOK, books)
}

// Get handles GET /api/books/:bookId
func (h *bookHandler) Get(c *gin.Context) {
	id, err := parseID(c, "bookId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookRepo.GetBookByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No such book exists!"})
			return
		}
		h.logger.Error("Failed to get book", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve book"})
		return
	}

	c.JSON(http.StatusOK, book)
}

// Create handles POST /api/books/
func (h *bookHandler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book := &models.Book{
		BookName: req.BookName,
		Author:   req.Author,
		ISBN:     req.ISBN,
		Owner:    req.Owner,
	}

	if err := h.bookRepo.CreateBook(c.Request.Context(), book); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "ISBN must be unique"})
			return
		}
		h.logger.Error("Failed to create book", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create book"})
		return
	}

	c.JSON(http.StatusOK, book)
}

// Update handles PUT /api/books/:bookId. Omitted fields keep their current
// values.
func (h *bookHandler) Update(c *gin.Context) {
	id, err := parseID(c, "bookId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookRepo.GetBookByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No such book exists!"})
			return
		}
		h.logger.Error("Failed to load book for update", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update book"})
		return
	}

	if req.BookName != "" {
		book.BookName = req.BookName
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.ISBN != "" {
		book.ISBN = req.ISBN
	}
	if req.Owner != nil {
		book.Owner = req.Owner
	}

	if err := h.bookRepo.UpdateBook(c.Request.Context(), book); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No such book exists!"})
		case errors.Is(err, repository.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "ISBN must be unique"})
		default:
			h.logger.Error("Failed to update book", zap.Int64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update book"})
		}
		return
	}

	c.JSON(http.StatusOK, book)
}

// Delete handles DELETE /api/books/:bookId and returns the removed book.
func (h *bookHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "bookId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookRepo.DeleteBook(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No such book exists!"})
			return
		}
		h.logger.Error("Failed to delete book", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete book"})
		return
	}

	c.JSON(http.StatusOK, book)
}
