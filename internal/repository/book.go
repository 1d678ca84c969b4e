package repository

import (
	"context"
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type BookRepository interface {
	CreateBook(ctx context.Context, book *models.Book) error
	GetBookByID(ctx context.Context, id int64) (*models.Book, error)
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id int64) (*models.Book, error)
	ListBooks(ctx context.Context, limit, skip int) ([]*models.Book, error)
}

type bookRepository struct {
	db      *sqlx.DB
	logger  *zap.Logger
	timeout time.Duration
}

func NewBookRepository(db *sqlx.DB, logger *zap.Logger, timeout time.Duration) BookRepository {
	return &bookRepository{db: db, logger: logger, timeout: timeout}
}

func (r *bookRepository) CreateBook(ctx context.Context, book *models.Book) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO books (book_name, author, isbn, owner)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query, book.BookName, book.Author, book.ISBN, book.Owner).
		Scan(&book.ID, &book.CreatedAt)
	return mapError(err)
}

func (r *bookRepository) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var book models.Book
	query := `SELECT id, book_name, author, isbn, owner, created_at FROM books WHERE id = $1`
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		return nil, mapError(err)
	}
	return &book, nil
}

func (r *bookRepository) UpdateBook(ctx context.Context, book *models.Book) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `UPDATE books SET book_name = $1, author = $2, isbn = $3, owner = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, book.BookName, book.Author, book.ISBN, book.Owner, book.ID)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookRepository) DeleteBook(ctx context.Context, id int64) (*models.Book, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var book models.Book
	query := `DELETE FROM books WHERE id = $1 RETURNING id, book_name, author, isbn, owner, created_at`
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		return nil, mapError(err)
	}
	return &book, nil
}

func (r *bookRepository) ListBooks(ctx context.Context, limit, skip int) ([]*models.Book, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	books := []*models.Book{}
	query := `SELECT id, book_name, author, isbn, owner, created_at FROM books
	          ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &books, query, limit, skip); err != nil {
		return nil, mapError(err)
	}
	return books, nil
}
