// Package books provides database operations for book records and their
// author/genre associations.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID(123)
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/otaniyici/crud-library/internal/entities"
)

// ErrHasCopies is returned by DeleteIfNoCopies when book instances
// still reference the book.
var ErrHasCopies = errors.New("book has copies attached")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a book with its author and genres.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("name ASC")
	}).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAll retrieves all books sorted by title, projected to the list
// view fields with the author expanded.
func (r *Repository) GetAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Select("id", "title", "author_id").
		Order("title ASC").
		Preload("Author").
		Find(&books).Error
	return books, err
}

// GetByAuthor retrieves all books written by the given author.
func (r *Repository) GetByAuthor(authorID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("author_id = ?", authorID).Order("title ASC").Find(&books).Error
	return books, err
}

// GetByGenre retrieves all books associated with the given genre.
func (r *Repository) GetByGenre(genreID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// Create inserts a new book together with its genre associations.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// Update replaces the stored record, keeping the original ID. The
// genre association set is replaced wholesale, not merged. Updating an
// ID that does not exist is an error, never an insert.
func (r *Repository) Update(book *entities.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(book).Select("*").Omit("created_at", "Genres", "Author").Updates(book)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(book).Association("Genres").Replace(book.Genres)
	})
}

// Delete removes a book and its genre associations unconditionally.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
}

// DeleteIfNoCopies removes a book only when no book instances
// reference it. The dependency check and the delete run in one
// transaction, so a copy created concurrently cannot slip between
// check and act. Returns ErrHasCopies when blocked.
func (r *Repository) DeleteIfNoCopies(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var copies int64
		if err := tx.Model(&entities.BookInstance{}).Where("book_id = ?", id).Count(&copies).Error; err != nil {
			return err
		}
		if copies > 0 {
			return ErrHasCopies
		}
		if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
}

// Count returns the number of books.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
