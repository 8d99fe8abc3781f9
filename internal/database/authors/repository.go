// Package authors provides database operations for author records.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	author, err := repo.GetByID(123)
package authors

import (
	"gorm.io/gorm"

	"github.com/otaniyici/crud-library/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves an author by ID.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// GetAll retrieves all authors sorted by family name, then first name.
func (r *Repository) GetAll() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("family_name ASC, first_name ASC").Find(&authors).Error
	return authors, err
}

// Create inserts a new author.
func (r *Repository) Create(author *entities.Author) error {
	return r.db.Create(author).Error
}

// Update replaces the stored record, keeping the original ID. Updating
// an ID that does not exist is an error, never an insert.
func (r *Repository) Update(author *entities.Author) error {
	result := r.db.Model(author).Select("*").Omit("created_at").Updates(author)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an author by ID.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Author{}, id).Error
}

// Count returns the number of authors.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Author{}).Count(&count).Error
	return count, err
}
