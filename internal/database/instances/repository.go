// Package instances provides database operations for book instances,
// the physical copies tracked by the catalog.
package instances

import (
	"time"

	"gorm.io/gorm"

	"github.com/otaniyici/crud-library/internal/entities"
)

// Repository handles all book instance database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new instances repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves an instance with its book expanded.
func (r *Repository) GetByID(id uint) (*entities.BookInstance, error) {
	var instance entities.BookInstance
	if err := r.db.Preload("Book").First(&instance, id).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

// GetAll retrieves all instances with their books expanded.
func (r *Repository) GetAll() ([]entities.BookInstance, error) {
	var list []entities.BookInstance
	err := r.db.Preload("Book").Find(&list).Error
	return list, err
}

// GetByBook retrieves all copies of the given book.
func (r *Repository) GetByBook(bookID uint) ([]entities.BookInstance, error) {
	var list []entities.BookInstance
	err := r.db.Where("book_id = ?", bookID).Find(&list).Error
	return list, err
}

// Create inserts a new instance.
func (r *Repository) Create(instance *entities.BookInstance) error {
	return r.db.Create(instance).Error
}

// Update replaces the stored record, keeping the original ID. Updating
// an ID that does not exist is an error, never an insert.
func (r *Repository) Update(instance *entities.BookInstance) error {
	result := r.db.Model(instance).Select("*").Omit("created_at", "Book").Updates(instance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an instance by ID.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.BookInstance{}, id).Error
}

// Count returns the number of instances.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.BookInstance{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of instances in the given status.
func (r *Repository) CountByStatus(status entities.InstanceStatus) (int64, error) {
	var count int64
	err := r.db.Model(&entities.BookInstance{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountOverdue returns the number of loaned copies past their due date.
func (r *Repository) CountOverdue(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&entities.BookInstance{}).
		Where("status = ? AND due_back IS NOT NULL AND due_back < ?", entities.StatusLoaned, now).
		Count(&count).Error
	return count, err
}
