// Package genres provides database operations for genre records.
package genres

import (
	"gorm.io/gorm"

	"github.com/otaniyici/crud-library/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a genre by ID.
func (r *Repository) GetByID(id uint) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// GetAll retrieves all genres sorted by name.
func (r *Repository) GetAll() ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.Order("name ASC").Find(&genres).Error
	return genres, err
}

// GetByIDs retrieves the genres matching the given IDs. Unknown IDs
// are silently absent from the result.
func (r *Repository) GetByIDs(ids []uint) ([]entities.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var genres []entities.Genre
	err := r.db.Where("id IN ?", ids).Order("name ASC").Find(&genres).Error
	return genres, err
}

// Create inserts a new genre.
func (r *Repository) Create(genre *entities.Genre) error {
	return r.db.Create(genre).Error
}

// Update replaces the stored record, keeping the original ID. Updating
// an ID that does not exist is an error, never an insert.
func (r *Repository) Update(genre *entities.Genre) error {
	result := r.db.Model(genre).Select("*").Omit("created_at").Updates(genre)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a genre and its book associations.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_genres WHERE genre_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Genre{}, id).Error
	})
}

// Count returns the number of genres.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Genre{}).Count(&count).Error
	return count, err
}
