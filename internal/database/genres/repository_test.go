package genres

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/otaniyici/crud-library/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_genres_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Genre{},
		&entities.Book{},
		&entities.BookInstance{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	genre := &entities.Genre{Name: "Fantasy"}
	require.NoError(t, repo.Create(genre))
	assert.NotZero(t, genre.ID)

	got, err := repo.GetByID(genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", got.Name)
}

func TestRepository_GetAll_Sorted(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	for _, name := range []string{"Science Fiction", "Fantasy", "Poetry"} {
		require.NoError(t, repo.Create(&entities.Genre{Name: name}))
	}

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Fantasy", all[0].Name)
	assert.Equal(t, "Poetry", all[1].Name)
	assert.Equal(t, "Science Fiction", all[2].Name)
}

func TestRepository_Update(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	genre := &entities.Genre{Name: "Sci Fi"}
	require.NoError(t, repo.Create(genre))

	require.NoError(t, repo.Update(&entities.Genre{ID: genre.ID, Name: "Science Fiction"}))

	got, err := repo.GetByID(genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", got.Name)
}

func TestRepository_Delete_RemovesBookAssociations(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	genre := &entities.Genre{Name: "Horror"}
	require.NoError(t, repo.Create(genre))

	author := entities.Author{FirstName: "Shirley", FamilyName: "Jackson"}
	require.NoError(t, db.Create(&author).Error)
	book := entities.Book{Title: "The Haunting of Hill House", AuthorID: author.ID, Genres: []entities.Genre{*genre}}
	require.NoError(t, db.Create(&book).Error)

	require.NoError(t, repo.Delete(genre.ID))

	_, err := repo.GetByID(genre.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var joinRows int64
	require.NoError(t, db.Table("book_genres").Where("genre_id = ?", genre.ID).Count(&joinRows).Error)
	assert.Zero(t, joinRows)
}

func TestRepository_Count(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Genre{Name: "Essay"}))
	require.NoError(t, repo.Create(&entities.Genre{Name: "Memoir"}))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
