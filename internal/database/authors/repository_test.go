package authors

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/otaniyici/crud-library/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_authors_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

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

	return repo, cleanup
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	born := time.Date(1948, time.September, 20, 0, 0, 0, 0, time.UTC)
	author := &entities.Author{FirstName: "George", FamilyName: "Martin", DateOfBirth: &born}

	require.NoError(t, repo.Create(author))
	assert.NotZero(t, author.ID)

	got, err := repo.GetByID(author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Martin", got.FamilyName)
	require.NotNil(t, got.DateOfBirth)
	assert.Equal(t, born.Year(), got.DateOfBirth.Year())
	assert.Nil(t, got.DateOfDeath)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_GetAll_Sorted(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Author{FirstName: "Patrick", FamilyName: "Rothfuss"}))
	require.NoError(t, repo.Create(&entities.Author{FirstName: "Ben", FamilyName: "Bova"}))
	require.NoError(t, repo.Create(&entities.Author{FirstName: "Isaac", FamilyName: "Asimov"}))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Asimov", all[0].FamilyName)
	assert.Equal(t, "Bova", all[1].FamilyName)
	assert.Equal(t, "Rothfuss", all[2].FamilyName)
}

func TestRepository_Update_ReplacesRecord(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := &entities.Author{FirstName: "Jim", FamilyName: "Jones"}
	require.NoError(t, repo.Create(author))

	updated := &entities.Author{ID: author.ID, FirstName: "James", FamilyName: "Jones"}
	require.NoError(t, repo.Update(updated))

	got, err := repo.GetByID(author.ID)
	require.NoError(t, err)
	assert.Equal(t, "James", got.FirstName)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := &entities.Author{FirstName: "Ursula", FamilyName: "Le Guin"}
	require.NoError(t, repo.Create(author))
	require.NoError(t, repo.Delete(author.ID))

	_, err := repo.GetByID(author.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
