// Command seed creates a catalog database with sample data from public
// domain books.
// Usage: go run cmd/seed/main.go [-db path/to/library.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/otaniyici/crud-library/internal/config"
	"github.com/otaniyici/crud-library/internal/database"
	"github.com/otaniyici/crud-library/internal/entities"
)

func main() {
	dbPath := flag.String("db", config.DefaultDatabasePath, "path to the catalog database file")
	fresh := flag.Bool("fresh", false, "remove an existing database before seeding")
	flag.Parse()

	if *fresh {
		if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove existing database: %v", err)
		}
	}

	log.Printf("Seeding catalog database at %s...", *dbPath)

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	genres := createGenres(db)
	authors := createAuthors(db)
	books := createBooks(db, authors, genres)
	createInstances(db, books)

	log.Printf("Done.")
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func createGenres(db *database.Database) map[string]*entities.Genre {
	names := []string{"Fantasy", "Science Fiction", "Gothic Fiction", "Poetry"}

	genres := make(map[string]*entities.Genre, len(names))
	for _, name := range names {
		genre := &entities.Genre{Name: name}
		if err := db.DB.Create(genre).Error; err != nil {
			log.Fatalf("Failed to create genre %s: %v", name, err)
		}
		genres[name] = genre
	}
	return genres
}

func createAuthors(db *database.Database) map[string]*entities.Author {
	list := []*entities.Author{
		{FirstName: "Mary", FamilyName: "Shelley", DateOfBirth: date(1797, time.August, 30), DateOfDeath: date(1851, time.February, 1)},
		{FirstName: "Jules", FamilyName: "Verne", DateOfBirth: date(1828, time.February, 8), DateOfDeath: date(1905, time.March, 24)},
		{FirstName: "Bram", FamilyName: "Stoker", DateOfBirth: date(1847, time.November, 8), DateOfDeath: date(1912, time.April, 20)},
		{FirstName: "Emily", FamilyName: "Dickinson", DateOfBirth: date(1830, time.December, 10), DateOfDeath: date(1886, time.May, 15)},
	}

	authors := make(map[string]*entities.Author, len(list))
	for _, author := range list {
		if err := db.DB.Create(author).Error; err != nil {
			log.Fatalf("Failed to create author %s: %v", author.FamilyName, err)
		}
		authors[author.FamilyName] = author
	}
	return authors
}

func createBooks(db *database.Database, authors map[string]*entities.Author, genres map[string]*entities.Genre) []*entities.Book {
	list := []*entities.Book{
		{
			Title:    "Frankenstein; or, The Modern Prometheus",
			AuthorID: authors["Shelley"].ID,
			Summary:  "A young scientist creates a sapient creature in an unorthodox experiment.",
			ISBN:     "9780486282114",
			Genres:   []entities.Genre{*genres["Gothic Fiction"], *genres["Science Fiction"]},
		},
		{
			Title:    "Twenty Thousand Leagues Under the Seas",
			AuthorID: authors["Verne"].ID,
			Summary:  "Captain Nemo roams the oceans aboard the submarine Nautilus.",
			ISBN:     "9780553212525",
			Genres:   []entities.Genre{*genres["Science Fiction"]},
		},
		{
			Title:    "Dracula",
			AuthorID: authors["Stoker"].ID,
			Summary:  "Count Dracula attempts to move from Transylvania to England.",
			ISBN:     "9780486411095",
			Genres:   []entities.Genre{*genres["Gothic Fiction"], *genres["Fantasy"]},
		},
		{
			Title:    "Complete Poems",
			AuthorID: authors["Dickinson"].ID,
			Summary:  "The collected poems of Emily Dickinson.",
			ISBN:     "9780316184137",
			Genres:   []entities.Genre{*genres["Poetry"]},
		},
	}

	for _, book := range list {
		if err := db.DB.Create(book).Error; err != nil {
			log.Fatalf("Failed to create book %s: %v", book.Title, err)
		}
		log.Printf("Saved: %s", book.Title)
	}
	return list
}

func createInstances(db *database.Database, books []*entities.Book) {
	overdue := time.Now().AddDate(0, 0, -14)
	upcoming := time.Now().AddDate(0, 0, 21)

	list := []*entities.BookInstance{
		{BookID: books[0].ID, Imprint: "Dover Publications, 1994", Status: entities.StatusAvailable},
		{BookID: books[0].ID, Imprint: "Penguin Classics, 2003", Status: entities.StatusLoaned, DueBack: &overdue},
		{BookID: books[1].ID, Imprint: "Bantam Classics, 1985", Status: entities.StatusAvailable},
		{BookID: books[2].ID, Imprint: "Dover Thrift Editions, 2000", Status: entities.StatusLoaned, DueBack: &upcoming},
		{BookID: books[2].ID, Imprint: "Norton Critical Editions, 1997", Status: entities.StatusMaintenance},
		{BookID: books[3].ID, Imprint: "Back Bay Books, 1976", Status: entities.StatusReserved, DueBack: &upcoming},
	}

	for _, instance := range list {
		if err := db.DB.Create(instance).Error; err != nil {
			log.Fatalf("Failed to create copy of book %d: %v", instance.BookID, err)
		}
	}
	log.Printf("Saved %d copies", len(list))
}
