package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/otaniyici/crud-library/internal/aggregate"
	"github.com/otaniyici/crud-library/internal/database/books"
	"github.com/otaniyici/crud-library/internal/entities"
	"github.com/otaniyici/crud-library/internal/forms"
	"github.com/otaniyici/crud-library/internal/session"
)

// BookStore defines the database operations the book pages need.
type BookStore interface {
	GetByID(id uint) (*entities.Book, error)
	GetAll() ([]entities.Book, error)
	Create(book *entities.Book) error
	Update(book *entities.Book) error
	DeleteIfNoCopies(id uint) error
}

// AuthorLister provides the author reference list for book forms.
type AuthorLister interface {
	GetAll() ([]entities.Author, error)
}

// GenreLister provides the genre reference list for book forms.
type GenreLister interface {
	GetAll() ([]entities.Genre, error)
	GetByIDs(ids []uint) ([]entities.Genre, error)
}

// CopyLister provides the dependent copies of a book.
type CopyLister interface {
	GetByBook(bookID uint) ([]entities.BookInstance, error)
}

type BooksController struct {
	books    BookStore
	authors  AuthorLister
	genres   GenreLister
	copies   CopyLister
	sessions *session.Manager
}

func NewBooksController(books BookStore, authors AuthorLister, genres GenreLister, copies CopyLister, sessions *session.Manager) *BooksController {
	return &BooksController{books: books, authors: authors, genres: genres, copies: copies, sessions: sessions}
}

// bookDraft carries sanitized submitted values back into the form.
type bookDraft struct {
	Title    string
	AuthorID string
	Summary  string
	ISBN     string
	GenreIDs []string
}

func bookRules() []forms.Rule {
	return []forms.Rule{
		forms.NotEmpty("title", "Title must not be empty."),
		forms.NotEmpty("author", "Author must not be empty."),
		forms.NotEmpty("summary", "Summary must not be empty."),
		forms.NotEmpty("isbn", "ISBN must not be empty."),
		forms.EachEscaped("genre"),
	}
}

func draftFromBookForm(result *forms.Result) bookDraft {
	return bookDraft{
		Title:    result.Value("title"),
		AuthorID: result.Value("author"),
		Summary:  result.Value("summary"),
		ISBN:     result.Value("isbn"),
		GenreIDs: result.Values("genre"),
	}
}

// genreIDStrings renders a persisted book's genre associations the way
// the form submits them.
func genreIDStrings(book *entities.Book) []string {
	ids := make([]string, len(book.Genres))
	for i, genre := range book.Genres {
		ids[i] = idString(genre.ID)
	}
	return ids
}

// fetchReferenceLists loads the author and genre lists a book form needs.
func (bc *BooksController) fetchReferenceLists(ctx context.Context) ([]entities.Author, []entities.Genre, error) {
	results, err := aggregate.Run(ctx, map[string]aggregate.Fetch{
		"authors": func(context.Context) (any, error) { return bc.authors.GetAll() },
		"genres":  func(context.Context) (any, error) { return bc.genres.GetAll() },
	})
	if err != nil {
		return nil, nil, err
	}
	return results["authors"].([]entities.Author), results["genres"].([]entities.Genre), nil
}

// List renders all books sorted by title.
// GET /catalog/books
func (bc *BooksController) List(c *gin.Context) {
	list, err := bc.books.GetAll()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.HTML(http.StatusOK, "book_list", pageData(c, gin.H{
		"Title": "Book List",
		"Books": list,
	}))
}

// Detail renders one book together with its copies.
// GET /catalog/book/:id
func (bc *BooksController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	results, err := aggregate.Run(c.Request.Context(), map[string]aggregate.Fetch{
		"book":   func(context.Context) (any, error) { return bc.books.GetByID(id) },
		"copies": func(context.Context) (any, error) { return bc.copies.GetByBook(id) },
	})
	if err != nil {
		respondFetchError(c, err, "Book")
		return
	}

	book := results["book"].(*entities.Book)
	c.HTML(http.StatusOK, "book_detail", pageData(c, gin.H{
		"Title":  book.Title,
		"Book":   book,
		"Copies": results["copies"].([]entities.BookInstance),
	}))
}

// CreateForm renders an empty book form with the reference lists.
// GET /catalog/book/create
func (bc *BooksController) CreateForm(c *gin.Context) {
	authorList, genreList, err := bc.fetchReferenceLists(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "load book form")
		return
	}

	c.HTML(http.StatusOK, "book_form", pageData(c, gin.H{
		"Title":   "Create Book",
		"Action":  "/catalog/book/create",
		"Authors": authorList,
		"Genres":  forms.MarkSelected(genreList, nil, genreOptionID),
		"Book":    bookDraft{},
	}))
}

// Create validates the submission and either persists a new book or
// re-renders the form with every field error.
// POST /catalog/book/create
func (bc *BooksController) Create(c *gin.Context) {
	bc.handleBookSubmit(c, 0, "Create Book", "/catalog/book/create")
}

// UpdateForm renders the form pre-populated from the stored book.
// GET /catalog/book/:id/update
func (bc *BooksController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	results, err := aggregate.Run(c.Request.Context(), map[string]aggregate.Fetch{
		"book":    func(context.Context) (any, error) { return bc.books.GetByID(id) },
		"authors": func(context.Context) (any, error) { return bc.authors.GetAll() },
		"genres":  func(context.Context) (any, error) { return bc.genres.GetAll() },
	})
	if err != nil {
		respondFetchError(c, err, "Book")
		return
	}

	book := results["book"].(*entities.Book)
	draft := bookDraft{
		Title:    book.Title,
		AuthorID: idString(book.AuthorID),
		Summary:  book.Summary,
		ISBN:     book.ISBN,
		GenreIDs: genreIDStrings(book),
	}

	c.HTML(http.StatusOK, "book_form", pageData(c, gin.H{
		"Title":   "Update Book",
		"Action":  book.URL() + "/update",
		"Authors": results["authors"].([]entities.Author),
		"Genres":  forms.MarkSelected(results["genres"].([]entities.Genre), draft.GenreIDs, genreOptionID),
		"Book":    draft,
	}))
}

// Update validates the submission and replaces the stored book,
// keeping its ID. A missing target is a server-side failure here; the
// form flow checks existence on the GET step.
// POST /catalog/book/:id/update
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bc.handleBookSubmit(c, id, "Update Book", "/catalog/book/"+idString(id)+"/update")
}

// handleBookSubmit is the shared POST step of the create and update
// flows. An id of zero means create.
func (bc *BooksController) handleBookSubmit(c *gin.Context, id uint, title, action string) {
	if err := c.Request.ParseForm(); err != nil {
		respondBadRequest(c, "malformed form data")
		return
	}

	result := forms.Validate(c.Request.PostForm, bookRules()...)
	draft := draftFromBookForm(result)

	if !result.Valid() {
		// Re-fetch the reference lists and mark the submitted
		// selections so the user can correct the form in place.
		authorList, genreList, err := bc.fetchReferenceLists(c.Request.Context())
		if err != nil {
			respondInternalError(c, err, "reload book form")
			return
		}
		c.HTML(http.StatusOK, "book_form", pageData(c, gin.H{
			"Title":   title,
			"Action":  action,
			"Authors": authorList,
			"Genres":  forms.MarkSelected(genreList, draft.GenreIDs, genreOptionID),
			"Book":    draft,
			"Errors":  result.Errors(),
		}))
		return
	}

	authorID, err := strconv.ParseUint(draft.AuthorID, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid author")
		return
	}

	genreList, err := bc.genres.GetByIDs(parseIDStrings(draft.GenreIDs))
	if err != nil {
		respondInternalError(c, err, "resolve genres")
		return
	}

	book := &entities.Book{
		ID:       id,
		Title:    draft.Title,
		AuthorID: uint(authorID),
		Summary:  draft.Summary,
		ISBN:     draft.ISBN,
		Genres:   genreList,
	}

	if id == 0 {
		err = bc.books.Create(book)
	} else {
		err = bc.books.Update(book)
	}
	if err != nil {
		respondInternalError(c, err, "save book")
		return
	}

	flash(bc.sessions, c, "Book saved")
	c.Redirect(http.StatusSeeOther, book.URL())
}

// DeleteForm renders the delete confirmation listing any blocking copies.
// GET /catalog/book/:id/delete
func (bc *BooksController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, copyList, err := bc.fetchBookWithCopies(c.Request.Context(), id)
	if err != nil {
		respondFetchError(c, err, "Book")
		return
	}

	c.HTML(http.StatusOK, "book_delete", pageData(c, gin.H{
		"Title":  "Delete Book",
		"Book":   book,
		"Copies": copyList,
	}))
}

// Delete removes the book unless copies still reference it, in which
// case the confirmation is re-rendered with the blockers listed.
// POST /catalog/book/:id/delete
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.books.DeleteIfNoCopies(id)
	if errors.Is(err, books.ErrHasCopies) {
		book, copyList, err := bc.fetchBookWithCopies(c.Request.Context(), id)
		if err != nil {
			respondFetchError(c, err, "Book")
			return
		}
		c.HTML(http.StatusOK, "book_delete", pageData(c, gin.H{
			"Title":  "Delete Book",
			"Book":   book,
			"Copies": copyList,
		}))
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	flash(bc.sessions, c, "Book deleted")
	c.Redirect(http.StatusSeeOther, "/catalog/books")
}

func (bc *BooksController) fetchBookWithCopies(ctx context.Context, id uint) (*entities.Book, []entities.BookInstance, error) {
	results, err := aggregate.Run(ctx, map[string]aggregate.Fetch{
		"book":   func(context.Context) (any, error) { return bc.books.GetByID(id) },
		"copies": func(context.Context) (any, error) { return bc.copies.GetByBook(id) },
	})
	if err != nil {
		return nil, nil, err
	}
	return results["book"].(*entities.Book), results["copies"].([]entities.BookInstance), nil
}

// genreOptionID adapts genre records for selection marking.
func genreOptionID(g entities.Genre) string {
	return idString(g.ID)
}

// parseIDStrings converts submitted id strings, dropping anything that
// does not parse.
func parseIDStrings(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, value := range values {
		if id, err := strconv.ParseUint(value, 10, 32); err == nil {
			ids = append(ids, uint(id))
		}
	}
	return ids
}
