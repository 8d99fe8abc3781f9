package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/otaniyici/crud-library/internal/aggregate"
	"github.com/otaniyici/crud-library/internal/entities"
	"github.com/otaniyici/crud-library/internal/forms"
	"github.com/otaniyici/crud-library/internal/session"
)

// AuthorStore defines the database operations the author pages need.
type AuthorStore interface {
	GetByID(id uint) (*entities.Author, error)
	GetAll() ([]entities.Author, error)
	Create(author *entities.Author) error
	Update(author *entities.Author) error
	Delete(id uint) error
}

// AuthorBookLister provides the books attributed to an author.
type AuthorBookLister interface {
	GetByAuthor(authorID uint) ([]entities.Book, error)
}

type AuthorsController struct {
	authors  AuthorStore
	books    AuthorBookLister
	sessions *session.Manager
}

func NewAuthorsController(authors AuthorStore, books AuthorBookLister, sessions *session.Manager) *AuthorsController {
	return &AuthorsController{authors: authors, books: books, sessions: sessions}
}

type authorDraft struct {
	FirstName   string
	FamilyName  string
	DateOfBirth string
	DateOfDeath string
}

func authorRules() []forms.Rule {
	return []forms.Rule{
		forms.NotEmpty("first_name", "First name must be specified."),
		forms.Length("first_name", 0, 100, "First name is too long."),
		forms.NotEmpty("family_name", "Family name must be specified."),
		forms.Length("family_name", 0, 100, "Family name is too long."),
		forms.OptionalDate("date_of_birth", "Invalid date of birth."),
		forms.OptionalDate("date_of_death", "Invalid date of death."),
	}
}

func draftFromAuthorForm(result *forms.Result) authorDraft {
	return authorDraft{
		FirstName:   result.Value("first_name"),
		FamilyName:  result.Value("family_name"),
		DateOfBirth: result.Value("date_of_birth"),
		DateOfDeath: result.Value("date_of_death"),
	}
}

// List renders all authors sorted by family name.
// GET /catalog/authors
func (ac *AuthorsController) List(c *gin.Context) {
	list, err := ac.authors.GetAll()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.HTML(http.StatusOK, "author_list", pageData(c, gin.H{
		"Title":   "Author List",
		"Authors": list,
	}))
}

// Detail renders one author together with their books.
// GET /catalog/author/:id
func (ac *AuthorsController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, bookList, err := ac.fetchAuthorWithBooks(c.Request.Context(), id)
	if err != nil {
		respondFetchError(c, err, "Author")
		return
	}

	c.HTML(http.StatusOK, "author_detail", pageData(c, gin.H{
		"Title":  "Author: " + author.Name(),
		"Author": author,
		"Books":  bookList,
	}))
}

// CreateForm renders an empty author form.
// GET /catalog/author/create
func (ac *AuthorsController) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "author_form", pageData(c, gin.H{
		"Title":  "Create Author",
		"Action": "/catalog/author/create",
		"Author": authorDraft{},
	}))
}

// Create validates the submission and persists a new author.
// POST /catalog/author/create
func (ac *AuthorsController) Create(c *gin.Context) {
	ac.handleAuthorSubmit(c, 0, "Create Author", "/catalog/author/create")
}

// UpdateForm renders the form pre-populated from the stored author.
// GET /catalog/author/:id/update
func (ac *AuthorsController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.authors.GetByID(id)
	if err != nil {
		respondFetchError(c, err, "Author")
		return
	}

	c.HTML(http.StatusOK, "author_form", pageData(c, gin.H{
		"Title":  "Update Author",
		"Action": author.URL() + "/update",
		"Author": authorDraft{
			FirstName:   author.FirstName,
			FamilyName:  author.FamilyName,
			DateOfBirth: formDate(author.DateOfBirth),
			DateOfDeath: formDate(author.DateOfDeath),
		},
	}))
}

// Update validates the submission and replaces the stored author.
// POST /catalog/author/:id/update
func (ac *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ac.handleAuthorSubmit(c, id, "Update Author", "/catalog/author/"+idString(id)+"/update")
}

func (ac *AuthorsController) handleAuthorSubmit(c *gin.Context, id uint, title, action string) {
	if err := c.Request.ParseForm(); err != nil {
		respondBadRequest(c, "malformed form data")
		return
	}

	result := forms.Validate(c.Request.PostForm, authorRules()...)
	draft := draftFromAuthorForm(result)

	if !result.Valid() {
		c.HTML(http.StatusOK, "author_form", pageData(c, gin.H{
			"Title":  title,
			"Action": action,
			"Author": draft,
			"Errors": result.Errors(),
		}))
		return
	}

	author := &entities.Author{
		ID:          id,
		FirstName:   draft.FirstName,
		FamilyName:  draft.FamilyName,
		DateOfBirth: result.Date("date_of_birth"),
		DateOfDeath: result.Date("date_of_death"),
	}

	var err error
	if id == 0 {
		err = ac.authors.Create(author)
	} else {
		err = ac.authors.Update(author)
	}
	if err != nil {
		respondInternalError(c, err, "save author")
		return
	}

	flash(ac.sessions, c, "Author saved")
	c.Redirect(http.StatusSeeOther, author.URL())
}

// DeleteForm renders the delete confirmation listing any blocking books.
// GET /catalog/author/:id/delete
func (ac *AuthorsController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, bookList, err := ac.fetchAuthorWithBooks(c.Request.Context(), id)
	if err != nil {
		respondFetchError(c, err, "Author")
		return
	}

	c.HTML(http.StatusOK, "author_delete", pageData(c, gin.H{
		"Title":  "Delete Author",
		"Author": author,
		"Books":  bookList,
	}))
}

// Delete removes the author unless books still reference them, in
// which case the confirmation is re-rendered with the blockers listed.
// POST /catalog/author/:id/delete
func (ac *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, bookList, err := ac.fetchAuthorWithBooks(c.Request.Context(), id)
	if err != nil {
		respondFetchError(c, err, "Author")
		return
	}

	if len(bookList) > 0 {
		c.HTML(http.StatusOK, "author_delete", pageData(c, gin.H{
			"Title":  "Delete Author",
			"Author": author,
			"Books":  bookList,
		}))
		return
	}

	if err := ac.authors.Delete(id); err != nil {
		respondInternalError(c, err, "delete author")
		return
	}

	flash(ac.sessions, c, "Author deleted")
	c.Redirect(http.StatusSeeOther, "/catalog/authors")
}

func (ac *AuthorsController) fetchAuthorWithBooks(ctx context.Context, id uint) (*entities.Author, []entities.Book, error) {
	results, err := aggregate.Run(ctx, map[string]aggregate.Fetch{
		"author": func(context.Context) (any, error) { return ac.authors.GetByID(id) },
		"books":  func(context.Context) (any, error) { return ac.books.GetByAuthor(id) },
	})
	if err != nil {
		return nil, nil, err
	}
	return results["author"].(*entities.Author), results["books"].([]entities.Book), nil
}

// formDate renders an optional date the way the form inputs expect it.
func formDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
