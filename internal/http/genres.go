package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/otaniyici/crud-library/internal/aggregate"
	"github.com/otaniyici/crud-library/internal/entities"
	"github.com/otaniyici/crud-library/internal/forms"
	"github.com/otaniyici/crud-library/internal/session"
)

// GenreStore defines the database operations the genre pages need.
type GenreStore interface {
	GetByID(id uint) (*entities.Genre, error)
	GetAll() ([]entities.Genre, error)
	Create(genre *entities.Genre) error
	Update(genre *entities.Genre) error
	Delete(id uint) error
}

// GenreBookLister provides the books filed under a genre.
type GenreBookLister interface {
	GetByGenre(genreID uint) ([]entities.Book, error)
}

type GenresController struct {
	genres   GenreStore
	books    GenreBookLister
	sessions *session.Manager
}

func NewGenresController(genres GenreStore, books GenreBookLister, sessions *session.Manager) *GenresController {
	return &GenresController{genres: genres, books: books, sessions: sessions}
}

type genreDraft struct {
	Name string
}

func genreRules() []forms.Rule {
	return []forms.Rule{
		forms.Length("name", 3, 100, "Genre name must contain between 3 and 100 characters."),
	}
}

// List renders all genres sorted by name.
// GET /catalog/genres
func (gc *GenresController) List(c *gin.Context) {
	list, err := gc.genres.GetAll()
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	c.HTML(http.StatusOK, "genre_list", pageData(c, gin.H{
		"Title":  "Genre List",
		"Genres": list,
	}))
}

// Detail renders one genre together with the books filed under it.
// GET /catalog/genre/:id
func (gc *GenresController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, bookList, err := gc.fetchGenreWithBooks(c.Request.Context(), id)
	if err != nil {
		respondFetchError(c, err, "Genre")
		return
	}

	c.HTML(http.StatusOK, "genre_detail", pageData(c, gin.H{
		"Title": "Genre: " + genre.Name,
		"Genre": genre,
		"Books": bookList,
	}))
}

// CreateForm renders an empty genre form.
// GET /catalog/genre/create
func (gc *GenresController) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "genre_form", pageData(c, gin.H{
		"Title":  "Create Genre",
		"Action": "/catalog/genre/create",
		"Genre":  genreDraft{},
	}))
}

// Create validates the submission and persists a new genre.
// POST /catalog/genre/create
func (gc *GenresController) Create(c *gin.Context) {
	gc.handleGenreSubmit(c, 0, "Create Genre", "/catalog/genre/create")
}

// UpdateForm renders the form pre-populated from the stored genre.
// GET /catalog/genre/:id/update
func (gc *GenresController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := gc.genres.GetByID(id)
	if err != nil {
		respondFetchError(c, err, "Genre")
		return
	}

	c.HTML(http.StatusOK, "genre_form", pageData(c, gin.H{
		"Title":  "Update Genre",
		"Action": genre.URL() + "/update",
		"Genre":  genreDraft{Name: genre.Name},
	}))
}

// Update validates the submission and replaces the stored genre.
// POST /catalog/genre/:id/update
func (gc *GenresController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	gc.handleGenreSubmit(c, id, "Update Genre", "/catalog/genre/"+idString(id)+"/update")
}

func (gc *GenresController) handleGenreSubmit(c *gin.Context, id uint, title, action string) {
	if err := c.Request.ParseForm(); err != nil {
		respondBadRequest(c, "malformed form data")
		return
	}

	result := forms.Validate(c.Request.PostForm, genreRules()...)
	draft := genreDraft{Name: result.Value("name")}

	if !result.Valid() {
		c.HTML(http.StatusOK, "genre_form", pageData(c, gin.H{
			"Title":  title,
			"Action": action,
			"Genre":  draft,
			"Errors": result.Errors(),
		}))
		return
	}

	genre := &entities.Genre{ID: id, Name: draft.Name}

	var err error
	if id == 0 {
		err = gc.genres.Create(genre)
	} else {
		err = gc.genres.Update(genre)
	}
	if err != nil {
		respondInternalError(c, err, "save genre")
		return
	}

	flash(gc.sessions, c, "Genre saved")
	c.Redirect(http.StatusSeeOther, genre.URL())
}

// DeleteForm renders the delete confirmation listing any blocking books.
// GET /catalog/genre/:id/delete
func (gc *GenresController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, bookList, err := gc.fetchGenreWithBooks(c.Request.Context(), id)
	if err != nil {
		respondFetchError(c, err, "Genre")
		return
	}

	c.HTML(http.StatusOK, "genre_delete", pageData(c, gin.H{
		"Title": "Delete Genre",
		"Genre": genre,
		"Books": bookList,
	}))
}

// Delete removes the genre unless books are still filed under it, in
// which case the confirmation is re-rendered with the blockers listed.
// POST /catalog/genre/:id/delete
func (gc *GenresController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, bookList, err := gc.fetchGenreWithBooks(c.Request.Context(), id)
	if err != nil {
		respondFetchError(c, err, "Genre")
		return
	}

	if len(bookList) > 0 {
		c.HTML(http.StatusOK, "genre_delete", pageData(c, gin.H{
			"Title": "Delete Genre",
			"Genre": genre,
			"Books": bookList,
		}))
		return
	}

	if err := gc.genres.Delete(id); err != nil {
		respondInternalError(c, err, "delete genre")
		return
	}

	flash(gc.sessions, c, "Genre deleted")
	c.Redirect(http.StatusSeeOther, "/catalog/genres")
}

func (gc *GenresController) fetchGenreWithBooks(ctx context.Context, id uint) (*entities.Genre, []entities.Book, error) {
	results, err := aggregate.Run(ctx, map[string]aggregate.Fetch{
		"genre": func(context.Context) (any, error) { return gc.genres.GetByID(id) },
		"books": func(context.Context) (any, error) { return gc.books.GetByGenre(id) },
	})
	if err != nil {
		return nil, nil, err
	}
	return results["genre"].(*entities.Genre), results["books"].([]entities.Book), nil
}
