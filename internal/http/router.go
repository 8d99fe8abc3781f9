package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/otaniyici/crud-library/internal/session"
)

// templateFuncMap holds the helpers the catalog templates use.
func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"idstr": idString,
	}
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadSave())
		router.Use(FlashMiddleware(cfg.SessionManager))
	}

	// Load HTML templates with custom functions
	tmpl := template.Must(template.New("").Funcs(templateFuncMap()).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	router.Static("/static", cfg.StaticPath)

	home := NewHomeController(cfg.BookCounter, cfg.AuthorCounter, cfg.GenreCounter, cfg.CopyCounter)
	booksController := NewBooksController(cfg.BookStore, cfg.AuthorStore, cfg.BookGenres, cfg.BookCopies, cfg.SessionManager)
	authorsController := NewAuthorsController(cfg.AuthorStore, cfg.AuthorBooks, cfg.SessionManager)
	genresController := NewGenresController(cfg.GenreStore, cfg.GenreBooks, cfg.SessionManager)
	instancesController := NewInstancesController(cfg.InstanceStore, cfg.BookStore, cfg.SessionManager)
	health := NewHealthController(cfg.Database, cfg.Version)

	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	router.GET("/", home.Index)

	catalog := router.Group("/catalog")
	catalog.GET("", home.Index)

	// Create routes come before parameterized routes so "create" is
	// never parsed as an id.
	catalog.GET("/books", booksController.List)
	catalog.GET("/book/create", booksController.CreateForm)
	catalog.POST("/book/create", booksController.Create)
	catalog.GET("/book/:id", booksController.Detail)
	catalog.GET("/book/:id/update", booksController.UpdateForm)
	catalog.POST("/book/:id/update", booksController.Update)
	catalog.GET("/book/:id/delete", booksController.DeleteForm)
	catalog.POST("/book/:id/delete", booksController.Delete)

	catalog.GET("/authors", authorsController.List)
	catalog.GET("/author/create", authorsController.CreateForm)
	catalog.POST("/author/create", authorsController.Create)
	catalog.GET("/author/:id", authorsController.Detail)
	catalog.GET("/author/:id/update", authorsController.UpdateForm)
	catalog.POST("/author/:id/update", authorsController.Update)
	catalog.GET("/author/:id/delete", authorsController.DeleteForm)
	catalog.POST("/author/:id/delete", authorsController.Delete)

	catalog.GET("/genres", genresController.List)
	catalog.GET("/genre/create", genresController.CreateForm)
	catalog.POST("/genre/create", genresController.Create)
	catalog.GET("/genre/:id", genresController.Detail)
	catalog.GET("/genre/:id/update", genresController.UpdateForm)
	catalog.POST("/genre/:id/update", genresController.Update)
	catalog.GET("/genre/:id/delete", genresController.DeleteForm)
	catalog.POST("/genre/:id/delete", genresController.Delete)

	catalog.GET("/bookinstances", instancesController.List)
	catalog.GET("/bookinstance/create", instancesController.CreateForm)
	catalog.POST("/bookinstance/create", instancesController.Create)
	catalog.GET("/bookinstance/:id", instancesController.Detail)
	catalog.GET("/bookinstance/:id/update", instancesController.UpdateForm)
	catalog.POST("/bookinstance/:id/update", instancesController.Update)
	catalog.GET("/bookinstance/:id/delete", instancesController.DeleteForm)
	catalog.POST("/bookinstance/:id/delete", instancesController.Delete)

	return router
}
