package http

import (
	"github.com/otaniyici/crud-library/internal/database"
	"github.com/otaniyici/crud-library/internal/session"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Per-aggregate stores
	BookStore     BookStore
	AuthorStore   AuthorStore
	GenreStore    GenreStore
	InstanceStore InstanceStore

	// Cross-aggregate read interfaces
	AuthorBooks   AuthorBookLister
	GenreBooks    GenreBookLister
	BookGenres    GenreLister
	BookCopies    CopyLister
	BookCounter   Counter
	AuthorCounter Counter
	GenreCounter  Counter
	CopyCounter   InstanceCounter

	// Session and CSRF
	SessionManager *session.Manager
	CSRFSecret     []byte
	SecureCookies  bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
