package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/otaniyici/crud-library/internal/aggregate"
	"github.com/otaniyici/crud-library/internal/entities"
)

// Counter reports how many records a table holds.
type Counter interface {
	Count() (int64, error)
}

// InstanceCounter additionally breaks copies down by status.
type InstanceCounter interface {
	Counter
	CountByStatus(status entities.InstanceStatus) (int64, error)
}

type HomeController struct {
	books     Counter
	authors   Counter
	genres    Counter
	instances InstanceCounter
}

func NewHomeController(books, authors, genres Counter, instances InstanceCounter) *HomeController {
	return &HomeController{books: books, authors: authors, genres: genres, instances: instances}
}

// Index renders the catalog home page with record counts gathered
// concurrently.
// GET /
func (hc *HomeController) Index(c *gin.Context) {
	results, err := aggregate.Run(c.Request.Context(), map[string]aggregate.Fetch{
		"books":     func(context.Context) (any, error) { return hc.books.Count() },
		"authors":   func(context.Context) (any, error) { return hc.authors.Count() },
		"genres":    func(context.Context) (any, error) { return hc.genres.Count() },
		"instances": func(context.Context) (any, error) { return hc.instances.Count() },
		"available": func(context.Context) (any, error) {
			return hc.instances.CountByStatus(entities.StatusAvailable)
		},
	})
	if err != nil {
		respondInternalError(c, err, "count records")
		return
	}

	c.HTML(http.StatusOK, "index", pageData(c, gin.H{
		"Title":          "Local Library Home",
		"BookCount":      results["books"].(int64),
		"AuthorCount":    results["authors"].(int64),
		"GenreCount":     results["genres"].(int64),
		"InstanceCount":  results["instances"].(int64),
		"AvailableCount": results["available"].(int64),
	}))
}
