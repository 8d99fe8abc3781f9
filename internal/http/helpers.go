package http

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/otaniyici/crud-library/internal/session"
)

// contextKeyFlash is where FlashMiddleware stores the popped notice.
const contextKeyFlash = "flash"

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.String(http.StatusBadRequest, message)
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.String(http.StatusNotFound, "%s not found", resource)
}

// respondInternalError logs the error and sends a generic 500 response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.String(http.StatusInternalServerError, "internal server error")
}

// respondFetchError maps a missing record to a 404 and everything else
// to a 500. Used on detail, update, and delete lookups.
func respondFetchError(c *gin.Context, err error, resource string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, resource)
		return
	}
	respondInternalError(c, err, "fetch "+resource)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 and returns false on bad input.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// idString renders an entity ID the way forms submit it.
func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// --- Rendering ---

// pageData decorates template data with the request-scoped extras
// every page expects: the CSRF form field and any pending flash notice.
func pageData(c *gin.Context, data gin.H) gin.H {
	data["CSRFField"] = template.HTML(session.CSRFTokenField(c))
	if flash, ok := c.Get(contextKeyFlash); ok {
		data["Flash"] = flash
	}
	return data
}

// FlashMiddleware pops a pending flash notice into the gin context so
// the next rendered page can show it once.
func FlashMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if message := sessions.PopFlash(c.Request); message != "" {
			c.Set(contextKeyFlash, message)
		}
		c.Next()
	}
}

// flash records a notice for the page shown after the next redirect.
// A nil manager (tests, sessions disabled) is a no-op.
func flash(sessions *session.Manager, c *gin.Context, message string) {
	if sessions == nil {
		return
	}
	sessions.Flash(c.Request, message)
}
