package session

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSRFRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CSRFMiddleware([]byte("0123456789abcdef0123456789abcdef"), false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, CSRFTokenField(c))
	})
	router.POST("/submit", func(c *gin.Context) {
		c.String(http.StatusOK, "accepted")
	})
	return router
}

// extractTokenField pulls the token value out of the rendered hidden input.
func extractTokenField(t *testing.T, body string) string {
	t.Helper()
	const prefix = `value="`
	start := strings.Index(body, prefix)
	require.NotEqual(t, -1, start, "token field missing from body: %s", body)
	rest := body[start+len(prefix):]
	end := strings.Index(rest, `"`)
	require.NotEqual(t, -1, end)
	return rest[:end]
}

func TestCSRFMiddleware(t *testing.T) {
	t.Run("renders a hidden token field on safe requests", func(t *testing.T) {
		router := newCSRFRouter()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/form", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="gorilla.csrf.Token"`)
		assert.NotEmpty(t, extractTokenField(t, w.Body.String()))
	})

	t.Run("accepts a form carrying the issued token", func(t *testing.T) {
		router := newCSRFRouter()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/form", nil)
		router.ServeHTTP(w, req)
		token := extractTokenField(t, w.Body.String())

		form := url.Values{}
		form.Set("gorilla.csrf.Token", token)

		w2 := httptest.NewRecorder()
		req, _ = http.NewRequest("POST", "/submit", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, cookie := range w.Result().Cookies() {
			req.AddCookie(cookie)
		}
		router.ServeHTTP(w2, req)

		assert.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, "accepted", w2.Body.String())
	})

	t.Run("rejects a form post without a token", func(t *testing.T) {
		router := newCSRFRouter()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/submit", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Form expired")
	})

	t.Run("sends the user back to the form they came from", func(t *testing.T) {
		router := newCSRFRouter()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/submit", nil)
		req.Header.Set("Referer", "/catalog/book/create")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/catalog/book/create?error=Form+expired.+Please+try+again.", w.Header().Get("Location"))
	})
}
