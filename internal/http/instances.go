package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/otaniyici/crud-library/internal/entities"
	"github.com/otaniyici/crud-library/internal/forms"
	"github.com/otaniyici/crud-library/internal/session"
)

// InstanceStore defines the database operations the copy pages need.
type InstanceStore interface {
	GetByID(id uint) (*entities.BookInstance, error)
	GetAll() ([]entities.BookInstance, error)
	Create(instance *entities.BookInstance) error
	Update(instance *entities.BookInstance) error
	Delete(id uint) error
}

// BookLister provides the book reference list for copy forms.
type BookLister interface {
	GetAll() ([]entities.Book, error)
}

type InstancesController struct {
	instances InstanceStore
	books     BookLister
	sessions  *session.Manager
}

func NewInstancesController(instances InstanceStore, books BookLister, sessions *session.Manager) *InstancesController {
	return &InstancesController{instances: instances, books: books, sessions: sessions}
}

type instanceDraft struct {
	BookID  string
	Imprint string
	Status  string
	DueBack string
}

func instanceRules() []forms.Rule {
	return []forms.Rule{
		forms.NotEmpty("book", "Book must be specified."),
		forms.NotEmpty("imprint", "Imprint must be specified."),
		forms.OneOf("status", "Invalid status.", instanceStatusValues()...),
		forms.OptionalDate("due_back", "Invalid date."),
	}
}

// instanceStatusValues lists the copy statuses as submitted strings.
func instanceStatusValues() []string {
	statuses := entities.InstanceStatuses()
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}
	return values
}

func draftFromInstanceForm(result *forms.Result) instanceDraft {
	return instanceDraft{
		BookID:  result.Value("book"),
		Imprint: result.Value("imprint"),
		Status:  result.Value("status"),
		DueBack: result.Value("due_back"),
	}
}

// List renders all copies with their books.
// GET /catalog/bookinstances
func (ic *InstancesController) List(c *gin.Context) {
	list, err := ic.instances.GetAll()
	if err != nil {
		respondInternalError(c, err, "list copies")
		return
	}
	c.HTML(http.StatusOK, "instance_list", pageData(c, gin.H{
		"Title":     "Book Instance List",
		"Instances": list,
	}))
}

// Detail renders one copy.
// GET /catalog/bookinstance/:id
func (ic *InstancesController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	instance, err := ic.instances.GetByID(id)
	if err != nil {
		respondFetchError(c, err, "Book copy")
		return
	}

	c.HTML(http.StatusOK, "instance_detail", pageData(c, gin.H{
		"Title":    "Copy: " + instance.Book.Title,
		"Instance": instance,
	}))
}

// CreateForm renders an empty copy form with the book list.
// GET /catalog/bookinstance/create
func (ic *InstancesController) CreateForm(c *gin.Context) {
	bookList, err := ic.books.GetAll()
	if err != nil {
		respondInternalError(c, err, "load copy form")
		return
	}

	c.HTML(http.StatusOK, "instance_form", pageData(c, gin.H{
		"Title":    "Create Book Instance",
		"Action":   "/catalog/bookinstance/create",
		"Books":    bookList,
		"Statuses": entities.InstanceStatuses(),
		"Instance": instanceDraft{},
	}))
}

// Create validates the submission and persists a new copy.
// POST /catalog/bookinstance/create
func (ic *InstancesController) Create(c *gin.Context) {
	ic.handleInstanceSubmit(c, 0, "Create Book Instance", "/catalog/bookinstance/create")
}

// UpdateForm renders the form pre-populated from the stored copy.
// GET /catalog/bookinstance/:id/update
func (ic *InstancesController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	instance, err := ic.instances.GetByID(id)
	if err != nil {
		respondFetchError(c, err, "Book copy")
		return
	}

	bookList, err := ic.books.GetAll()
	if err != nil {
		respondInternalError(c, err, "load copy form")
		return
	}

	c.HTML(http.StatusOK, "instance_form", pageData(c, gin.H{
		"Title":    "Update Book Instance",
		"Action":   instance.URL() + "/update",
		"Books":    bookList,
		"Statuses": entities.InstanceStatuses(),
		"Instance": instanceDraft{
			BookID:  idString(instance.BookID),
			Imprint: instance.Imprint,
			Status:  string(instance.Status),
			DueBack: formDate(instance.DueBack),
		},
	}))
}

// Update validates the submission and replaces the stored copy.
// POST /catalog/bookinstance/:id/update
func (ic *InstancesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ic.handleInstanceSubmit(c, id, "Update Book Instance", "/catalog/bookinstance/"+idString(id)+"/update")
}

func (ic *InstancesController) handleInstanceSubmit(c *gin.Context, id uint, title, action string) {
	if err := c.Request.ParseForm(); err != nil {
		respondBadRequest(c, "malformed form data")
		return
	}

	result := forms.Validate(c.Request.PostForm, instanceRules()...)
	draft := draftFromInstanceForm(result)

	if !result.Valid() {
		bookList, err := ic.books.GetAll()
		if err != nil {
			respondInternalError(c, err, "reload copy form")
			return
		}
		c.HTML(http.StatusOK, "instance_form", pageData(c, gin.H{
			"Title":    title,
			"Action":   action,
			"Books":    bookList,
			"Statuses": entities.InstanceStatuses(),
			"Instance": draft,
			"Errors":   result.Errors(),
		}))
		return
	}

	bookID, err := strconv.ParseUint(draft.BookID, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid book")
		return
	}

	instance := &entities.BookInstance{
		ID:      id,
		BookID:  uint(bookID),
		Imprint: draft.Imprint,
		Status:  entities.InstanceStatus(draft.Status),
		DueBack: result.Date("due_back"),
	}

	if id == 0 {
		err = ic.instances.Create(instance)
	} else {
		err = ic.instances.Update(instance)
	}
	if err != nil {
		respondInternalError(c, err, "save copy")
		return
	}

	flash(ic.sessions, c, "Book instance saved")
	c.Redirect(http.StatusSeeOther, instance.URL())
}

// DeleteForm renders the delete confirmation.
// GET /catalog/bookinstance/:id/delete
func (ic *InstancesController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	instance, err := ic.instances.GetByID(id)
	if err != nil {
		respondFetchError(c, err, "Book copy")
		return
	}

	c.HTML(http.StatusOK, "instance_delete", pageData(c, gin.H{
		"Title":    "Delete Book Instance",
		"Instance": instance,
	}))
}

// Delete removes the copy. Copies have no dependents, so deletion is
// unconditional.
// POST /catalog/bookinstance/:id/delete
func (ic *InstancesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ic.instances.Delete(id); err != nil {
		respondInternalError(c, err, "delete copy")
		return
	}

	flash(ic.sessions, c, "Book instance deleted")
	c.Redirect(http.StatusSeeOther, "/catalog/bookinstances")
}
