// Package entities defines the catalog data model: authors, genres,
// books, and book instances (physical copies).
//
// Derived values (author display name, lifespan, entity URLs) are pure
// functions over stored fields and are never persisted.
package entities

import (
	"fmt"
	"time"
)

// InstanceStatus is the circulation state of a single book copy.
type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "Available"
	StatusMaintenance InstanceStatus = "Maintenance"
	StatusLoaned      InstanceStatus = "Loaned"
	StatusReserved    InstanceStatus = "Reserved"
)

// InstanceStatuses returns the closed set of valid copy statuses, in
// the order forms should present them.
func InstanceStatuses() []InstanceStatus {
	return []InstanceStatus{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}
}

// ValidInstanceStatus reports whether s is a member of the closed status set.
func ValidInstanceStatus(s string) bool {
	for _, status := range InstanceStatuses() {
		if string(status) == s {
			return true
		}
	}
	return false
}

// lifespanDateFormat matches the medium date style used on author pages.
const lifespanDateFormat = "Jan 2, 2006"

type Author struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100" json:"first_name"`
	FamilyName  string     `gorm:"index;size:100" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	Books       []Book     `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Name returns "family, first", or the empty string when either part
// is missing.
func (a Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan formats the author's birth and death dates. A living author
// gets "Present" for the death date; an author with neither date gets
// the literal "unknown".
func (a Author) Lifespan() string {
	if a.DateOfBirth == nil && a.DateOfDeath == nil {
		return "unknown"
	}
	span := ""
	if a.DateOfBirth != nil {
		span = a.DateOfBirth.Format(lifespanDateFormat)
	}
	span += " - "
	if a.DateOfDeath != nil {
		span += a.DateOfDeath.Format(lifespanDateFormat)
	} else {
		span += "Present"
	}
	return span
}

func (a Author) URL() string {
	return fmt.Sprintf("/catalog/author/%d", a.ID)
}

type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:100" json:"name"`
	Books     []Book    `gorm:"many2many:book_genres;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g Genre) URL() string {
	return fmt.Sprintf("/catalog/genre/%d", g.ID)
}

type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;size:512" json:"title"`
	AuthorID  uint      `gorm:"index" json:"author_id"`
	Author    Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Summary   string    `gorm:"type:text" json:"summary"`
	ISBN      string    `gorm:"index;size:20" json:"isbn"`
	Genres    []Genre   `gorm:"many2many:book_genres;" json:"genres,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b Book) URL() string {
	return fmt.Sprintf("/catalog/book/%d", b.ID)
}

type BookInstance struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookID    uint           `gorm:"index" json:"book_id"`
	Book      Book           `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Imprint   string         `gorm:"size:256" json:"imprint"`
	Status    InstanceStatus `gorm:"size:20;default:'Maintenance'" json:"status"`
	DueBack   *time.Time     `json:"due_back,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (bi BookInstance) URL() string {
	return fmt.Sprintf("/catalog/bookinstance/%d", bi.ID)
}

// DueBackISO renders the due date as an ISO calendar date for forms,
// or the empty string when no due date is set.
func (bi BookInstance) DueBackISO() string {
	if bi.DueBack == nil {
		return ""
	}
	return bi.DueBack.Format("2006-01-02")
}

func (Author) TableName() string {
	return "authors"
}

func (Genre) TableName() string {
	return "genres"
}

func (Book) TableName() string {
	return "books"
}

func (BookInstance) TableName() string {
	return "book_instances"
}
