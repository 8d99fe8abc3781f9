package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AllFieldsPass(t *testing.T) {
	raw := url.Values{
		"title":   {"  The Name of the Wind "},
		"summary": {"A story."},
	}

	result := Validate(raw,
		NotEmpty("title", "Title must not be empty."),
		NotEmpty("summary", "Summary must not be empty."),
	)

	assert.True(t, result.Valid())
	assert.Empty(t, result.Errors())
	assert.Equal(t, "The Name of the Wind", result.Value("title"))
}

func TestValidate_ReportsEveryFailureInOnePass(t *testing.T) {
	raw := url.Values{
		"title":   {"   "},
		"summary": {"kept"},
		"isbn":    {""},
	}

	result := Validate(raw,
		NotEmpty("title", "Title must not be empty."),
		NotEmpty("summary", "Summary must not be empty."),
		NotEmpty("isbn", "ISBN must not be empty."),
	)

	require.False(t, result.Valid())
	require.Len(t, result.Errors(), 2)
	assert.Equal(t, FieldError{Field: "title", Message: "Title must not be empty."}, result.Errors()[0])
	assert.Equal(t, FieldError{Field: "isbn", Message: "ISBN must not be empty."}, result.Errors()[1])

	// Fields that passed keep their sanitized values in the draft.
	assert.Equal(t, "kept", result.Value("summary"))
}

func TestValidate_EscapesMarkup(t *testing.T) {
	raw := url.Values{"title": {`<script>alert("x")</script>`}}

	result := Validate(raw, NotEmpty("title", "Title must not be empty."))

	assert.True(t, result.Valid())
	assert.Equal(t, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;", result.Value("title"))
}

func TestValidate_Length(t *testing.T) {
	raw := url.Values{
		"family_name": {"Dostoyevsky"},
		"first_name":  {""},
	}

	result := Validate(raw,
		Length("family_name", 1, 5, "Family name too long."),
		Length("first_name", 0, 100, "First name too long."),
	)

	require.Len(t, result.Errors(), 1)
	assert.Equal(t, "family_name", result.Errors()[0].Field)
}

func TestValidate_OptionalDate(t *testing.T) {
	cases := []struct {
		value string
		valid bool
	}{
		{"", true},
		{"2024-02-29", true},
		{"2024-02-30", false},
		{"not-a-date", false},
		{"2024-13-01", false},
	}

	for _, tc := range cases {
		result := Validate(url.Values{"due_back": {tc.value}}, OptionalDate("due_back", "Invalid date"))
		assert.Equal(t, tc.valid, result.Valid(), "value %q", tc.value)
	}
}

func TestResult_Date(t *testing.T) {
	result := Validate(url.Values{"due_back": {" 2024-06-01 "}}, OptionalDate("due_back", "Invalid date"))

	parsed := result.Date("due_back")
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), *parsed)

	empty := Validate(url.Values{}, OptionalDate("due_back", "Invalid date"))
	assert.Nil(t, empty.Date("due_back"))
}

func TestValidate_OneOf(t *testing.T) {
	ok := Validate(url.Values{"status": {"Loaned"}}, OneOf("status", "Invalid status", "Available", "Loaned"))
	assert.True(t, ok.Valid())

	bad := Validate(url.Values{"status": {"Lost"}}, OneOf("status", "Invalid status", "Available", "Loaned"))
	require.False(t, bad.Valid())
	assert.Equal(t, "status", bad.Errors()[0].Field)
}

func TestValidate_RepeatableNormalization(t *testing.T) {
	// Absent field becomes an empty list.
	absent := Validate(url.Values{}, EachEscaped("genre"))
	assert.Equal(t, []string{}, absent.Values("genre"))

	// A scalar becomes a one-element list.
	scalar := Validate(url.Values{"genre": {"3"}}, EachEscaped("genre"))
	assert.Equal(t, []string{"3"}, scalar.Values("genre"))

	// A list is unchanged, order preserved.
	list := Validate(url.Values{"genre": {"3", "1", "7"}}, EachEscaped("genre"))
	assert.Equal(t, []string{"3", "1", "7"}, list.Values("genre"))
}

func TestValidate_RepeatableEscapesEachElement(t *testing.T) {
	result := Validate(url.Values{"genre": {"1", "<b>2</b>"}}, EachEscaped("genre"))
	assert.Equal(t, []string{"1", "&lt;b&gt;2&lt;/b&gt;"}, result.Values("genre"))
}

func TestValidate_RulesSeeOriginalRawInput(t *testing.T) {
	// Two rules on one field both sanitize from the raw value rather
	// than compounding each other's escaping.
	raw := url.Values{"name": {"<x>"}}

	result := Validate(raw,
		NotEmpty("name", "required"),
		Length("name", 1, 100, "too long"),
	)

	assert.True(t, result.Valid())
	assert.Equal(t, "&lt;x&gt;", result.Value("name"))
}
