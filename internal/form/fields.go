package form

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldNames lists the contact form's fields in display order. Multi-field
// extraction preserves this order when building fill-many actions.
var FieldNames = []string{"name", "email", "subject", "message"}

// KnownField reports whether name is a real form field. Unknown names are
// rejected, not silently dropped.
func KnownField(name string) bool {
	for _, f := range FieldNames {
		if f == name {
			return true
		}
	}
	return false
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail performs the basic shape check applied before an email
// value is written into the form: something@something.something.
func ValidateEmail(value string) error {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return fmt.Errorf("%q does not look like a valid email address", value)
	}
	return nil
}

// CleanValue strips the connector words speech recognition tends to glue
// onto the front of a field value ("is", "as", "with", "to").
func CleanValue(value string) string {
	v := strings.TrimSpace(value)
	lower := strings.ToLower(v)
	for _, prefix := range []string{"is ", "as ", "with ", "to "} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(v[len(prefix):])
		}
	}
	return v
}
