// Package intent turns one utterance plus UI context into exactly one
// typed action. The classifier is an ordered cascade of oracle-backed
// stages with a deterministic keyword fallback; it never throws outward
// and always terminates with a defined action.
package intent

import "voxnav/internal/nav"

// Kind discriminates the action variant. Exactly one payload is populated
// per action.
type Kind string

const (
	KindNavigation   Kind = "navigation"
	KindListMutation Kind = "list-mutation"
	KindFormMutation Kind = "form-mutation"
	KindNone         Kind = "none"
)

// ListOp is a mutation of a filtered/sorted list view.
type ListOp string

const (
	ListFilter ListOp = "filter"
	ListSort   ListOp = "sort"
	ListSearch ListOp = "search"
	ListClear  ListOp = "clear"
)

// ValidListOp reports whether op is one of the closed list-mutation verbs.
func ValidListOp(op string) bool {
	switch ListOp(op) {
	case ListFilter, ListSort, ListSearch, ListClear:
		return true
	}
	return false
}

// FormOp is a mutation of the contact form.
type FormOp string

const (
	FormFillOne  FormOp = "fill-one"
	FormFillMany FormOp = "fill-many"
	FormSubmit   FormOp = "submit"
)

// FieldEntry is one field/value pair for a form mutation.
type FieldEntry struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ListMutation mutates a list view: filter, sort, search, or clear.
type ListMutation struct {
	Op    ListOp `json:"op"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// FormMutation fills or submits the contact form.
type FormMutation struct {
	Op      FormOp       `json:"op"`
	Entries []FieldEntry `json:"entries,omitempty"`
}

// Action is the classifier's result: an immutable value produced once per
// utterance and consumed at most once. Utterance carries the original
// text for debugging and user-facing error messages.
type Action struct {
	Kind        Kind             `json:"kind"`
	Utterance   string           `json:"utterance,omitempty"`
	Destination *nav.Destination `json:"destination,omitempty"`
	List        *ListMutation    `json:"list,omitempty"`
	Form        *FormMutation    `json:"form,omitempty"`
}

// Navigate builds a navigation action.
func Navigate(utterance string, dest nav.Destination) Action {
	return Action{Kind: KindNavigation, Utterance: utterance, Destination: &dest}
}

// NewListMutation builds a list-mutation action.
func NewListMutation(utterance string, m ListMutation) Action {
	return Action{Kind: KindListMutation, Utterance: utterance, List: &m}
}

// NewFormMutation builds a form-mutation action.
func NewFormMutation(utterance string, m FormMutation) Action {
	return Action{Kind: KindFormMutation, Utterance: utterance, Form: &m}
}

// Submit builds the form submission action.
func Submit(utterance string) Action {
	return NewFormMutation(utterance, FormMutation{Op: FormSubmit})
}

// NoMatch builds the terminal "couldn't determine intent" action.
func NoMatch(utterance string) Action {
	return Action{Kind: KindNone, Utterance: utterance}
}
