// Package dispatch maps an interaction's declared type to the input
// flow it requires, and validates collected input into a response
// payload. It never mutates the session store.
package dispatch

import "github.com/soyeahso/humanloop/internal/domain"

// RenderedForm is a structural description of what inputs to present
// for a session. It carries no markup; rendering is a collaborator's
// concern.
type RenderedForm struct {
	SessionID string
	Type      domain.InteractionType
	Title     string
	Message   string

	// confirmation: finite fixed choice buttons
	Choices []domain.Option

	// selection
	Options  []domain.Option
	Multiple bool

	// text_input
	Fields []domain.Field

	// file_upload
	MultipleFiles bool
	AcceptTypes   []string
	MaxFileSize   string

	// custom: cancellation is the only available action
	CancelOnly bool
}

// Input is the raw operator input collected for a session. Which
// fields are read depends on the interaction type.
type Input struct {
	Choice   string            // confirmation
	Selected []string          // selection
	Fields   map[string]string // text_input, keyed by field name
	Files    []string          // file_upload, file names or paths
}

// ValidationError reports input that fails the interaction type's
// contract. It is raised locally, before any network call.
type ValidationError struct {
	Field      string // offending field or selection name, if any
	Constraint string // the unmet constraint
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "validation: " + e.Field + ": " + e.Constraint
	}
	return "validation: " + e.Constraint
}
