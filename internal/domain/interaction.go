package domain

import "fmt"

// InteractionType is the structural category of input being requested.
type InteractionType string

const (
	TypeConfirmation InteractionType = "confirmation"
	TypeSelection    InteractionType = "selection"
	TypeTextInput    InteractionType = "text_input"
	TypeFileUpload   InteractionType = "file_upload"
	TypeCustom       InteractionType = "custom"
)

// Option is a single selectable value with a display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one entry in a text_input form.
type Field struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	FieldType string   `json:"field_type"` // "text" | "textarea" | "number" | "select" | ...
	Required  bool     `json:"required"`
	Default   any      `json:"default,omitempty"`
	Options   []Option `json:"options,omitempty"`
	MinValue  *float64 `json:"min_value,omitempty"`
	MaxValue  *float64 `json:"max_value,omitempty"`
	Pattern   string   `json:"validation,omitempty"`
}

// DefaultString renders the field default as a string, or "" when unset.
func (f Field) DefaultString() string {
	if f.Default == nil {
		return ""
	}
	if s, ok := f.Default.(string); ok {
		return s
	}
	return fmt.Sprint(f.Default)
}

// InteractionRequest describes what input the backend is asking for.
// Which payload fields are meaningful depends on Type.
type InteractionRequest struct {
	Type         InteractionType `json:"interaction_type"`
	Title        string          `json:"title"`
	Message      string          `json:"message"`
	Fields       []Field         `json:"fields,omitempty"`
	Options      []Option        `json:"options,omitempty"`
	DefaultValue any             `json:"default_value,omitempty"`
	Timeout      int             `json:"timeout,omitempty"` // seconds
	Multiple     bool            `json:"multiple,omitempty"`
	AcceptTypes  []string        `json:"accept_types,omitempty"`
	MaxFileSize  string          `json:"max_file_size,omitempty"`
}

// defaultConfirmation is the binary pair offered when a confirmation
// request declares no options of its own.
var defaultConfirmation = []Option{
	{Value: "confirm", Label: "Confirm"},
	{Value: "cancel", Label: "Cancel"},
}

// ConfirmationOptions returns the declared options, falling back to the
// standard confirm/cancel pair.
func (r *InteractionRequest) ConfirmationOptions() []Option {
	if len(r.Options) > 0 {
		return r.Options
	}
	return defaultConfirmation
}

// ResponsePayload maps field or selection names to submitted values.
type ResponsePayload map[string]any
