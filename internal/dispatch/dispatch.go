package dispatch

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/soyeahso/humanloop/internal/domain"
)

// ErrNoInteraction is returned for a session that carries no
// interaction data.
var ErrNoInteraction = errors.New("session has no interaction data")

// handler collects and validates input for one interaction type.
type handler interface {
	render(sess *domain.Session, form *RenderedForm)
	response(sess *domain.Session, in Input) (domain.ResponsePayload, error)
}

// handlerFor selects the handler for a type. Unknown types fall back to
// the custom handler, which offers cancellation only.
func handlerFor(t domain.InteractionType) handler {
	switch t {
	case domain.TypeConfirmation:
		return confirmationHandler{}
	case domain.TypeSelection:
		return selectionHandler{}
	case domain.TypeTextInput:
		return textInputHandler{}
	case domain.TypeFileUpload:
		return fileUploadHandler{}
	default:
		return customHandler{}
	}
}

// Render produces the structural form for a session.
func Render(sess *domain.Session) (RenderedForm, error) {
	if sess.Interaction == nil {
		return RenderedForm{}, ErrNoInteraction
	}
	form := RenderedForm{
		SessionID: sess.SessionID,
		Type:      sess.Interaction.Type,
		Title:     sess.Interaction.Title,
		Message:   sess.Interaction.Message,
	}
	handlerFor(sess.Interaction.Type).render(sess, &form)
	return form, nil
}

// BuildResponse validates in against the session's interaction contract
// and produces the response payload. A *ValidationError means the
// required inputs are incomplete; nothing was sent anywhere.
func BuildResponse(sess *domain.Session, in Input) (domain.ResponsePayload, error) {
	if sess.Interaction == nil {
		return nil, ErrNoInteraction
	}
	return handlerFor(sess.Interaction.Type).response(sess, in)
}

// --- confirmation ---

type confirmationHandler struct{}

func (confirmationHandler) render(sess *domain.Session, form *RenderedForm) {
	form.Choices = sess.Interaction.ConfirmationOptions()
}

// A single choice ends the flow; the only check is that the choice is
// one of the offered buttons.
func (confirmationHandler) response(sess *domain.Session, in Input) (domain.ResponsePayload, error) {
	if in.Choice == "" {
		return nil, &ValidationError{Field: "choice", Constraint: "a choice is required"}
	}
	for _, opt := range sess.Interaction.ConfirmationOptions() {
		if opt.Value == in.Choice {
			return domain.ResponsePayload{"choice": in.Choice}, nil
		}
	}
	return nil, &ValidationError{Field: "choice", Constraint: fmt.Sprintf("%q is not an offered option", in.Choice)}
}

// --- selection ---

type selectionHandler struct{}

func (selectionHandler) render(sess *domain.Session, form *RenderedForm) {
	form.Options = sess.Interaction.Options
	form.Multiple = sess.Interaction.Multiple
}

func (selectionHandler) response(sess *domain.Session, in Input) (domain.ResponsePayload, error) {
	req := sess.Interaction

	picked := make(map[string]bool, len(in.Selected))
	for _, v := range in.Selected {
		known := false
		for _, opt := range req.Options {
			if opt.Value == v {
				known = true
				break
			}
		}
		if !known {
			return nil, &ValidationError{Field: "selection", Constraint: fmt.Sprintf("%q is not an offered option", v)}
		}
		picked[v] = true
	}

	if len(picked) == 0 {
		return nil, &ValidationError{Field: "selection", Constraint: "at least one option must be selected"}
	}

	if !req.Multiple {
		if len(picked) > 1 {
			return nil, &ValidationError{Field: "selection", Constraint: "exactly one option must be selected"}
		}
		for v := range picked {
			return domain.ResponsePayload{"selection": v}, nil
		}
	}

	// Response order follows the options list, not pick order.
	ordered := make([]string, 0, len(picked))
	for _, opt := range req.Options {
		if picked[opt.Value] {
			ordered = append(ordered, opt.Value)
		}
	}
	return domain.ResponsePayload{"selection": ordered}, nil
}

// --- text_input ---

type textInputHandler struct{}

func (textInputHandler) render(sess *domain.Session, form *RenderedForm) {
	form.Fields = sess.Interaction.Fields
}

// The payload carries every declared field, required or not. Absent
// optional fields take their declared default.
func (textInputHandler) response(sess *domain.Session, in Input) (domain.ResponsePayload, error) {
	payload := make(domain.ResponsePayload, len(sess.Interaction.Fields))

	for _, field := range sess.Interaction.Fields {
		value, provided := in.Fields[field.Name]
		if !provided {
			value = field.DefaultString()
		}

		if field.Required && strings.TrimSpace(value) == "" {
			return nil, &ValidationError{Field: field.Name, Constraint: "required field is empty"}
		}

		if value != "" {
			if err := checkFieldValue(field, value); err != nil {
				return nil, err
			}
		}

		payload[field.Name] = value
	}

	return payload, nil
}

func checkFieldValue(field domain.Field, value string) error {
	if field.FieldType == "number" || field.MinValue != nil || field.MaxValue != nil {
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &ValidationError{Field: field.Name, Constraint: "must be numeric"}
		}
		if field.MinValue != nil && n < *field.MinValue {
			return &ValidationError{Field: field.Name, Constraint: fmt.Sprintf("must be at least %v", *field.MinValue)}
		}
		if field.MaxValue != nil && n > *field.MaxValue {
			return &ValidationError{Field: field.Name, Constraint: fmt.Sprintf("must be at most %v", *field.MaxValue)}
		}
	}

	if field.Pattern != "" {
		re, err := regexp.Compile(field.Pattern)
		if err != nil {
			return &ValidationError{Field: field.Name, Constraint: "declared pattern is invalid"}
		}
		if !re.MatchString(value) {
			return &ValidationError{Field: field.Name, Constraint: "does not match pattern " + field.Pattern}
		}
	}

	if field.FieldType == "select" && len(field.Options) > 0 {
		for _, opt := range field.Options {
			if opt.Value == value {
				return nil
			}
		}
		return &ValidationError{Field: field.Name, Constraint: fmt.Sprintf("%q is not an offered option", value)}
	}

	return nil
}

// --- file_upload ---

type fileUploadHandler struct{}

func (fileUploadHandler) render(sess *domain.Session, form *RenderedForm) {
	form.MultipleFiles = sess.Interaction.Multiple
	form.AcceptTypes = sess.Interaction.AcceptTypes
	form.MaxFileSize = sess.Interaction.MaxFileSize // advisory only
}

func (fileUploadHandler) response(sess *domain.Session, in Input) (domain.ResponsePayload, error) {
	req := sess.Interaction

	if len(in.Files) == 0 {
		return nil, &ValidationError{Field: "files", Constraint: "at least one file must be selected"}
	}
	if !req.Multiple && len(in.Files) > 1 {
		return nil, &ValidationError{Field: "files", Constraint: "exactly one file must be selected"}
	}

	for _, name := range in.Files {
		if !acceptsFile(req.AcceptTypes, name) {
			return nil, &ValidationError{
				Field:      "files",
				Constraint: fmt.Sprintf("%q is not an accepted type (%s)", name, strings.Join(req.AcceptTypes, ", ")),
			}
		}
	}

	return domain.ResponsePayload{"files": in.Files}, nil
}

// acceptsFile checks a file name against the accept list. Extension
// entries (".log") are matched by suffix; MIME entries cannot be
// verified from a name alone and are treated as accepted.
func acceptsFile(acceptTypes []string, name string) bool {
	if len(acceptTypes) == 0 {
		return true
	}
	for _, accept := range acceptTypes {
		if strings.HasPrefix(accept, ".") {
			if strings.HasSuffix(strings.ToLower(name), strings.ToLower(accept)) {
				return true
			}
			continue
		}
		return true
	}
	return false
}

// --- custom ---

type customHandler struct{}

func (customHandler) render(sess *domain.Session, form *RenderedForm) {
	form.CancelOnly = true
}

func (customHandler) response(sess *domain.Session, in Input) (domain.ResponsePayload, error) {
	return nil, &ValidationError{Constraint: "custom interactions accept no structured response; cancel instead"}
}
