// Package schema builds structured error records.
//
// An ErrorSchema carries a category tag and a formatted message. Schemas
// built by the API variant also carry a location path, an input payload and
// a user-facing message. Schemas are only produced by a Factory or by
// FromRecord.
package schema

import (
	"reflect"
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/copystructure"
	"github.com/rs/zerolog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind identifies the variant that produced a schema.
type Kind string

const (
	KindBase Kind = "ErrorSchema"
	KindAPI  Kind = "APIErrorSchema"
)

// Target selects the audience of a record view.
type Target string

const (
	TargetBackend  Target = "backend"
	TargetFrontend Target = "frontend"
)

// Record field names
const (
	FieldType  = "type"
	FieldMsg   = "msg"
	FieldUIMsg = "ui_msg"
	FieldLoc   = "loc"
	FieldInput = "input"
)

// ErrorSchema is a structured error record.
type ErrorSchema struct {
	kind   Kind
	typ    string
	msg    string
	uiMsg  *string
	loc    []string
	input  map[string]any
	indent int
}

// Kind returns the variant that produced s.
func (s *ErrorSchema) Kind() Kind { return s.kind }

// Type returns the category tag.
func (s *ErrorSchema) Type() string { return s.typ }

// Msg returns the backend message.
func (s *ErrorSchema) Msg() string { return s.msg }

// UIMsg returns the user-facing message, if any.
func (s *ErrorSchema) UIMsg() (string, bool) {
	if s.uiMsg == nil {
		return "", false
	}
	return *s.uiMsg, true
}

// Loc returns a copy of the location path.
func (s *ErrorSchema) Loc() []string {
	return append([]string{}, s.loc...)
}

// Input returns a deep copy of the input payload.
func (s *ErrorSchema) Input() map[string]any {
	return copyInput(s.input)
}

// Error implements the error interface.
func (s *ErrorSchema) Error() string {
	return s.msg
}

// AppendLoc appends entries to the location path. It is a no-op for base
// schemas, which have no location.
func (s *ErrorSchema) AppendLoc(loc ...string) {
	if s.kind != KindAPI {
		return
	}
	s.loc = append(s.loc, loc...)
}

// SetInput stores one input value. It is a no-op for base schemas.
func (s *ErrorSchema) SetInput(key string, value any) {
	if s.kind != KindAPI {
		return
	}
	if s.input == nil {
		s.input = make(map[string]any)
	}
	s.input[key] = value
}

// ToDict returns the backend record.
func (s *ErrorSchema) ToDict() map[string]any {
	return s.ToDictFor(TargetBackend)
}

// ToDictFor returns the record for target. The backend view holds type and
// msg, plus loc and input for API schemas. The frontend view holds the
// user-facing msg and input only.
func (s *ErrorSchema) ToDictFor(target Target) map[string]any {
	if target == TargetFrontend {
		msg := s.msg
		if s.uiMsg != nil && *s.uiMsg != "" {
			msg = *s.uiMsg
		}
		if s.kind != KindAPI {
			return map[string]any{FieldMsg: msg}
		}
		return map[string]any{
			FieldMsg:   msg,
			FieldInput: s.Input(),
		}
	}

	d := map[string]any{
		FieldType: s.typ,
		FieldMsg:  s.msg,
	}
	if s.kind == KindAPI {
		d[FieldLoc] = s.Loc()
		d[FieldInput] = s.Input()
	}
	return d
}

// ToString returns the backend record as JSON with sorted keys.
func (s *ErrorSchema) ToString() string {
	return s.ToStringFor(TargetBackend)
}

// ToStringFor returns the record for target as JSON with sorted keys.
// Input values JSON cannot represent are replaced by the encoder's error
// text; MarshalJSON reports them as an error instead.
func (s *ErrorSchema) ToStringFor(target Target) string {
	return encode(s.ToDictFor(target), s.indent, "{}")
}

// String implements fmt.Stringer.
func (s *ErrorSchema) String() string {
	return s.ToString()
}

// MarshalJSON encodes the backend record.
func (s *ErrorSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToDict())
}

// MarshalZerologObject writes the backend record as log fields.
func (s *ErrorSchema) MarshalZerologObject(e *zerolog.Event) {
	e.Str(FieldType, s.typ).Str(FieldMsg, s.msg)
	if s.kind != KindAPI {
		return
	}
	if len(s.loc) > 0 {
		e.Strs(FieldLoc, s.loc)
	}
	if len(s.input) > 0 {
		e.Interface(FieldInput, s.input)
	}
}

// Clone returns a deep copy of s.
func (s *ErrorSchema) Clone() *ErrorSchema {
	if s == nil {
		return nil
	}
	c := *s
	c.loc = s.Loc()
	c.input = copyInput(s.input)
	if s.uiMsg != nil {
		ui := *s.uiMsg
		c.uiMsg = &ui
	}
	return &c
}

// Equal reports whether s and other hold the same values. Input values are
// compared with reflect.DeepEqual, so a NaN never equals itself.
func (s *ErrorSchema) Equal(other *ErrorSchema) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.kind != other.kind || s.typ != other.typ || s.msg != other.msg {
		return false
	}
	a, _ := s.UIMsg()
	b, _ := other.UIMsg()
	if a != b {
		return false
	}
	if !slices.Equal(s.loc, other.loc) {
		return false
	}
	if len(s.input) == 0 && len(other.input) == 0 {
		return true
	}
	return reflect.DeepEqual(s.input, other.input)
}

func copyInput(in map[string]any) map[string]any {
	if in == nil {
		return map[string]any{}
	}
	out, err := copystructure.Copy(in)
	if err != nil {
		// Values copystructure cannot walk are shared rather than dropped.
		shallow := make(map[string]any, len(in))
		for k, v := range in {
			shallow[k] = v
		}
		return shallow
	}
	return out.(map[string]any)
}

// encode renders v as JSON. When v holds values JSON cannot represent, they
// are swapped for the encoder's error text so the output keeps its shape;
// fallback is used only if that fails too.
func encode(v any, indent int, fallback string) string {
	data, err := marshal(v, indent)
	if err != nil {
		data, err = marshal(sanitize(v), indent)
	}
	if err != nil {
		return fallback
	}
	return string(data)
}

func marshal(v any, indent int) ([]byte, error) {
	if indent > 0 {
		return json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	}
	return json.Marshal(v)
}

func sanitize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, x := range val {
			out[k] = sanitize(x)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = sanitize(x)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = sanitize(x)
		}
		return out
	}

	if _, err := json.Marshal(v); err != nil {
		return err.Error()
	}
	return v
}
