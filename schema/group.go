package schema

import (
	"strings"

	"codeberg.org/mutker/errschema/internal/errors"
	"github.com/rs/zerolog"
)

const defaultSeparator = ";"

// Group is an ordered collection of schemas. A group made by NewAPIGroup
// only accepts API schemas.
type Group struct {
	kind    Kind
	schemas []*ErrorSchema
	indent  int
}

// NewGroup returns an empty group accepting every schema variant.
func NewGroup() *Group {
	return &Group{indent: DefaultSettings().JSONIndent}
}

// NewAPIGroup returns an empty group accepting API schemas only.
func NewAPIGroup() *Group {
	return &Group{kind: KindAPI, indent: DefaultSettings().JSONIndent}
}

// Kind returns the accepted variant, or "" when every variant is accepted.
func (g *Group) Kind() Kind { return g.kind }

func (g *Group) check(schemas ...*ErrorSchema) error {
	for i, s := range schemas {
		if s == nil {
			return errFactory.WithDetail(errors.ErrInvalidMember, i)
		}
		if g.kind != "" && s.kind != g.kind {
			return errFactory.WithDetail(errors.ErrInvalidMember, s.kind)
		}
	}
	return nil
}

// Append adds s to the end of the group.
func (g *Group) Append(s *ErrorSchema) error {
	if err := g.check(s); err != nil {
		return err
	}
	g.schemas = append(g.schemas, s)
	return nil
}

// Extend adds schemas in order. Nothing is added if any of them is
// rejected.
func (g *Group) Extend(schemas ...*ErrorSchema) error {
	if err := g.check(schemas...); err != nil {
		return err
	}
	g.schemas = append(g.schemas, schemas...)
	return nil
}

// ExtendGroup adds copies of the members of other.
func (g *Group) ExtendGroup(other *Group) error {
	if other == nil {
		return errFactory.WithDetail(errors.ErrInvalidMember, "nil group")
	}
	return g.Extend(other.ToList()...)
}

// Set replaces the schema at index i.
func (g *Group) Set(i int, s *ErrorSchema) error {
	if i < 0 || i >= len(g.schemas) {
		return errFactory.WithDetail(errors.ErrIndexOutOfRange, i)
	}
	if err := g.check(s); err != nil {
		return err
	}
	g.schemas[i] = s
	return nil
}

// At returns the schema at index i, or nil when i is out of range.
func (g *Group) At(i int) *ErrorSchema {
	if i < 0 || i >= len(g.schemas) {
		return nil
	}
	return g.schemas[i]
}

// Len returns the number of schemas.
func (g *Group) Len() int { return len(g.schemas) }

// Schemas returns the members. The slice is a copy; the schemas are shared.
func (g *Group) Schemas() []*ErrorSchema {
	return append([]*ErrorSchema(nil), g.schemas...)
}

// ToDicts returns the backend record of every member.
func (g *Group) ToDicts() []map[string]any {
	return g.ToDictsFor(TargetBackend)
}

// ToDictsFor returns the record of every member for target.
func (g *Group) ToDictsFor(target Target) []map[string]any {
	out := make([]map[string]any, 0, len(g.schemas))
	for _, s := range g.schemas {
		out = append(out, s.ToDictFor(target))
	}
	return out
}

// ToString returns the backend records as a JSON array.
func (g *Group) ToString() string {
	return g.ToStringFor(TargetBackend)
}

// ToStringFor returns the records for target as a JSON array.
func (g *Group) ToStringFor(target Target) string {
	return encode(g.ToDictsFor(target), g.indent, "[]")
}

// ToList returns deep copies of the members.
func (g *Group) ToList() []*ErrorSchema {
	out := make([]*ErrorSchema, 0, len(g.schemas))
	for _, s := range g.schemas {
		out = append(out, s.Clone())
	}
	return out
}

// ConcatMessages joins member messages with sep followed by a space. An
// empty sep means ";".
func (g *Group) ConcatMessages(sep string) string {
	if sep == "" {
		sep = defaultSeparator
	}
	msgs := make([]string, 0, len(g.schemas))
	for _, s := range g.schemas {
		msgs = append(msgs, s.msg)
	}
	return strings.Join(msgs, sep+" ")
}

// ContainsType reports whether a member has the tag, compared in lower case.
func (g *Group) ContainsType(tag string) bool {
	tag = strings.ToLower(tag)
	for _, s := range g.schemas {
		if s.typ == tag {
			return true
		}
	}
	return false
}

// HasErrors reports whether the group has members.
func (g *Group) HasErrors() bool {
	return len(g.schemas) > 0
}

// Copy returns a deep copy of the group.
func (g *Group) Copy() *Group {
	return &Group{kind: g.kind, schemas: g.ToList(), indent: g.indent}
}

// Clear removes every member.
func (g *Group) Clear() {
	g.schemas = nil
}

// AppendLoc appends loc to the location path of every API member.
func (g *Group) AppendLoc(loc string) {
	for _, s := range g.schemas {
		s.AppendLoc(loc)
	}
}

// MarshalJSON encodes the backend records as an array.
func (g *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToDicts())
}

// MarshalZerologArray writes every member as a log object.
func (g *Group) MarshalZerologArray(a *zerolog.Array) {
	for _, s := range g.schemas {
		a.Object(s)
	}
}
