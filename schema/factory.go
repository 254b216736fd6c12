package schema

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeberg.org/mutker/errschema/internal/config"
	"codeberg.org/mutker/errschema/internal/errors"
	"codeberg.org/mutker/errschema/internal/location"
	"codeberg.org/mutker/errschema/internal/record"
	"codeberg.org/mutker/errschema/mapper"
)

// Category tags of the named factories
const (
	TypeDatabase   = "database_error"
	TypeFile       = "file_error"
	TypeRuntime    = "runtime_error"
	TypeTimeout    = "timeout_error"
	TypeParse      = "parse_error"
	TypeValue      = "value_error"
	TypeValidation = "validation_error"
	TypeDocker     = "docker_error"
	TypeCustomized = "customized_error"
)

const (
	customizedMsg = "Customized error occurred."
	fromErrorMsg  = "Error occurred."
)

// binding ties a named factory to its tag and default message.
type binding struct {
	name       string
	tag        string
	defaultMsg string
}

var baseBindings = []binding{
	{name: TypeDatabase, tag: TypeDatabase, defaultMsg: "Database error occurred."},
	{name: TypeFile, tag: TypeFile, defaultMsg: "File error occurred."},
	{name: TypeRuntime, tag: TypeRuntime, defaultMsg: "Runtime error occurred."},
	{name: TypeTimeout, tag: TypeTimeout, defaultMsg: "Timeout error occurred."},
	{name: TypeParse, tag: TypeParse, defaultMsg: "Parse error occurred."},
	{name: TypeValue, tag: TypeValue, defaultMsg: "Value error occurred."},
}

var apiBindings = append(append([]binding{}, baseBindings...),
	binding{name: TypeValidation, tag: TypeValidation, defaultMsg: "Validation error occurred."},
	binding{name: TypeDocker, tag: TypeDocker, defaultMsg: "Docker error occurred."},
)

// Locator finds the caller location recorded by API schemas.
type Locator interface {
	Caller() (string, bool)
}

// Settings holds the library settings.
type Settings = config.Settings

// LoadSettings reads settings from a toml, yaml or json file. An empty path
// returns the defaults.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return config.Load()
	}
	return config.Load(config.WithConfigFile(path))
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() *Settings {
	return config.Default()
}

// Factory builds schemas of one variant.
type Factory struct {
	kind     Kind
	profile  string
	mapper   *mapper.Mapper
	bindings map[string]binding
	strict   bool
	autoLoc  bool
	indent   int
	locator  Locator
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithMapper sets the mapper used by FromError.
func WithMapper(m *mapper.Mapper) FactoryOption {
	return func(f *Factory) {
		if m != nil {
			f.mapper = m
		}
	}
}

// WithProfile sets the mapper profile used by FromError.
func WithProfile(name string) FactoryOption {
	return func(f *Factory) {
		if name != "" {
			f.profile = name
		}
	}
}

// WithStrictFields toggles rejection of unknown record fields.
func WithStrictFields(strict bool) FactoryOption {
	return func(f *Factory) {
		f.strict = strict
	}
}

// WithAutoLocation toggles automatic caller location for API schemas.
func WithAutoLocation(enabled bool) FactoryOption {
	return func(f *Factory) {
		f.autoLoc = enabled
	}
}

// WithJSONIndent sets the indent width of ToString output.
func WithJSONIndent(n int) FactoryOption {
	return func(f *Factory) {
		if n >= 0 {
			f.indent = n
		}
	}
}

// WithLocator replaces the caller-location resolver.
func WithLocator(l Locator) FactoryOption {
	return func(f *Factory) {
		if l != nil {
			f.locator = l
		}
	}
}

// WithEntryDir makes locations relative to dir. It replaces any locator
// set before it.
func WithEntryDir(dir string) FactoryOption {
	return func(f *Factory) {
		f.locator = defaultLocator(dir)
	}
}

// WithSettings applies s to the factory and gives it a mapper built from s.
func WithSettings(s *Settings) FactoryOption {
	return func(f *Factory) {
		if s == nil {
			return
		}
		f.strict = s.StrictFields
		f.autoLoc = s.AutoLocation
		f.indent = s.JSONIndent
		f.mapper = mapper.New(mapper.WithSettings(s))
	}
}

func newFactory(kind Kind, profile string, bindings []binding, opts []FactoryOption) *Factory {
	d := config.Default()
	f := &Factory{
		kind:     kind,
		profile:  profile,
		mapper:   mapper.Default(),
		bindings: make(map[string]binding, len(bindings)),
		strict:   d.StrictFields,
		autoLoc:  d.AutoLocation,
		indent:   d.JSONIndent,
		locator:  defaultLocator(""),
	}
	for _, b := range bindings {
		f.bindings[b.name] = b
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func defaultLocator(entryDir string) Locator {
	return location.Resolver{
		Skip:     location.LibraryPackages("schema", "mapper"),
		EntryDir: entryDir,
	}
}

// NewFactory returns a factory for base schemas.
func NewFactory(opts ...FactoryOption) *Factory {
	return newFactory(KindBase, mapper.ProfileBase, baseBindings, opts)
}

// Base is the package-level factory for base schemas.
var Base = NewFactory()

// Kind returns the variant built by f.
func (f *Factory) Kind() Kind { return f.kind }

// Profile returns the mapper profile used by FromError.
func (f *Factory) Profile() string { return f.profile }

// Mapping returns the exception table of the factory's profile.
func (f *Factory) Mapping() (mapper.Table, error) {
	return f.mapper.Mapping(f.profile)
}

// ListAvailableErrors returns the names of the named factories, sorted.
func (f *Factory) ListAvailableErrors() []string {
	names := make([]string, 0, len(f.bindings))
	for name := range f.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds a schema with the named factory.
func (f *Factory) New(name string, opts ...Option) (*ErrorSchema, error) {
	b, ok := f.bindings[name]
	if !ok {
		return nil, errFactory.WithDetail(errors.ErrUnknownFactory, name)
	}

	p := newParams(opts)
	if err := p.prepare(false); err != nil {
		return nil, err
	}

	return f.create(b.tag, b.defaultMsg, p)
}

// DatabaseError builds a database_error schema.
func (f *Factory) DatabaseError(opts ...Option) (*ErrorSchema, error) {
	return f.New(TypeDatabase, opts...)
}

// FileError builds a file_error schema.
func (f *Factory) FileError(opts ...Option) (*ErrorSchema, error) {
	return f.New(TypeFile, opts...)
}

// RuntimeError builds a runtime_error schema.
func (f *Factory) RuntimeError(opts ...Option) (*ErrorSchema, error) {
	return f.New(TypeRuntime, opts...)
}

// TimeoutError builds a timeout_error schema.
func (f *Factory) TimeoutError(opts ...Option) (*ErrorSchema, error) {
	return f.New(TypeTimeout, opts...)
}

// ParseError builds a parse_error schema.
func (f *Factory) ParseError(opts ...Option) (*ErrorSchema, error) {
	return f.New(TypeParse, opts...)
}

// ValueError builds a value_error schema.
func (f *Factory) ValueError(opts ...Option) (*ErrorSchema, error) {
	return f.New(TypeValue, opts...)
}

// CustomizedError builds a schema with the tag given by WithType, or
// customized_error.
func (f *Factory) CustomizedError(opts ...Option) (*ErrorSchema, error) {
	p := newParams(opts)
	if err := p.prepare(true); err != nil {
		return nil, err
	}

	tag := TypeCustomized
	if p.typ != nil && *p.typ != "" {
		tag = *p.typ
	}

	return f.create(tag, customizedMsg, p)
}

// FromError builds a schema from err. The tag comes from the mapper, the
// message from err, and the cause of err is appended when its text is not
// already part of the message. An err that is or wraps a schema of this
// variant is returned as is.
func (f *Factory) FromError(err error, opts ...Option) (*ErrorSchema, error) {
	if err == nil {
		return nil, errFactory.New(errors.ErrNilError)
	}

	var existing *ErrorSchema
	if errors.As(err, &existing) && (f.kind == KindBase || existing.kind == f.kind) {
		return existing, nil
	}

	p := newParams(opts)
	if err := p.prepare(false); err != nil {
		return nil, err
	}

	tag, terr := f.mapper.ErrorTypeOf(f.profile, err)
	if terr != nil {
		return nil, terr
	}

	msg := err.Error()
	p.msg = &msg
	if cause := errors.Unwrap(err); cause != nil && p.exc == nil && !strings.Contains(msg, cause.Error()) {
		p.exc = cause
	}

	return f.create(tag, fromErrorMsg, p)
}

// FromRecord builds a schema from a plain record without formatting. type
// and msg are required.
func (f *Factory) FromRecord(fields map[string]any) (*ErrorSchema, error) {
	return f.decode(fields)
}

// NewGroup returns an empty group for schemas of this factory's variant.
// Base groups accept every variant.
func (f *Factory) NewGroup() *Group {
	g := NewGroup()
	if f.kind == KindAPI {
		g = NewAPIGroup()
	}
	g.indent = f.indent
	return g
}

// Must returns s or panics with err.
func Must(s *ErrorSchema, err error) *ErrorSchema {
	if err != nil {
		panic(err)
	}
	return s
}

func (f *Factory) create(tag, defaultMsg string, p *params) (*ErrorSchema, error) {
	body, ok := p.body()
	if !ok {
		body = defaultMsg
		if f.kind == KindAPI && p.uiMsg != nil && *p.uiMsg != "" {
			body = *p.uiMsg
		}
	}

	backend := body
	if p.exc != nil {
		backend += " (" + p.exc.Error() + ")"
	}

	fields := map[string]any{
		FieldType: tag,
		FieldMsg:  prefixed(tag, backend),
	}

	if f.kind == KindAPI {
		ui := body
		if p.uiMsg != nil && *p.uiMsg != "" {
			ui = *p.uiMsg
		}
		fields[FieldUIMsg] = upperFirst(strings.TrimSpace(ui))
	} else if p.uiMsg != nil {
		fields[FieldUIMsg] = *p.uiMsg
	}

	switch {
	case p.locSet:
		fields[FieldLoc] = p.loc
	case f.kind == KindAPI && f.autoLoc && !p.noAutoLoc:
		if loc, ok := f.locator.Caller(); ok {
			fields[FieldLoc] = []string{loc}
		}
	}

	if p.input != nil {
		fields[FieldInput] = p.input
	}
	for name, v := range p.extra {
		if _, set := fields[name]; set || isKnownField(name) {
			continue
		}
		fields[name] = v
	}

	return f.decode(fields)
}

type baseRecord struct {
	Type string `mapstructure:"type"`
	Msg  string `mapstructure:"msg"`
}

type apiRecord struct {
	Type  string         `mapstructure:"type"`
	Msg   string         `mapstructure:"msg"`
	UIMsg *string        `mapstructure:"ui_msg"`
	Loc   []string       `mapstructure:"loc"`
	Input map[string]any `mapstructure:"input"`
}

func (f *Factory) decode(fields map[string]any) (*ErrorSchema, error) {
	dec := record.Decoder{Strict: f.strict}
	s := &ErrorSchema{kind: f.kind, indent: f.indent}

	if f.kind != KindAPI {
		var r baseRecord
		if err := dec.Decode(fields, &r, FieldType, FieldMsg); err != nil {
			return nil, err
		}
		s.typ, s.msg = r.Type, r.Msg
		return s, nil
	}

	var r apiRecord
	if err := dec.Decode(fields, &r, FieldType, FieldMsg); err != nil {
		return nil, err
	}
	s.typ, s.msg, s.uiMsg = r.Type, r.Msg, r.UIMsg
	s.loc = append([]string{}, r.Loc...)
	s.input = copyInput(r.Input)
	return s, nil
}

// normalize moves WithField values that name a known field into their
// slot. Any value under "type" counts as a type choice, even one of the
// wrong type. Other known names must carry their field's Go type. A
// builder template replaces whatever message the caller gave.
func (p *params) normalize() error {
	var invalid []string
	for name, v := range p.extra {
		if !isKnownField(name) {
			continue
		}
		delete(p.extra, name)

		ok := true
		switch name {
		case FieldType:
			p.typeSet = true
			var tag string
			if tag, ok = v.(string); ok {
				p.typ = &tag
			}
		case FieldMsg:
			var msg string
			if msg, ok = v.(string); ok {
				p.msg = &msg
			}
		case FieldUIMsg:
			var msg string
			if msg, ok = v.(string); ok {
				p.uiMsg = &msg
			}
		case FieldLoc:
			var loc []string
			if loc, ok = v.([]string); ok {
				p.loc, p.locSet = append([]string{}, loc...), true
			}
		case FieldInput:
			var input map[string]any
			if input, ok = v.(map[string]any); ok && input != nil {
				p.input = input
			} else {
				ok = false
			}
		}
		if !ok {
			invalid = append(invalid, name)
		}
	}

	if p.template != nil {
		p.msg = p.template
	}

	if len(invalid) > 0 {
		sort.Strings(invalid)
		return errFactory.WithDetail(errors.ErrInvalidField, invalid)
	}
	return nil
}

// prepare normalizes p. Unless allowType is set, any type choice fails with
// ErrOverrideForbidden ahead of other field problems.
func (p *params) prepare(allowType bool) error {
	err := p.normalize()
	if !allowType && (p.typ != nil || p.typeSet) {
		return overrideForbidden()
	}
	return err
}

func isKnownField(name string) bool {
	switch name {
	case FieldType, FieldMsg, FieldUIMsg, FieldLoc, FieldInput:
		return true
	}
	return false
}

func overrideForbidden() error {
	return errFactory.Messagef(errors.ErrOverrideForbidden,
		"Overriding the '%s' field is not allowed", FieldType)
}

// Readable renders a tag for display: "database_error" becomes
// "Database error".
func Readable(tag string) string {
	return upperFirst(strings.ToLower(strings.ReplaceAll(tag, "_", " ")))
}

func prefixed(tag, body string) string {
	r := Readable(tag)
	if strings.HasPrefix(body, r+":") {
		return body
	}
	return r + ": " + lowerFirst(body)
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}
