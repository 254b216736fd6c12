package schema

import (
	"path/filepath"
	"strings"

	"codeberg.org/mutker/errschema/internal/errors"
)

// DomainBuilder builds templated messages for one category.
type DomainBuilder interface {
	// Name is the display name used in messages.
	Name() string
	// Category is the tag of the built schemas.
	Category() string
	// General builds "<Name> error occurred while <action>." or
	// "<Name> error occurred since <reason>.". At most one of action and
	// reason may be set.
	General(action, reason string, opts ...Option) (*ErrorSchema, error)
}

// Domain is a DomainBuilder bound to the factory that owns it.
type Domain struct {
	owner   *Factory
	ident   string
	display string
}

var _ DomainBuilder = (*Domain)(nil)

// NewDomain returns a sub-builder of owner. display overrides ident in
// messages when set.
func NewDomain(owner *Factory, ident, display string) *Domain {
	return &Domain{owner: owner, ident: ident, display: display}
}

func (d *Domain) Name() string {
	if d.display != "" {
		return d.display
	}
	return d.ident
}

func (d *Domain) Category() string {
	return strings.ToLower(d.Name()) + "_error"
}

func (d *Domain) General(action, reason string, opts ...Option) (*ErrorSchema, error) {
	if action != "" && reason != "" {
		return nil, errFactory.New(errors.ErrInvalidArguments)
	}

	switch {
	case action != "":
		return d.build(d.Name()+" error occurred while "+action+".", opts)
	case reason != "":
		return d.build(d.Name()+" error occurred since "+reason+".", opts)
	default:
		return d.build("", opts)
	}
}

// build sends msg to the owner's named factory for the category, or to
// CustomizedError when there is none. msg wins over any message in opts.
func (d *Domain) build(msg string, opts []Option) (*ErrorSchema, error) {
	if msg != "" {
		opts = append(opts[:len(opts):len(opts)], withTemplate(msg))
	}

	tag := d.Category()
	if _, ok := d.owner.bindings[tag]; ok {
		return d.owner.New(tag, opts...)
	}

	p := newParams(opts)
	if err := p.prepare(false); err != nil {
		return nil, err
	}
	return d.owner.CustomizedError(append(opts[:len(opts):len(opts)], WithType(tag))...)
}

// FileBuilder builds file_error schemas for path operations.
type FileBuilder struct {
	*Domain
}

// File returns the file sub-builder.
func (f *Factory) File() *FileBuilder {
	return &FileBuilder{NewDomain(f, "File", "")}
}

// pathKind is "file" when the last element of path has an extension,
// "directory" otherwise. A leading dot alone is not an extension.
func pathKind(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base && ext != "." {
		return "file"
	}
	return "directory"
}

func (b *FileBuilder) NotFound(path string, opts ...Option) (*ErrorSchema, error) {
	return b.build(Readable(pathKind(path))+" '"+path+"' not found.", opts)
}

func (b *FileBuilder) AlreadyExists(path string, opts ...Option) (*ErrorSchema, error) {
	return b.build(Readable(pathKind(path))+" '"+path+"' already exists.", opts)
}

func (b *FileBuilder) Creating(path string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Creating "+pathKind(path)+" '"+path+"' failed.", opts)
}

func (b *FileBuilder) Writing(path string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Writing to "+pathKind(path)+" '"+path+"' failed.", opts)
}

func (b *FileBuilder) Reading(path string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Reading from "+pathKind(path)+" '"+path+"' failed.", opts)
}

func (b *FileBuilder) Removing(path string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Removing "+pathKind(path)+" '"+path+"' failed.", opts)
}

func (b *FileBuilder) Copying(path string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Copying "+pathKind(path)+" '"+path+"' failed.", opts)
}

// Updating always describes a file.
func (b *FileBuilder) Updating(path string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Updating file '"+path+"' failed.", opts)
}

// DBBuilder builds database_error schemas.
type DBBuilder struct {
	*Domain
}

// DB returns the database sub-builder, displayed as "Database".
func (f *Factory) DB() *DBBuilder {
	return &DBBuilder{NewDomain(f, "DB", "Database")}
}

// NoResults builds "No results found while <desc>.".
func (b *DBBuilder) NoResults(desc string, opts ...Option) (*ErrorSchema, error) {
	return b.build("No results found while "+desc+".", opts)
}

func (b *DBBuilder) ForeignKeyViolation(opts ...Option) (*ErrorSchema, error) {
	return b.build("Foreign key violation occurred.", opts)
}

// MapBuilder builds dict_error schemas.
type MapBuilder struct {
	*Domain
}

// Map returns the dictionary sub-builder, displayed as "Dict".
func (f *Factory) Map() *MapBuilder {
	return &MapBuilder{NewDomain(f, "Map", "Dict")}
}

// MissingKeys builds "Keys ('a', 'b') not found in dictionary.".
func (b *MapBuilder) MissingKeys(keys []string, opts ...Option) (*ErrorSchema, error) {
	return b.build("Keys ('"+strings.Join(keys, "', '")+"') not found in dictionary.", opts)
}

// Value returns the value sub-builder.
func (f *Factory) Value() *Domain { return NewDomain(f, "Value", "") }

// Parse returns the parse sub-builder.
func (f *Factory) Parse() *Domain { return NewDomain(f, "Parse", "") }

// Runtime returns the runtime sub-builder.
func (f *Factory) Runtime() *Domain { return NewDomain(f, "Runtime", "") }

// Unknown returns the unknown sub-builder.
func (f *Factory) Unknown() *Domain { return NewDomain(f, "Unknown", "") }
