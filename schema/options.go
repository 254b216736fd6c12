package schema

// Option sets a field of the schema being built.
type Option func(*params)

type params struct {
	msg       *string
	uiMsg     *string
	loc       []string
	locSet    bool
	input     map[string]any
	exc       error
	typ       *string
	typeSet   bool
	template  *string
	extra     map[string]any
	noAutoLoc bool
}

func newParams(opts []Option) *params {
	p := &params{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// WithMsg sets the message body. An empty string counts as not given.
func WithMsg(msg string) Option {
	return func(p *params) {
		p.msg = &msg
	}
}

// WithUIMsg sets the user-facing message (API schemas only).
func WithUIMsg(msg string) Option {
	return func(p *params) {
		p.uiMsg = &msg
	}
}

// WithLoc sets the location path (API schemas only) and disables automatic
// location.
func WithLoc(loc ...string) Option {
	return func(p *params) {
		p.loc = append([]string{}, loc...)
		p.locSet = true
	}
}

// WithInput sets the input payload (API schemas only).
func WithInput(input map[string]any) Option {
	return func(p *params) {
		p.input = input
	}
}

// WithExc appends the text of err to the message body, in parentheses.
func WithExc(err error) Option {
	return func(p *params) {
		p.exc = err
	}
}

// WithType sets the category tag. Only CustomizedError accepts it.
func WithType(tag string) Option {
	return func(p *params) {
		p.typ = &tag
	}
}

// WithField sets an arbitrary record field. Known names are routed to
// their field; unknown names are rejected by strict factories.
func WithField(name string, value any) Option {
	return func(p *params) {
		if p.extra == nil {
			p.extra = make(map[string]any)
		}
		p.extra[name] = value
	}
}

// withTemplate sets a builder message that wins over the caller's.
func withTemplate(msg string) Option {
	return func(p *params) {
		p.template = &msg
	}
}

// WithoutAutoLoc disables automatic location for one call.
func WithoutAutoLoc() Option {
	return func(p *params) {
		p.noAutoLoc = true
	}
}

func (p *params) body() (string, bool) {
	if p.msg == nil || *p.msg == "" {
		return "", false
	}
	return *p.msg, true
}
