// Package mapper classifies Go errors into semantic category tags.
//
// A profile is a Table of origin module → type name → tag, optionally laid
// over a parent profile. Classification walks an error's own type and then
// its declared Lineage until a bound type or the root type is reached.
package mapper

import (
	"sort"
	"strings"
	"sync"

	"codeberg.org/mutker/errschema/internal/errors"
	"codeberg.org/mutker/errschema/internal/logger"
	lru "github.com/hashicorp/golang-lru/v2"
)

// tableCacheSize bounds the resolved-table cache. Profiles are few.
const tableCacheSize = 32

type profile struct {
	parent string
	table  Table
}

type lookupKey struct {
	profile string
	id      TypeID
}

type lookup struct {
	tag string
	ok  bool
}

// Mapper holds the profile registry and its caches. It is safe for
// concurrent use.
type Mapper struct {
	mu       sync.RWMutex
	profiles map[string]profile

	defaultProfile string
	defaultType    string
	root           TypeID
	log            logger.Logger

	tables  *lru.Cache[string, Table]
	lookups *lru.Cache[lookupKey, lookup]
}

// New returns a Mapper with the base and api profiles registered.
func New(opts ...Option) *Mapper {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	tables, err := lru.New[string, Table](tableCacheSize)
	if err != nil { // only errors if size <= 0
		panic(err)
	}
	lookups, err := lru.New[lookupKey, lookup](o.cacheSize)
	if err != nil {
		panic(err)
	}

	return &Mapper{
		profiles: map[string]profile{
			ProfileBase: {table: baseTable()},
			ProfileAPI:  {parent: ProfileBase, table: apiTable()},
		},
		defaultProfile: ProfileBase,
		defaultType:    o.defaultType,
		root:           o.root,
		log:            o.log,
		tables:         tables,
		lookups:        lookups,
	}
}

// DefaultErrorType returns the tag used when nothing in the walk matches.
func (m *Mapper) DefaultErrorType() string {
	return m.defaultType
}

// Root returns the type that ends the hierarchy walk.
func (m *Mapper) Root() TypeID {
	return m.root
}

// Profiles returns the registered profile names, sorted.
func (m *Mapper) Profiles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mapping returns a copy of the resolved table of the named profile. An
// empty name selects the base profile.
func (m *Mapper) Mapping(name string) (Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.resolve(m.profileName(name))
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// ErrorType looks id up in a single level of the profile's table. ok is
// false when id is not bound; no default is applied.
func (m *Mapper) ErrorType(name string, id TypeID) (string, bool, error) {
	name = m.profileName(name)
	key := lookupKey{profile: name, id: id}

	if hit, ok := m.lookups.Get(key); ok {
		return hit.tag, hit.ok, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.resolve(name)
	if err != nil {
		return "", false, err
	}

	tag, ok := t.Lookup(id)
	m.lookups.Add(key, lookup{tag: tag, ok: ok})
	return tag, ok, nil
}

// ErrorTypeOf classifies err under the named profile. It walks err's own
// type, then its Lineage, stopping at the root type, and returns the first
// bound tag. Without a match it returns DefaultErrorType. Wrappers created
// by fmt.Errorf and errors.Join are looked through first.
func (m *Mapper) ErrorTypeOf(name string, err error) (string, error) {
	if err == nil {
		return "", errFactory.New(errors.ErrNilError)
	}

	for _, id := range Hierarchy(unwrapTransparent(err)) {
		if id == m.root {
			break
		}
		tag, ok, lerr := m.ErrorType(name, id)
		if lerr != nil {
			return "", lerr
		}
		if ok {
			return tag, nil
		}
	}

	// Unknown profiles must fail even when the walk is empty.
	if _, _, lerr := m.ErrorType(name, m.root); lerr != nil {
		return "", lerr
	}

	return m.defaultType, nil
}

// Register adds a profile. Registration and cache invalidation happen under
// one write lock, so no reader observes the new profile with stale caches.
func (m *Mapper) Register(name string, table Table, opts ...ProfileOption) error {
	po := &profileOptions{}
	for _, opt := range opts {
		opt(po)
	}

	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\n") {
		return errFactory.WithDetail(errors.ErrInvalidProfile, name)
	}
	if err := validateTable(table); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[name]; ok {
		return errFactory.WithDetail(errors.ErrProfileExists, name)
	}
	if po.parent != "" {
		if _, ok := m.profiles[po.parent]; !ok {
			return errFactory.WithDetail(errors.ErrUnknownProfile, po.parent)
		}
	}

	m.profiles[name] = profile{parent: po.parent, table: table.Clone()}
	m.purge()

	m.log.Debug().
		Str("profile", name).
		Str("extends", po.parent).
		Int("entries", table.Len()).
		Msg("Registered mapping profile")

	return nil
}

// ClearCaches drops every cached table and lookup.
func (m *Mapper) ClearCaches() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purge()
	m.log.Debug().Msg("Cleared mapper caches")
}

// CacheLen reports the number of cached tables and lookups.
func (m *Mapper) CacheLen() (tables, lookups int) {
	return m.tables.Len(), m.lookups.Len()
}

func (m *Mapper) purge() {
	m.tables.Purge()
	m.lookups.Purge()
}

func (m *Mapper) profileName(name string) string {
	if name == "" {
		return m.defaultProfile
	}
	return name
}

// resolve returns the merged table of name. The caller holds m.mu.
func (m *Mapper) resolve(name string) (Table, error) {
	if t, ok := m.tables.Get(name); ok {
		return t, nil
	}

	p, ok := m.profiles[name]
	if !ok {
		return nil, errFactory.WithDetail(errors.ErrUnknownProfile, name)
	}

	t := p.table
	if p.parent != "" {
		parent, err := m.resolve(p.parent)
		if err != nil {
			return nil, err
		}
		t = parent.Merge(p.table)
	}

	m.tables.Add(name, t)
	return t, nil
}

func validateTable(t Table) error {
	for module, names := range t {
		for name, tag := range names {
			if name == "" || tag == "" {
				return errFactory.WithDetail(errors.ErrInvalidProfile,
					TypeID{Module: module, Name: name}.String())
			}
		}
	}
	return nil
}
