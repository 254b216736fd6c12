package mapper

import (
	"errors"
	"reflect"
)

// TypeID identifies an error type by the package that declares it and its
// type name, for example {"io/fs", "PathError"}.
type TypeID struct {
	Module string
	Name   string
}

func (t TypeID) String() string {
	if t.Module == "" {
		return t.Name
	}
	return t.Module + "." + t.Name
}

// TypeIDOf returns the TypeID of T. Pointer types resolve to their element
// type, so TypeIDOf[*fs.PathError] equals TypeIDOf[fs.PathError].
func TypeIDOf[T any]() TypeID {
	return typeID(reflect.TypeFor[T]())
}

// TypeIDFor returns the TypeID of the dynamic type of err.
func TypeIDFor(err error) TypeID {
	if err == nil {
		return TypeID{}
	}
	return typeID(reflect.TypeOf(err))
}

func typeID(t reflect.Type) TypeID {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return TypeID{Name: t.String()}
	}
	return TypeID{Module: t.PkgPath(), Name: t.Name()}
}

// Lineage is implemented by errors that declare the types they specialise,
// most specific first, not including their own type. The walk done by
// ErrorTypeOf visits these after the error's own type.
type Lineage interface {
	ErrorLineage() []TypeID
}

// Hierarchy returns the ordered list of type identities checked for err:
// its own type followed by its declared lineage.
func Hierarchy(err error) []TypeID {
	if err == nil {
		return nil
	}
	ids := []TypeID{TypeIDFor(err)}
	if l, ok := err.(Lineage); ok {
		ids = append(ids, l.ErrorLineage()...)
	}
	return ids
}

var transparent = map[TypeID]struct{}{
	{Module: "fmt", Name: "wrapError"}:    {},
	{Module: "fmt", Name: "wrapErrors"}:   {},
	{Module: "errors", Name: "joinError"}: {},
}

// unwrapTransparent strips wrappers that add text but no type of their own,
// such as those made by fmt.Errorf with %w and errors.Join.
func unwrapTransparent(err error) error {
	for err != nil {
		if _, ok := transparent[TypeIDFor(err)]; !ok {
			return err
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			next := firstNonNil(u.Unwrap())
			if next == nil {
				return err
			}
			err = next
		default:
			next := errors.Unwrap(err)
			if next == nil {
				return err
			}
			err = next
		}
	}
	return err
}

func firstNonNil(errs []error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
