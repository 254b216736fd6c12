package mapper

var std = New()

// Default returns the package-level Mapper.
func Default() *Mapper {
	return std
}

// Mapping returns a copy of the resolved table of the named profile.
func Mapping(name string) (Table, error) {
	return std.Mapping(name)
}

// ErrorType looks id up in the named profile of the default Mapper.
func ErrorType(name string, id TypeID) (string, bool, error) {
	return std.ErrorType(name, id)
}

// ErrorTypeOf classifies err with the default Mapper.
func ErrorTypeOf(name string, err error) (string, error) {
	return std.ErrorTypeOf(name, err)
}

// Register adds a profile to the default Mapper.
func Register(name string, table Table, opts ...ProfileOption) error {
	return std.Register(name, table, opts...)
}

// ClearCaches drops the caches of the default Mapper.
func ClearCaches() {
	std.ClearCaches()
}

// Profiles lists the profiles of the default Mapper.
func Profiles() []string {
	return std.Profiles()
}
