// Package location finds the first stack frame outside the library.
package location

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
)

const maxDepth = 64

// Resolver reports the caller location of library entry points.
type Resolver struct {
	// Skip reports whether a frame's package belongs to the library.
	Skip func(pkg string) bool
	// EntryDir, when set, is the directory paths are made relative to.
	// Otherwise the process entry directory is used, see SetEntryDir.
	EntryDir string
}

// entryDir is the process-wide entry directory. It is set by SetEntryDir
// or, once, from the first main.main frame any Resolver walks past, so
// calls from goroutines without main.main on their stack still get
// relative paths.
var entryDir atomic.Pointer[string]

// SetEntryDir sets the process-wide entry directory. An empty dir clears it.
func SetEntryDir(dir string) {
	if dir == "" {
		entryDir.Store(nil)
		return
	}
	entryDir.Store(&dir)
}

// EntryDir returns the process-wide entry directory, or "" when none is
// known yet.
func EntryDir() string {
	if p := entryDir.Load(); p != nil {
		return *p
	}
	return ""
}

// modulePath is the module this package was compiled in.
var modulePath = func() string {
	pc, _, _, _ := runtime.Caller(0)
	pkg := packageOf(runtime.FuncForPC(pc).Name())
	return strings.TrimSuffix(pkg, "/internal/location")
}()

// ModulePath returns the import path of the library module.
func ModulePath() string {
	return modulePath
}

// LibraryPackages returns a Skip func that matches the given packages of the
// library module and everything under its internal tree. Test packages
// (suffix _test) are external callers.
func LibraryPackages(pkgs ...string) func(string) bool {
	set := make(map[string]struct{}, len(pkgs))
	for _, p := range pkgs {
		set[modulePath+"/"+p] = struct{}{}
	}
	internal := modulePath + "/internal/"
	return func(pkg string) bool {
		if strings.HasSuffix(pkg, "_test") {
			return false
		}
		if _, ok := set[pkg]; ok {
			return true
		}
		return strings.HasPrefix(pkg, internal)
	}
}

// Caller returns "<file>:<line>:<function>" for the innermost frame that is
// not part of the library. ok is false when every frame is.
func (r Resolver) Caller() (string, bool) {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	entry := r.EntryDir
	var found *runtime.Frame

	for {
		frame, more := frames.Next()
		pkg := packageOf(frame.Function)

		if entry == "" && frame.Function == "main.main" && frame.File != "" {
			entry = filepath.Dir(frame.File)
			dir := entry
			entryDir.CompareAndSwap(nil, &dir)
		}

		if found == nil && frame.Function != "" && !r.skip(pkg) {
			f := frame
			found = &f
			if entry != "" {
				break
			}
		}

		if !more {
			break
		}
	}

	if found == nil {
		return "", false
	}
	if entry == "" {
		entry = EntryDir()
	}

	return format(*found, entry), true
}

func format(frame runtime.Frame, entry string) string {
	file := frame.File
	if entry != "" {
		if rel, err := filepath.Rel(entry, file); err == nil && !strings.HasPrefix(rel, "..") {
			file = rel
		}
	}

	return file + ":" + strconv.Itoa(frame.Line) + ":" + shortName(frame.Function)
}

// packageOf extracts the import path from a fully qualified function name
// such as "example.com/a/b.(*T).M".
func packageOf(fn string) string {
	slash := strings.LastIndex(fn, "/")
	if slash < 0 {
		slash = 0
	}
	if dot := strings.Index(fn[slash:], "."); dot >= 0 {
		return fn[:slash+dot]
	}
	return fn
}

// shortName strips the import path, keeping receiver and closure suffixes.
func shortName(fn string) string {
	pkg := packageOf(fn)
	return strings.TrimPrefix(fn[len(pkg):], ".")
}

func (r Resolver) skip(pkg string) bool {
	if pkg == "runtime" || pkg == modulePath+"/internal/location" {
		return true
	}
	return r.Skip != nil && r.Skip(pkg)
}
