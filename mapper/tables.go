package mapper

import (
	"encoding/json"
	"io/fs"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Built-in profiles
const (
	ProfileBase = "base"
	ProfileAPI  = "api"
)

// Table maps an origin module to its error type names and their category
// tags.
type Table map[string]map[string]string

// Lookup returns the tag bound to id.
func (t Table) Lookup(id TypeID) (string, bool) {
	tag, ok := t[id.Module][id.Name]
	return tag, ok
}

// Len returns the number of bound types.
func (t Table) Len() int {
	n := 0
	for _, names := range t {
		n += len(names)
	}
	return n
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for module, names := range t {
		inner := make(map[string]string, len(names))
		for name, tag := range names {
			inner[name] = tag
		}
		out[module] = inner
	}
	return out
}

// Merge returns a copy of t with every entry of other laid over it.
func (t Table) Merge(other Table) Table {
	out := t.Clone()
	for module, names := range other {
		inner, ok := out[module]
		if !ok {
			inner = make(map[string]string, len(names))
			out[module] = inner
		}
		for name, tag := range names {
			inner[name] = tag
		}
	}
	return out
}

type binding struct {
	id  TypeID
	tag string
}

// bind builds a Table from TypeID/tag pairs.
func bind(pairs ...binding) Table {
	t := make(Table)
	for _, p := range pairs {
		if t[p.id.Module] == nil {
			t[p.id.Module] = make(map[string]string)
		}
		t[p.id.Module][p.id.Name] = p.tag
	}
	return t
}

// sqlite3Error is the driver error of github.com/mattn/go-sqlite3. It is
// named rather than imported so the library does not require cgo.
var sqlite3Error = TypeID{Module: "github.com/mattn/go-sqlite3", Name: "Error"}

func baseTable() Table {
	return bind(
		binding{TypeIDOf[fs.PathError](), "file_error"},
		binding{TypeIDOf[os.LinkError](), "file_error"},
		binding{TypeIDOf[os.SyscallError](), "runtime_error"},
		binding{TypeIDOf[exec.ExitError](), "runtime_error"},
		binding{TypeIDOf[exec.Error](), "runtime_error"},
		binding{TypeID{Module: "syscall", Name: "Errno"}, "runtime_error"},
		binding{TypeIDOf[runtime.TypeAssertionError](), "value_error"},
		binding{TypeID{Module: "runtime", Name: "boundsError"}, "value_error"},
		binding{TypeIDOf[json.SyntaxError](), "parse_error"},
		binding{TypeIDOf[json.UnmarshalTypeError](), "value_error"},
		binding{TypeIDOf[json.InvalidUnmarshalError](), "value_error"},
		binding{TypeIDOf[strconv.NumError](), "value_error"},
		binding{TypeID{Module: "context", Name: "deadlineExceededError"}, "timeout_error"},
		binding{TypeID{Module: "internal/poll", Name: "DeadlineExceededError"}, "timeout_error"},
		binding{sqlite3Error, "database_error"},
		binding{TypeIDOf[viper.ConfigFileNotFoundError](), "file_error"},
		binding{TypeIDOf[viper.ConfigParseError](), "parse_error"},
	)
}

func apiTable() Table {
	const (
		errdefs = "github.com/docker/docker/errdefs"
		client  = "github.com/docker/docker/client"
	)
	return bind(
		binding{TypeIDOf[mapstructure.Error](), "validation_error"},
		binding{TypeID{Module: errdefs, Name: "errNotFound"}, "docker_error"},
		binding{TypeID{Module: errdefs, Name: "errConflict"}, "docker_error"},
		binding{TypeID{Module: errdefs, Name: "errUnavailable"}, "docker_error"},
		binding{TypeID{Module: errdefs, Name: "errSystem"}, "docker_error"},
		binding{TypeID{Module: errdefs, Name: "errUnknown"}, "docker_error"},
		binding{TypeID{Module: client, Name: "errConnectionFailed"}, "docker_error"},
	)
}
