package mapper_test

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"codeberg.org/mutker/errschema/internal/logger"
	"codeberg.org/mutker/errschema/mapper"
	"github.com/google/go-cmp/cmp"
	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rootErr struct{}

func (rootErr) Error() string { return "root" }

type parentErr struct{}

func (parentErr) Error() string { return "parent" }

type childErr struct{}

func (childErr) Error() string { return "child" }

func (childErr) ErrorLineage() []mapper.TypeID {
	return []mapper.TypeID{mapper.TypeIDOf[parentErr](), mapper.TypeIDOf[rootErr]()}
}

type orphanErr struct{}

func (orphanErr) Error() string { return "orphan" }

// pastRootErr declares a bound type behind the root; the walk never reaches it.
type pastRootErr struct{}

func (pastRootErr) Error() string { return "past root" }

func (pastRootErr) ErrorLineage() []mapper.TypeID {
	return []mapper.TypeID{{Module: "builtin", Name: "error"}, mapper.TypeIDOf[parentErr]()}
}

func tableOf(pairs map[mapper.TypeID]string) mapper.Table {
	t := mapper.Table{}
	for id, tag := range pairs {
		if t[id.Module] == nil {
			t[id.Module] = map[string]string{}
		}
		t[id.Module][id.Name] = tag
	}
	return t
}

func TestTypeIDOf(t *testing.T) {
	want := mapper.TypeID{Module: "io/fs", Name: "PathError"}

	assert.Equal(t, want, mapper.TypeIDOf[fs.PathError]())
	assert.Equal(t, want, mapper.TypeIDOf[*os.PathError]())
	assert.Equal(t, "io/fs.PathError", want.String())
	assert.Equal(t, want, mapper.TypeIDFor(&fs.PathError{}))
	assert.Equal(t, mapper.TypeID{}, mapper.TypeIDFor(nil))
}

func TestErrorTypeOfBuiltins(t *testing.T) {
	_, openErr := os.Open(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, openErr)
	_, numErr := strconv.Atoi("abc")
	syntaxErr := json.Unmarshal([]byte("{"), &map[string]any{})

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"path error", openErr, "file_error"},
		{"number parse", numErr, "value_error"},
		{"json syntax", syntaxErr, "parse_error"},
		{"deadline", context.DeadlineExceeded, "timeout_error"},
		{"wrapped path error", fmt.Errorf("loading: %w", openErr), "file_error"},
		{"joined", stderrors.Join(numErr, openErr), "value_error"},
		{"plain", stderrors.New("boom"), "unknown_error"},
	}

	m := mapper.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ErrorTypeOf(mapper.ProfileBase, tt.err)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrorTypeOfWalksLineage(t *testing.T) {
	m := mapper.New()
	require.NoError(t, m.Register("lineage", tableOf(map[mapper.TypeID]string{
		mapper.TypeIDOf[parentErr](): "parent_error",
	})))

	got, err := m.ErrorTypeOf("lineage", childErr{})
	require.NoError(t, err)
	assert.Equal(t, "parent_error", got)

	got, err = m.ErrorTypeOf("lineage", orphanErr{})
	require.NoError(t, err)
	assert.Equal(t, "unknown_error", got)
}

func TestErrorTypeOfStopsAtRoot(t *testing.T) {
	m := mapper.New()
	require.NoError(t, m.Register("lineage", tableOf(map[mapper.TypeID]string{
		mapper.TypeIDOf[parentErr](): "parent_error",
	})))

	got, err := m.ErrorTypeOf("lineage", pastRootErr{})
	require.NoError(t, err)
	assert.Equal(t, "unknown_error", got)
}

func TestErrorTypeOfOwnTypeWins(t *testing.T) {
	m := mapper.New()
	require.NoError(t, m.Register("lineage", tableOf(map[mapper.TypeID]string{
		mapper.TypeIDOf[parentErr](): "parent_error",
		mapper.TypeIDOf[childErr]():  "child_error",
	})))

	got, err := m.ErrorTypeOf("lineage", childErr{})
	require.NoError(t, err)
	assert.Equal(t, "child_error", got)
}

func TestErrorTypeOfErrors(t *testing.T) {
	m := mapper.New()

	_, err := m.ErrorTypeOf(mapper.ProfileBase, nil)
	assert.ErrorIs(t, err, mapper.ErrNilError)

	_, err = m.ErrorTypeOf("missing", stderrors.New("x"))
	assert.ErrorIs(t, err, mapper.ErrUnknownProfile)
}

func TestErrorTypeReportsAbsence(t *testing.T) {
	m := mapper.New()

	tag, ok, err := m.ErrorType(mapper.ProfileBase, mapper.TypeIDOf[strconv.NumError]())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value_error", tag)

	tag, ok, err = m.ErrorType(mapper.ProfileBase, mapper.TypeIDOf[orphanErr]())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, tag)

	_, _, err = m.ErrorType("missing", mapper.TypeIDOf[orphanErr]())
	assert.ErrorIs(t, err, mapper.ErrUnknownProfile)
}

func TestMappingReturnsCopy(t *testing.T) {
	m := mapper.New()

	first, err := m.Mapping("")
	require.NoError(t, err)
	first["io/fs"]["PathError"] = "changed"
	delete(first, "strconv")

	second, err := m.Mapping(mapper.ProfileBase)
	require.NoError(t, err)
	assert.Equal(t, "file_error", second["io/fs"]["PathError"])
	assert.Contains(t, second, "strconv")

	third, err := m.Mapping(mapper.ProfileBase)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(second, third))
}

func TestAPIProfileExtendsBase(t *testing.T) {
	m := mapper.New()

	base, err := m.Mapping(mapper.ProfileBase)
	require.NoError(t, err)
	api, err := m.Mapping(mapper.ProfileAPI)
	require.NoError(t, err)

	for module, names := range base {
		for name, tag := range names {
			assert.Equal(t, tag, api[module][name], "%s.%s", module, name)
		}
	}

	id := mapper.TypeIDOf[mapstructure.Error]()
	_, inBase := base.Lookup(id)
	assert.False(t, inBase)
	tag, inAPI := api.Lookup(id)
	assert.True(t, inAPI)
	assert.Equal(t, "validation_error", tag)

	assert.Equal(t, "docker_error", api["github.com/docker/docker/errdefs"]["errNotFound"])
}

func TestDecodeErrorClassification(t *testing.T) {
	var out struct{ Port int }
	decodeErr := mapstructure.Decode(map[string]any{"port": "http"}, &out)
	require.Error(t, decodeErr)

	m := mapper.New()

	got, err := m.ErrorTypeOf(mapper.ProfileAPI, decodeErr)
	require.NoError(t, err)
	assert.Equal(t, "validation_error", got)

	got, err = m.ErrorTypeOf(mapper.ProfileBase, decodeErr)
	require.NoError(t, err)
	assert.Equal(t, "unknown_error", got)
}

func TestRegister(t *testing.T) {
	m := mapper.New()
	custom := tableOf(map[mapper.TypeID]string{
		mapper.TypeIDOf[orphanErr]():        "orphan_error",
		mapper.TypeIDOf[strconv.NumError](): "number_error",
	})

	require.NoError(t, m.Register("custom", custom, mapper.Extends(mapper.ProfileBase)))
	assert.Equal(t, []string{"api", "base", "custom"}, m.Profiles())

	got, err := m.ErrorTypeOf("custom", orphanErr{})
	require.NoError(t, err)
	assert.Equal(t, "orphan_error", got)

	_, numErr := strconv.Atoi("x")
	got, err = m.ErrorTypeOf("custom", numErr)
	require.NoError(t, err)
	assert.Equal(t, "number_error", got, "child entries override the parent")

	got, err = m.ErrorTypeOf("custom", context.DeadlineExceeded)
	require.NoError(t, err)
	assert.Equal(t, "timeout_error", got, "parent entries are inherited")

	custom[mapper.TypeIDOf[orphanErr]().Module]["orphanErr"] = "mutated"
	got, err = m.ErrorTypeOf("custom", orphanErr{})
	require.NoError(t, err)
	assert.Equal(t, "orphan_error", got, "registered tables are copied")
}

func TestRegisterDuplicateLeavesTableUntouched(t *testing.T) {
	m := mapper.New()

	before, err := m.Mapping(mapper.ProfileBase)
	require.NoError(t, err)

	err = m.Register(mapper.ProfileBase, tableOf(map[mapper.TypeID]string{
		mapper.TypeIDOf[fs.PathError](): "other_error",
	}))
	assert.ErrorIs(t, err, mapper.ErrProfileExists)

	after, err := m.Mapping(mapper.ProfileBase)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, after))
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	m := mapper.New()

	err := m.Register("", mapper.Table{})
	assert.ErrorIs(t, err, mapper.ErrInvalidProfile)

	err = m.Register("has space", mapper.Table{})
	assert.ErrorIs(t, err, mapper.ErrInvalidProfile)

	err = m.Register("empty_tag", mapper.Table{"x": {"Err": ""}})
	assert.ErrorIs(t, err, mapper.ErrInvalidProfile)

	err = m.Register("orphan", mapper.Table{}, mapper.Extends("missing"))
	assert.ErrorIs(t, err, mapper.ErrUnknownProfile)

	assert.Equal(t, []string{"api", "base"}, m.Profiles())
}

func TestCachesClearedOnRegister(t *testing.T) {
	m := mapper.New()

	_, err := m.ErrorTypeOf(mapper.ProfileAPI, context.DeadlineExceeded)
	require.NoError(t, err)
	tables, lookups := m.CacheLen()
	assert.Positive(t, tables)
	assert.Positive(t, lookups)

	require.NoError(t, m.Register("fresh", mapper.Table{}))
	tables, lookups = m.CacheLen()
	assert.Zero(t, tables)
	assert.Zero(t, lookups)

	_, err = m.Mapping(mapper.ProfileBase)
	require.NoError(t, err)
	m.ClearCaches()
	tables, lookups = m.CacheLen()
	assert.Zero(t, tables)
	assert.Zero(t, lookups)
}

func TestConcurrentRegisterAndClassify(t *testing.T) {
	m := mapper.New()
	const workers = 16

	var wg sync.WaitGroup
	errs := make(chan error, workers*2)

	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			errs <- m.Register(fmt.Sprintf("profile_%02d", i), tableOf(map[mapper.TypeID]string{
				mapper.TypeIDOf[orphanErr](): fmt.Sprintf("tag_%02d", i),
			}), mapper.Extends(mapper.ProfileBase))
		}(i)
		go func() {
			defer wg.Done()
			tag, err := m.ErrorTypeOf(mapper.ProfileBase, context.DeadlineExceeded)
			if err == nil && tag != "timeout_error" {
				err = fmt.Errorf("unexpected tag %q", tag)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, m.Profiles(), workers+2)

	got, err := m.ErrorTypeOf("profile_07", orphanErr{})
	require.NoError(t, err)
	assert.Equal(t, "tag_07", got)
}

func TestOptions(t *testing.T) {
	m := mapper.New(
		mapper.WithDefaultErrorType("runtime_error"),
		mapper.WithCacheSize(4),
		mapper.WithRoot(mapper.TypeIDOf[rootErr]()),
	)
	assert.Equal(t, "runtime_error", m.DefaultErrorType())
	assert.Equal(t, mapper.TypeIDOf[rootErr](), m.Root())

	got, err := m.ErrorTypeOf(mapper.ProfileBase, stderrors.New("x"))
	require.NoError(t, err)
	assert.Equal(t, "runtime_error", got)

	for i := 0; i < 10; i++ {
		_, _, err := m.ErrorType(mapper.ProfileBase, mapper.TypeID{Module: "m", Name: strconv.Itoa(i)})
		require.NoError(t, err)
	}
	_, lookups := m.CacheLen()
	assert.LessOrEqual(t, lookups, 4)
}

func TestRegisterLogsDebugEvent(t *testing.T) {
	var buf bytes.Buffer
	m := mapper.New(mapper.WithLogger(logger.New(&buf)))

	require.NoError(t, m.Register("logged", mapper.Table{"m": {"E": "e_error"}}, mapper.Extends(mapper.ProfileAPI)))

	assert.Contains(t, buf.String(), `"profile":"logged"`)
	assert.Contains(t, buf.String(), `"extends":"api"`)
	assert.Contains(t, buf.String(), "Registered mapping profile")
}

func TestDefaultMapper(t *testing.T) {
	assert.Same(t, mapper.Default(), mapper.Default())
	assert.Contains(t, mapper.Profiles(), mapper.ProfileAPI)

	got, err := mapper.ErrorTypeOf("", context.DeadlineExceeded)
	require.NoError(t, err)
	assert.Equal(t, "timeout_error", got)

	table, err := mapper.Mapping(mapper.ProfileAPI)
	require.NoError(t, err)
	assert.Positive(t, table.Len())

	tag, ok, err := mapper.ErrorType(mapper.ProfileBase, mapper.TypeIDOf[fs.PathError]())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "file_error", tag)

	mapper.ClearCaches()
}
