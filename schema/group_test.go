package schema_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"codeberg.org/mutker/errschema/internal/logger"
	"codeberg.org/mutker/errschema/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoErrors(t *testing.T) []*schema.ErrorSchema {
	t.Helper()
	db, err := schema.Base.DatabaseError(schema.WithMsg("Connection refused"))
	require.NoError(t, err)
	file, err := schema.Base.File().NotFound("config.json")
	require.NoError(t, err)
	return []*schema.ErrorSchema{db, file}
}

func apiErrors(t *testing.T) []*schema.ErrorSchema {
	t.Helper()
	f := schema.NewAPIFactory(schema.WithAutoLocation(false))
	v, err := f.ValidationError(schema.WithMsg("Bad age"), schema.WithLoc("body"), schema.WithInput(map[string]any{"age": -1}))
	require.NoError(t, err)
	d, err := f.Docker().Running("web")
	require.NoError(t, err)
	return []*schema.ErrorSchema{v, d}
}

func TestGroupContainsTypeScenario(t *testing.T) {
	g := schema.NewGroup()
	require.NoError(t, g.Extend(twoErrors(t)...))

	assert.True(t, g.ContainsType("database_error"))
	assert.True(t, g.ContainsType("DATABASE_ERROR"))
	assert.False(t, g.ContainsType("timeout_error"))
}

func TestGroupExtendAndToList(t *testing.T) {
	in := apiErrors(t)
	g := schema.NewAPIGroup()
	require.NoError(t, g.Extend(in...))

	assert.Equal(t, len(in), g.Len())

	list := g.ToList()
	assert.Empty(t, cmp.Diff(in, list))

	list[0].AppendLoc("mutated")
	list[0].SetInput("age", 1)
	assert.Equal(t, []string{"body"}, g.At(0).Loc())
	assert.Equal(t, -1, g.At(0).Input()["age"])
}

func TestGroupCopy(t *testing.T) {
	g := schema.NewAPIGroup()
	require.NoError(t, g.Extend(apiErrors(t)...))

	c := g.Copy()
	assert.Equal(t, g.ToDicts(), c.ToDicts())
	assert.Equal(t, schema.KindAPI, c.Kind())

	before := c.ToDicts()
	g.AppendLoc("handler")
	extra, err := schema.API.TimeoutError()
	require.NoError(t, err)
	require.NoError(t, g.Append(extra))

	assert.Equal(t, before, c.ToDicts())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"body", "handler"}, g.At(0).Loc())
}

func TestGroupRejectsInvalidMembers(t *testing.T) {
	base, err := schema.Base.ValueError()
	require.NoError(t, err)

	g := schema.NewAPIGroup()
	valid := apiErrors(t)

	assert.ErrorIs(t, g.Append(nil), schema.ErrInvalidMember)
	assert.ErrorIs(t, g.Append(base), schema.ErrInvalidMember)
	assert.ErrorIs(t, g.Extend(valid[0], nil), schema.ErrInvalidMember)
	assert.ErrorIs(t, g.Extend(valid[0], base), schema.ErrInvalidMember)
	assert.Zero(t, g.Len())

	require.NoError(t, g.Extend(valid...))
	assert.ErrorIs(t, g.Set(0, base), schema.ErrInvalidMember)
	assert.ErrorIs(t, g.Set(5, valid[0]), schema.ErrIndexOutOfRange)
	assert.ErrorIs(t, g.ExtendGroup(nil), schema.ErrInvalidMember)
	assert.Same(t, valid[0], g.At(0))

	require.NoError(t, g.Set(0, valid[1]))
	assert.Same(t, valid[1], g.At(0))
	assert.Nil(t, g.At(-1))
}

func TestGroupAcceptsEveryVariant(t *testing.T) {
	g := schema.NewGroup()
	require.NoError(t, g.Extend(twoErrors(t)...))
	require.NoError(t, g.Extend(apiErrors(t)...))
	assert.Equal(t, 4, g.Len())
}

func TestGroupExtendGroupCopiesMembers(t *testing.T) {
	src := schema.NewAPIGroup()
	require.NoError(t, src.Extend(apiErrors(t)...))

	dst := schema.NewAPIGroup()
	require.NoError(t, dst.ExtendGroup(src))
	assert.Equal(t, src.ToDicts(), dst.ToDicts())

	src.AppendLoc("later")
	assert.Equal(t, []string{"body"}, dst.At(0).Loc())
}

func TestGroupConcatMessages(t *testing.T) {
	g := schema.NewGroup()
	require.NoError(t, g.Extend(twoErrors(t)...))

	want := "Database error: connection refused; File error: file 'config.json' not found."
	assert.Equal(t, want, g.ConcatMessages(";"))
	assert.Equal(t, want, g.ConcatMessages(""))
	assert.Equal(t, "Database error: connection refused | File error: file 'config.json' not found.", g.ConcatMessages(" |"))
}

func TestGroupViews(t *testing.T) {
	g := schema.NewAPIGroup()
	require.NoError(t, g.Extend(apiErrors(t)...))

	assert.Equal(t, []map[string]any{
		{"msg": "Bad age", "input": map[string]any{"age": -1}},
		{"msg": "Failed when running container 'web'.", "input": map[string]any{}},
	}, g.ToDictsFor(schema.TargetFrontend))

	assert.JSONEq(t, `[
		{"type": "validation_error", "msg": "Validation error: bad age", "loc": ["body"], "input": {"age": -1}},
		{"type": "docker_error", "msg": "Docker error: failed when running container 'web'.", "loc": [], "input": {}}
	]`, g.ToString())

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, g.ToString(), string(data))
	assert.Len(t, g.Schemas(), 2)
}

func TestGroupClear(t *testing.T) {
	g := schema.NewGroup()
	assert.False(t, g.HasErrors())

	require.NoError(t, g.Extend(twoErrors(t)...))
	assert.True(t, g.HasErrors())

	g.Clear()
	assert.False(t, g.HasErrors())
	assert.Zero(t, g.Len())
	assert.Equal(t, "[]", g.ToString())
}

func TestGroupLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf)

	g := schema.NewGroup()
	require.NoError(t, g.Extend(twoErrors(t)...))
	log.Error().Array("errors", g).Msg("request failed")

	assert.Contains(t, buf.String(), `"errors":[{"type":"database_error","msg":"Database error: connection refused"},{"type":"file_error"`)
}

func TestFactoryNewGroup(t *testing.T) {
	assert.Equal(t, schema.KindAPI, schema.API.NewGroup().Kind())
	assert.Equal(t, schema.Kind(""), schema.Base.NewGroup().Kind())
}
