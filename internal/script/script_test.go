package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/arran/internal/script"
	"github.com/kode4food/arran/pkg/api"
)

func luaConfig(src string) *api.ScriptConfig {
	return &api.ScriptConfig{Language: api.ScriptLangLua, Script: src}
}

func TestEvaluatePredicate(t *testing.T) {
	env := script.NewEnv()
	c, err := env.Compile(
		luaConfig("return target <= current + 1"),
		[]string{"current", "target"},
	)
	assert.NoError(t, err)

	ok, err := env.EvaluatePredicate(c, api.Args{"current": 1, "target": 2})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.EvaluatePredicate(c, api.Args{"current": 1, "target": 3})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateConfig(t *testing.T) {
	env := script.NewEnv()

	ok, err := env.EvaluateConfig(t.Context(),
		luaConfig(`return email ~= nil and seats > 0`),
		api.Args{"email": "x@y.com", "seats": 3},
	)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.EvaluateConfig(t.Context(),
		luaConfig(`return email ~= nil and seats > 0`),
		api.Args{"email": "x@y.com", "seats": 0},
	)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMissingInputsAreNil(t *testing.T) {
	env := script.NewEnv()
	c, err := env.Compile(luaConfig("return name == nil"), []string{"name"})
	assert.NoError(t, err)

	ok, err := env.EvaluatePredicate(c, api.Args{})
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestSandboxExcludesHostAccess(t *testing.T) {
	env := script.NewEnv()
	c, err := env.Compile(
		luaConfig("return os == nil and io == nil"), nil,
	)
	assert.NoError(t, err)

	ok, err := env.EvaluatePredicate(c, nil)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestCompileErrors(t *testing.T) {
	env := script.NewEnv()

	_, err := env.Compile(luaConfig("return ((("), nil)
	assert.ErrorIs(t, err, script.ErrScriptCompile)

	_, err = env.Compile(
		&api.ScriptConfig{Language: "python", Script: "True"}, nil,
	)
	assert.Error(t, err)

	_, err = env.Compile(&api.ScriptConfig{}, nil)
	assert.Error(t, err)
}

func TestCompileCaching(t *testing.T) {
	env := script.NewEnv()
	cfg := luaConfig("return true")

	first, err := env.Compile(cfg, []string{"a"})
	assert.NoError(t, err)
	second, err := env.Compile(cfg, []string{"a"})
	assert.NoError(t, err)
	assert.Same(t, first, second)

	other, err := env.Compile(cfg, []string{"b"})
	assert.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestRuntimeError(t *testing.T) {
	env := script.NewEnv()
	c, err := env.Compile(luaConfig(`error("boom")`), nil)
	assert.NoError(t, err)

	_, err = env.EvaluatePredicate(c, nil)
	assert.ErrorIs(t, err, script.ErrScriptExecution)
}

func TestComplexInputs(t *testing.T) {
	env := script.NewEnv()
	c, err := env.Compile(
		luaConfig(`return address.city == "Oban" and #tags == 2`),
		[]string{"address", "tags"},
	)
	assert.NoError(t, err)

	ok, err := env.EvaluatePredicate(c, api.Args{
		"address": map[string]any{"city": "Oban"},
		"tags":    []any{"a", "b"},
	})
	assert.NoError(t, err)
	assert.True(t, ok)
}
