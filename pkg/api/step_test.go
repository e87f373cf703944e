package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	helpers "github.com/kode4food/arran/internal/assert"
	"github.com/kode4food/arran/pkg/api"
)

func TestStepsValidate(t *testing.T) {
	as := helpers.New(t)
	as.StepValid(&api.Step{ID: "account", Title: "Account"})

	assert.ErrorIs(t, api.Steps{}.Validate(), api.ErrNoSteps)

	dup := api.Steps{
		{ID: "account", Title: "Account"},
		{ID: "account", Title: "Again"},
	}
	assert.ErrorIs(t, dup.Validate(), api.ErrDuplicateStepID)
}

func TestStepValidateFields(t *testing.T) {
	as := helpers.New(t)

	as.StepInvalid(&api.Step{Title: "No ID"}, "step ID empty")
	as.StepInvalid(&api.Step{ID: "x"}, "step title empty")

	dup := &api.Step{
		ID:     "account",
		Title:  "Account",
		Fields: []api.Name{"email", "email"},
	}
	err := as.StepInvalid(dup, "duplicate field")
	assert.ErrorIs(t, err, api.ErrDuplicateField)
}

func TestFieldsFor(t *testing.T) {
	steps := api.Steps{
		{ID: "a", Title: "A", Fields: []api.Name{"one", "two"}},
		{ID: "b", Title: "B", Fields: []api.Name{"three"}},
	}

	assert.Equal(t, []api.Name{"one", "two"}, steps.FieldsFor(0))
	assert.Nil(t, steps.FieldsFor(2))
	assert.Nil(t, steps.FieldsFor(-1))
	assert.Equal(t, []api.Name{"one", "two", "three"}, steps.AllFields())
}

func TestSpecFor(t *testing.T) {
	steps := api.Steps{
		{ID: "a", Title: "A", Specs: api.FieldSpecs{
			"email": {Type: api.TypeString, Required: true},
		}},
		{ID: "b", Title: "B"},
	}

	spec, ok := steps.SpecFor("email")
	assert.True(t, ok)
	assert.True(t, spec.Required)

	_, ok = steps.SpecFor("missing")
	assert.False(t, ok)
}

func TestStepDefaults(t *testing.T) {
	steps := api.Steps{
		{ID: "a", Title: "A", Specs: api.FieldSpecs{
			"plan":  {Type: api.TypeString, Default: `"basic"`},
			"seats": {Type: api.TypeNumber, Default: "5"},
			"email": {Type: api.TypeString},
		}},
	}

	defaults := steps.Defaults()
	assert.Equal(t, "basic", defaults.GetString("plan", ""))
	assert.Equal(t, 5, defaults.GetInt("seats", 0))
	assert.NotContains(t, defaults, api.Name("email"))
}

func TestScriptConfigValidate(t *testing.T) {
	ok := &api.ScriptConfig{Language: api.ScriptLangLua, Script: "return true"}
	assert.NoError(t, ok.Validate())

	assert.ErrorIs(t,
		(&api.ScriptConfig{Script: "return true"}).Validate(),
		api.ErrScriptLanguageEmpty)
	assert.ErrorIs(t,
		(&api.ScriptConfig{Language: "python", Script: "x"}).Validate(),
		api.ErrInvalidScriptLang)
	assert.ErrorIs(t,
		(&api.ScriptConfig{Language: api.ScriptLangLua}).Validate(),
		api.ErrScriptEmpty)

	assert.True(t, ok.Equal(&api.ScriptConfig{
		Language: api.ScriptLangLua, Script: "return true",
	}))
	assert.False(t, ok.Equal(nil))
}
