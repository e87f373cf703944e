package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	helpers "github.com/kode4food/arran/internal/assert"
	"github.com/kode4food/arran/internal/engine"
	"github.com/kode4food/arran/pkg/api"
)

func newGateway(opts *api.Options, initial api.Args) *engine.Gateway {
	return engine.NewGateway(testSteps(), opts, nil, initial, nil)
}

func TestGatewayDefaults(t *testing.T) {
	as := helpers.New(t)
	g := newGateway(api.DefaultOptions(), nil)

	as.Equal("anonymous", g.Values().GetString("name", ""))
}

func TestGatewayInitialValues(t *testing.T) {
	as := helpers.New(t)
	g := newGateway(api.DefaultOptions(), api.Args{
		"email": "x@y.com",
		"name":  "morag",
	})

	vals := g.Values()
	as.Equal("x@y.com", vals.GetString("email", ""))
	as.Equal("morag", vals.GetString("name", ""))
}

func TestStepValues(t *testing.T) {
	as := helpers.New(t)
	g := newGateway(api.DefaultOptions(), api.Args{
		"email":    "x@y.com",
		"password": "hunter22",
	})

	vals := g.StepValues(0)
	as.Equal("x@y.com", vals.GetString("email", ""))
	as.NotContains(vals, api.Name("name"))

	vals = g.StepValues(1)
	as.Equal("anonymous", vals.GetString("name", ""))
	as.NotContains(vals, api.Name("email"))
}

func TestSetFieldBlurValidation(t *testing.T) {
	as := helpers.New(t)
	opts := api.DefaultOptions()
	opts.ValidateOnBlur = true
	g := newGateway(opts, nil)

	res := g.SetField("email", "not-an-email")
	as.InvalidResult(res, "email")

	res = g.SetField("email", "x@y.com")
	as.ValidResult(res)
}

func TestSetFieldWithoutBlur(t *testing.T) {
	as := helpers.New(t)
	g := newGateway(api.DefaultOptions(), nil)

	as.Nil(g.SetField("email", "not-an-email"))
	as.Equal("not-an-email", g.Values().GetString("email", ""))
}

func TestSetFieldsBatch(t *testing.T) {
	as := helpers.New(t)
	opts := api.DefaultOptions()
	opts.ValidateOnBlur = true
	g := newGateway(opts, nil)

	res := g.SetFields(api.Args{
		"email":    "x@y.com",
		"password": "short",
	})
	as.InvalidResult(res, "password")
	as.NotContains(res.Errors, api.Name("email"))
}

func TestValidateStepScoped(t *testing.T) {
	as := helpers.New(t)
	g := newGateway(api.DefaultOptions(), api.Args{"email": "bad"})
	ctx := t.Context()

	res := g.ValidateStep(ctx, 0)
	as.InvalidResult(res, "email", "password")

	// the profile step has no failing fields
	as.ValidResult(g.ValidateStep(ctx, 1))
	as.ValidResult(g.ValidateStep(ctx, 2))
}

func TestValidateAll(t *testing.T) {
	as := helpers.New(t)
	g := newGateway(api.DefaultOptions(), nil)
	ctx := t.Context()

	as.InvalidResult(g.ValidateAll(ctx), "email", "password")

	g.SetFields(api.Args{"email": "x@y.com", "password": "hunter22"})
	as.ValidResult(g.ValidateAll(ctx))
}

func TestCustomValidator(t *testing.T) {
	as := helpers.New(t)
	opts := api.DefaultOptions()
	opts.CustomValidator = &api.ScriptConfig{
		Language: api.ScriptLangLua, Script: "return false",
	}
	g := engine.NewGateway(
		testSteps(), opts, &fakeScripts{result: false},
		api.Args{"email": "x@y.com", "password": "hunter22"}, nil,
	)

	res := g.ValidateAll(t.Context())
	as.InvalidResult(res, api.CustomField)
}

func TestCustomValidatorAfterSchema(t *testing.T) {
	as := helpers.New(t)
	opts := api.DefaultOptions()
	opts.CustomValidator = &api.ScriptConfig{
		Language: api.ScriptLangLua, Script: "return false",
	}
	g := engine.NewGateway(testSteps(), opts, &fakeScripts{}, nil, nil)

	// schema failures preempt the custom validator
	res := g.ValidateAll(t.Context())
	as.InvalidResult(res, "email", "password")
	as.NotContains(res.Errors, api.CustomField)
}

func TestCustomValidatorError(t *testing.T) {
	as := helpers.New(t)
	opts := api.DefaultOptions()
	opts.CustomValidator = &api.ScriptConfig{
		Language: api.ScriptLangLua, Script: "return true",
	}
	g := engine.NewGateway(
		testSteps(), opts, &fakeScripts{err: assert.AnError},
		api.Args{"email": "x@y.com", "password": "hunter22"}, nil,
	)

	as.InvalidResult(g.ValidateAll(t.Context()), api.CustomField)
}

func TestValidateUnknownField(t *testing.T) {
	as := helpers.New(t)
	g := newGateway(api.DefaultOptions(), nil)

	as.ValidResult(g.ValidateField("unheard-of"))
}

func TestResetToDefaults(t *testing.T) {
	as := helpers.New(t)
	g := newGateway(api.DefaultOptions(), nil)

	g.SetFields(api.Args{"email": "x@y.com", "name": "morag"})
	g.ResetToDefaults()

	vals := g.Values()
	as.NotContains(vals, api.Name("email"))
	as.Equal("anonymous", vals.GetString("name", ""))
}
