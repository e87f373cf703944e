package engine

import (
	"context"
	"log/slog"
	"maps"

	"github.com/kode4food/arran/pkg/api"
	"github.com/kode4food/arran/pkg/log"
)

// Gateway owns the field-value store of one flow and validates captured
// values against the declarative schema. A configured custom validator
// runs only after schema validation passes; its failure is reported under
// the synthetic "custom" key
type Gateway struct {
	steps   api.Steps
	values  api.Args
	opts    *api.Options
	scripts PredicateEvaluator
	log     *slog.Logger
}

// NewGateway creates the validation gateway, seeding the value store with
// the declared field defaults layered under any initial values
func NewGateway(
	steps api.Steps, opts *api.Options, scripts PredicateEvaluator,
	initial api.Args, logger *slog.Logger,
) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		steps:   steps,
		opts:    opts,
		scripts: scripts,
		values:  steps.Defaults().Merge(initial),
		log:     logger,
	}
}

// Values returns a snapshot of the current field values
func (g *Gateway) Values() api.Args {
	return maps.Clone(g.values)
}

// StepValues returns the current values restricted to the fields owned by
// the step at the index
func (g *Gateway) StepValues(index int) api.Args {
	res := api.Args{}
	for _, name := range g.steps.FieldsFor(index) {
		if v, ok := g.values[name]; ok {
			res[name] = v
		}
	}
	return res
}

// SetField captures one field value. When blur validation is enabled the
// field is checked immediately and the result returned; otherwise the
// result is nil
func (g *Gateway) SetField(name api.Name, value any) *api.ValidationResult {
	g.values = g.values.Set(name, value)
	if !g.opts.ValidateOnBlur {
		return nil
	}
	return g.ValidateField(name)
}

// SetFields captures a batch of field values, validating them collectively
// when blur validation is enabled
func (g *Gateway) SetFields(values api.Args) *api.ValidationResult {
	g.values = g.values.Merge(values)
	if !g.opts.ValidateOnBlur {
		return nil
	}
	errs := map[api.Name]string{}
	for name := range values {
		g.checkField(name, errs)
	}
	return newValidationResult(errs)
}

// ValidateField checks a single captured value against its spec. Fields
// without a declared spec are always valid
func (g *Gateway) ValidateField(name api.Name) *api.ValidationResult {
	errs := map[api.Name]string{}
	g.checkField(name, errs)
	return newValidationResult(errs)
}

// ValidateStep checks the fields owned by the step at the index. The
// custom validator runs only when every schema check passes
func (g *Gateway) ValidateStep(
	ctx context.Context, index int,
) *api.ValidationResult {
	errs := map[api.Name]string{}
	for _, name := range g.steps.FieldsFor(index) {
		g.checkField(name, errs)
	}
	if len(errs) == 0 {
		g.checkCustom(ctx, errs)
	}
	return newValidationResult(errs)
}

// ValidateAll checks every field of every step; used at final submission
func (g *Gateway) ValidateAll(ctx context.Context) *api.ValidationResult {
	errs := map[api.Name]string{}
	for _, name := range g.steps.AllFields() {
		g.checkField(name, errs)
	}
	if len(errs) == 0 {
		g.checkCustom(ctx, errs)
	}
	return newValidationResult(errs)
}

// ResetToDefaults discards captured values, restoring the declared field
// defaults
func (g *Gateway) ResetToDefaults() {
	g.values = g.steps.Defaults()
}

func (g *Gateway) checkField(name api.Name, errs map[api.Name]string) {
	spec, ok := g.steps.SpecFor(name)
	if !ok {
		return
	}
	if msg, ok := spec.Check(name, g.values[name]); !ok {
		errs[name] = msg
	}
}

func (g *Gateway) checkCustom(
	ctx context.Context, errs map[api.Name]string,
) {
	cfg := g.opts.CustomValidator
	if cfg == nil || g.scripts == nil {
		return
	}
	ok, err := g.scripts.EvaluateConfig(ctx, cfg, g.values)
	if err != nil {
		g.log.Warn("custom validator failed", log.Error(err))
		errs[api.CustomField] = "custom validation failed"
		return
	}
	if !ok {
		errs[api.CustomField] = "custom validation failed"
	}
}

func newValidationResult(errs map[api.Name]string) *api.ValidationResult {
	if len(errs) == 0 {
		return &api.ValidationResult{Valid: true}
	}
	return &api.ValidationResult{Errors: errs}
}
