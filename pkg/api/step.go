package api

import (
	"errors"
	"fmt"
)

type (
	// Step describes one position of a multi-step flow. Descriptors are
	// supplied by the caller and immutable once a flow starts
	Step struct {
		Rule     *ScriptConfig `json:"rule,omitempty"`
		Metadata Metadata      `json:"metadata,omitempty"`
		ID       StepID        `json:"id"`
		Title    string        `json:"title"`
		Fields   []Name        `json:"fields,omitempty"`
		Specs    FieldSpecs    `json:"specs,omitempty"`
		Optional bool          `json:"optional,omitempty"`
		Disabled bool          `json:"disabled,omitempty"`
	}

	// Steps is the ordered step registry of a flow
	Steps []*Step

	// ScriptConfig declares a scripted predicate (navigation rule or
	// custom validator)
	ScriptConfig struct {
		Language string `json:"language"`
		Script   string `json:"script"`
	}
)

const ScriptLangLua = "lua"

var (
	ErrStepIDEmpty         = errors.New("step ID empty")
	ErrStepTitleEmpty      = errors.New("step title empty")
	ErrStepNil             = errors.New("step descriptor is nil")
	ErrDuplicateStepID     = errors.New("duplicate step ID")
	ErrDuplicateField      = errors.New("duplicate field")
	ErrFieldSpecNil        = errors.New("field has nil spec")
	ErrFieldNameEmpty      = errors.New("field name empty")
	ErrNoSteps             = errors.New("a flow requires at least one step")
	ErrScriptLanguageEmpty = errors.New("script language empty")
	ErrScriptEmpty         = errors.New("script empty")
	ErrInvalidScriptLang   = errors.New("invalid script language")
)

// Validate checks a step descriptor for internal consistency
func (s *Step) Validate() error {
	if s.ID == "" {
		return ErrStepIDEmpty
	}
	if s.Title == "" {
		return ErrStepTitleEmpty
	}

	seen := map[Name]struct{}{}
	for _, name := range s.Fields {
		if name == "" {
			return fmt.Errorf("%w in step %q", ErrFieldNameEmpty, s.ID)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s in step %q",
				ErrDuplicateField, name, s.ID)
		}
		seen[name] = struct{}{}
	}

	for name, spec := range s.Specs {
		if name == "" {
			return fmt.Errorf("%w in step %q", ErrFieldNameEmpty, s.ID)
		}
		if spec == nil {
			return fmt.Errorf("%w: %s in step %q",
				ErrFieldSpecNil, name, s.ID)
		}
		if err := spec.Validate(name); err != nil {
			return err
		}
	}

	if s.Rule != nil {
		return s.Rule.Validate()
	}
	return nil
}

// Validate checks a step registry: at least one step, unique IDs, and
// per-step consistency
func (st Steps) Validate() error {
	if len(st) == 0 {
		return ErrNoSteps
	}

	seen := map[StepID]struct{}{}
	for _, s := range st {
		if s == nil {
			return ErrStepNil
		}
		if err := s.Validate(); err != nil {
			return err
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateStepID, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// FieldsFor returns the field names owned by the step at the given index,
// or nil when the index is out of range
func (st Steps) FieldsFor(index int) []Name {
	if index < 0 || index >= len(st) {
		return nil
	}
	return st[index].Fields
}

// AllFields returns every field name declared across the registry, in step
// order
func (st Steps) AllFields() []Name {
	var all []Name
	for _, s := range st {
		all = append(all, s.Fields...)
	}
	return all
}

// SpecFor resolves the field spec for a name, searching steps in order
func (st Steps) SpecFor(name Name) (*FieldSpec, bool) {
	for _, s := range st {
		if spec, ok := s.Specs[name]; ok {
			return spec, true
		}
	}
	return nil, false
}

// Defaults collects the declared default values across all steps
func (st Steps) Defaults() Args {
	res := Args{}
	for _, s := range st {
		res = res.Merge(s.Specs.Defaults())
	}
	return res
}

// Validate checks a script configuration
func (sc *ScriptConfig) Validate() error {
	if sc.Language == "" {
		return ErrScriptLanguageEmpty
	}
	if sc.Language != ScriptLangLua {
		return fmt.Errorf("%w: %s", ErrInvalidScriptLang, sc.Language)
	}
	if sc.Script == "" {
		return ErrScriptEmpty
	}
	return nil
}

// Equal compares two script configurations
func (sc *ScriptConfig) Equal(other *ScriptConfig) bool {
	if sc == nil && other == nil {
		return true
	}
	if sc == nil || other == nil {
		return false
	}
	return sc.Language == other.Language && sc.Script == other.Script
}
