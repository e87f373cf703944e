package api

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"
)

type (
	// FieldSpec is the declarative validation schema for a single field
	FieldSpec struct {
		Type     FieldType `json:"type,omitempty"`
		Required bool      `json:"required,omitempty"`
		MinLen   int       `json:"min_len,omitempty"`
		MaxLen   int       `json:"max_len,omitempty"`
		Pattern  string    `json:"pattern,omitempty"`
		Default  string    `json:"default,omitempty"`
	}

	FieldSpecs map[Name]*FieldSpec
	FieldType  string

	// ValidationResult reports the outcome of validating one or more fields
	ValidationResult struct {
		Errors map[Name]string `json:"errors,omitempty"`
		Valid  bool            `json:"valid"`
	}
)

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeObject  FieldType = "object"
	TypeArray   FieldType = "array"
	TypeAny     FieldType = "any"
)

// CustomField is the synthetic key under which custom validator failures
// are reported
const CustomField = Name("custom")

var (
	ErrInvalidFieldType    = errors.New("invalid field type")
	ErrInvalidPattern      = errors.New("invalid field pattern")
	ErrInvalidLengthBounds = errors.New("max_len must be >= min_len")
	ErrLengthNotAllowed    = errors.New(
		"length bounds require a string field",
	)
	ErrPatternNotAllowed   = errors.New("pattern requires a string field")
	ErrInvalidDefaultValue = errors.New("invalid default value for type")
)

var validFieldTypes = map[FieldType]struct{}{
	TypeString:  {},
	TypeNumber:  {},
	TypeBoolean: {},
	TypeObject:  {},
	TypeArray:   {},
	TypeAny:     {},
}

// Validate checks that the field spec is internally consistent
func (fs *FieldSpec) Validate(name Name) error {
	if fs.Type != "" {
		if _, ok := validFieldTypes[fs.Type]; !ok {
			return fmt.Errorf("%w: %s for field %q",
				ErrInvalidFieldType, fs.Type, name)
		}
	}

	if fs.MinLen < 0 || (fs.MaxLen != 0 && fs.MaxLen < fs.MinLen) {
		return fmt.Errorf("%w for field %q", ErrInvalidLengthBounds, name)
	}

	if (fs.MinLen != 0 || fs.MaxLen != 0) && !fs.isStringLike() {
		return fmt.Errorf("%w: %s for field %q",
			ErrLengthNotAllowed, fs.Type, name)
	}

	if fs.Pattern != "" {
		if !fs.isStringLike() {
			return fmt.Errorf("%w: %s for field %q",
				ErrPatternNotAllowed, fs.Type, name)
		}
		if _, err := regexp.Compile(fs.Pattern); err != nil {
			return fmt.Errorf("%w for field %q: %v",
				ErrInvalidPattern, name, err)
		}
	}

	if fs.Default != "" && fs.Type != "" {
		if err := validateDefaultValue(fs.Default, fs.Type); err != nil {
			return fmt.Errorf("%w for field %q: %v",
				ErrInvalidDefaultValue, name, err)
		}
	}

	return nil
}

// Check validates a captured value against the spec, returning a
// human-readable message and false when the value is rejected
func (fs *FieldSpec) Check(name Name, value any) (string, bool) {
	if value == nil {
		if fs.Required {
			return fmt.Sprintf("%s is required", name), false
		}
		return "", true
	}

	if msg, ok := fs.checkType(name, value); !ok {
		return msg, false
	}

	str, isStr := value.(string)
	if !isStr {
		return "", true
	}

	if fs.Required && str == "" {
		return fmt.Sprintf("%s is required", name), false
	}
	if fs.MinLen > 0 && len(str) < fs.MinLen {
		return fmt.Sprintf("%s must be at least %d characters",
			name, fs.MinLen), false
	}
	if fs.MaxLen > 0 && len(str) > fs.MaxLen {
		return fmt.Sprintf("%s must be at most %d characters",
			name, fs.MaxLen), false
	}
	if fs.Pattern != "" {
		re, err := regexp.Compile(fs.Pattern)
		if err != nil || !re.MatchString(str) {
			return fmt.Sprintf("%s has an invalid format", name), false
		}
	}

	return "", true
}

// DefaultValue parses the JSON default literal into a Go value, returning
// nil when no default is declared
func (fs *FieldSpec) DefaultValue() any {
	if fs.Default == "" {
		return nil
	}
	return gjson.Parse(fs.Default).Value()
}

// Equal compares two field specs
func (fs *FieldSpec) Equal(other *FieldSpec) bool {
	if fs == nil && other == nil {
		return true
	}
	if fs == nil || other == nil {
		return false
	}
	return fs.Type == other.Type &&
		fs.Required == other.Required &&
		fs.MinLen == other.MinLen &&
		fs.MaxLen == other.MaxLen &&
		fs.Pattern == other.Pattern &&
		fs.Default == other.Default
}

// Defaults returns the declared default values as Args
func (specs FieldSpecs) Defaults() Args {
	res := Args{}
	for name, fs := range specs {
		if v := fs.DefaultValue(); v != nil {
			res[name] = v
		}
	}
	return res
}

func (fs *FieldSpec) isStringLike() bool {
	return fs.Type == "" || fs.Type == TypeString
}

func (fs *FieldSpec) checkType(name Name, value any) (string, bool) {
	switch fs.Type {
	case TypeString:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("%s must be a string", name), false
		}
	case TypeNumber:
		switch value.(type) {
		case int, int64, float64:
		default:
			return fmt.Sprintf("%s must be a number", name), false
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("%s must be a boolean", name), false
		}
	case TypeObject:
		if _, ok := value.(map[string]any); !ok {
			return fmt.Sprintf("%s must be an object", name), false
		}
	case TypeArray:
		if _, ok := value.([]any); !ok {
			return fmt.Sprintf("%s must be an array", name), false
		}
	}
	return "", true
}

func validateDefaultValue(value string, fieldType FieldType) error {
	if !gjson.Valid(value) {
		return errors.New("must be valid JSON")
	}

	if fieldType == TypeAny {
		return nil
	}

	result := gjson.Parse(value)

	switch fieldType {
	case TypeString:
		if result.Type != gjson.String {
			return errors.New("must be a valid JSON string")
		}
	case TypeNumber:
		if result.Type != gjson.Number {
			return errors.New("must be a valid number")
		}
	case TypeBoolean:
		if result.Type != gjson.True && result.Type != gjson.False {
			return errors.New("must be \"true\" or \"false\"")
		}
	case TypeObject:
		if !result.IsObject() {
			return errors.New("must be valid JSON object")
		}
	case TypeArray:
		if !result.IsArray() {
			return errors.New("must be valid JSON array")
		}
	}

	return nil
}
